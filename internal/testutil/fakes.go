// Package testutil provides in-memory stand-ins for the external collaborators
// (document store, role store, identity provider, spreadsheet writer).
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/auth"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/domain"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/export"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/repository"
)

// NewLogger returns a logger that discards everything.
func NewLogger() *zap.Logger { return zap.NewNop() }

// ReportStore is an in-memory ReportRepository with the same filter and
// ordering semantics as the real stores.
type ReportStore struct {
	mu      sync.Mutex
	seq     int
	docs    map[string]map[string]any
	order   []string
	Err     error
	Queries []repository.ReportQuery
}

// NewReportStore creates an empty store.
func NewReportStore() *ReportStore {
	return &ReportStore{docs: map[string]map[string]any{}}
}

// Seed inserts fields under id and returns id.
func (s *ReportStore) Seed(id string, fields map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = copyFields(fields)
	s.order = append(s.order, id)
	return id
}

// Get returns a copy of the stored document.
func (s *ReportStore) Get(id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, false
	}
	return copyFields(doc), true
}

// Len returns the number of stored documents.
func (s *ReportStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *ReportStore) Create(_ context.Context, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.seq++
	id := fmt.Sprintf("doc-%03d", s.seq)
	s.docs[id] = copyFields(fields)
	s.order = append(s.order, id)
	return id, nil
}

func (s *ReportStore) List(_ context.Context, q repository.ReportQuery) ([]domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Queries = append(s.Queries, q)
	if s.Err != nil {
		return nil, s.Err
	}

	result := []domain.Report{}
	for _, id := range s.order {
		report := domain.Report{ID: id, Fields: copyFields(s.docs[id])}
		if matches(report, q) {
			result = append(result, report)
		}
	}
	if q.Order == repository.OrderSLAAscending {
		repository.SortBySLA(result)
	} else {
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt().Time.After(result[j].CreatedAt().Time)
		})
	}
	return result, nil
}

func (s *ReportStore) Update(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	doc, ok := s.docs[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func matches(r domain.Report, q repository.ReportQuery) bool {
	if len(q.Statuses) > 0 {
		found := false
		for _, status := range q.Statuses {
			if r.Status() == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.Urgency != "" && r.Urgency() != q.Urgency {
		return false
	}
	created := r.CreatedAt()
	if q.CreatedFrom != nil && (!created.Valid || created.Time.Before(*q.CreatedFrom)) {
		return false
	}
	if q.CreatedBefore != nil && (!created.Valid || !created.Time.Before(*q.CreatedBefore)) {
		return false
	}
	return true
}

func copyFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// RoleStore is an in-memory RoleRepository.
type RoleStore struct {
	mu    sync.Mutex
	roles map[string]domain.Role
	Err   error
	Reads int
}

// NewRoleStore seeds uid → role records.
func NewRoleStore(roles map[string]domain.Role) *RoleStore {
	if roles == nil {
		roles = map[string]domain.Role{}
	}
	return &RoleStore{roles: roles}
}

func (s *RoleStore) GetRole(_ context.Context, uid string) (domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	if s.Err != nil {
		return "", s.Err
	}
	role, ok := s.roles[uid]
	if !ok {
		return "", repository.ErrNotFound
	}
	return role, nil
}

func (s *RoleStore) SetRole(_ context.Context, uid string, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[uid] = role
	return nil
}

// Verifier accepts a fixed set of tokens.
type Verifier struct {
	Tokens map[string]auth.Subject
	Calls  int
}

// NewVerifier maps token → subject.
func NewVerifier(tokens map[string]auth.Subject) *Verifier {
	return &Verifier{Tokens: tokens}
}

func (v *Verifier) Verify(_ context.Context, token string) (*auth.Subject, error) {
	v.Calls++
	subject, ok := v.Tokens[token]
	if !ok {
		return nil, &auth.VerificationError{Code: "invalid-token"}
	}
	return &subject, nil
}

// SheetWriter records what it was asked to write.
type SheetWriter struct {
	Calls   int
	Sheet   string
	Columns []export.Column
	Rows    [][]string
	Output  []byte
	Err     error
}

func (w *SheetWriter) Write(sheet string, columns []export.Column, rows [][]string) ([]byte, error) {
	w.Calls++
	w.Sheet = sheet
	w.Columns = columns
	w.Rows = rows
	if w.Err != nil {
		return nil, w.Err
	}
	if w.Output == nil {
		return []byte("xlsx"), nil
	}
	return w.Output, nil
}

// FixedClock returns a clock frozen at t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

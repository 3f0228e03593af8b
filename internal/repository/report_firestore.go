package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/domain"
)

type firestoreReportRepository struct {
	client *firestore.Client
}

// NewFirestoreReportRepository stores reports in the "reports" collection.
func NewFirestoreReportRepository(client *firestore.Client) ReportRepository {
	return &firestoreReportRepository{client: client}
}

func (r *firestoreReportRepository) Create(ctx context.Context, fields map[string]any) (string, error) {
	ref, _, err := r.client.Collection(ReportsCollection).Add(ctx, fields)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (r *firestoreReportRepository) List(ctx context.Context, q ReportQuery) ([]domain.Report, error) {
	query := r.client.Collection(ReportsCollection).Query
	switch len(q.Statuses) {
	case 0:
	case 1:
		query = query.Where(domain.FieldStatus, "==", q.Statuses[0])
	default:
		query = query.Where(domain.FieldStatus, "in", q.Statuses)
	}
	if q.Urgency != "" {
		query = query.Where(domain.FieldUrgency, "==", q.Urgency)
	}
	if q.CreatedFrom != nil {
		query = query.Where(domain.FieldCreatedAt, ">=", *q.CreatedFrom)
	}
	if q.CreatedBefore != nil {
		query = query.Where(domain.FieldCreatedAt, "<", *q.CreatedBefore)
	}
	// Firestore wants the range field ordered first, so the SLA order is
	// applied after the fetch.
	query = query.OrderBy(domain.FieldCreatedAt, firestore.Desc)

	snapshots, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	reports := make([]domain.Report, 0, len(snapshots))
	for _, snap := range snapshots {
		reports = append(reports, domain.Report{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	if q.Order == OrderSLAAscending {
		SortBySLA(reports)
	}
	return reports, nil
}

func (r *firestoreReportRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	if id == "" {
		return ErrNotFound
	}
	updates := make([]firestore.Update, 0, len(fields))
	for key, value := range fields {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{key}, Value: value})
	}
	if len(updates) == 0 {
		return nil
	}
	_, err := r.client.Collection(ReportsCollection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// SortBySLA orders reports by SLA deadline, earliest first. Reports without a
// deadline go last; ties keep their previous order.
func SortBySLA(reports []domain.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		a, b := reports[i].SLADeadline(), reports[j].SLADeadline()
		if !a.Valid {
			return false
		}
		if !b.Valid {
			return true
		}
		return a.Time.Before(b.Time)
	})
}

type firestoreRoleRepository struct {
	client *firestore.Client
}

// NewFirestoreRoleRepository reads roles from users/<uid>.role.
func NewFirestoreRoleRepository(client *firestore.Client) RoleRepository {
	return &firestoreRoleRepository{client: client}
}

func (r *firestoreRoleRepository) GetRole(ctx context.Context, uid string) (domain.Role, error) {
	if uid == "" {
		return "", ErrNotFound
	}
	snap, err := r.client.Collection(UsersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", ErrNotFound
		}
		return "", err
	}
	value, err := snap.DataAt("role")
	if err != nil {
		// The document exists but carries no role field.
		return "", ErrNotFound
	}
	role, ok := value.(string)
	if !ok {
		return "", ErrNotFound
	}
	return domain.Role(role), nil
}

func (r *firestoreRoleRepository) SetRole(ctx context.Context, uid string, role domain.Role) error {
	_, err := r.client.Collection(UsersCollection).Doc(uid).Set(ctx, map[string]any{"role": string(role)}, firestore.MergeAll)
	return err
}

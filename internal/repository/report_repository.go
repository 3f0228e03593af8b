package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/domain"
)

// ErrNotFound is returned when the addressed document does not exist.
var ErrNotFound = errors.New("document not found")

// Collection names shared by the document store backends.
const (
	ReportsCollection = "reports"
	UsersCollection   = "users"
)

// ReportOrder selects the result ordering of a report query.
type ReportOrder int

const (
	// OrderNewestFirst sorts by creation timestamp, descending.
	OrderNewestFirst ReportOrder = iota
	// OrderSLAAscending sorts by SLA deadline, earliest first.
	OrderSLAAscending
)

// ReportQuery captures list/export filters. Zero values mean "no filter".
type ReportQuery struct {
	// One status is matched by equality, several by set membership.
	Statuses []string
	Urgency  string
	// CreatedFrom is inclusive, CreatedBefore exclusive.
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
	Order         ReportOrder
}

// ReportRepository encapsulates report persistence.
type ReportRepository interface {
	Create(ctx context.Context, fields map[string]any) (string, error)
	List(ctx context.Context, query ReportQuery) ([]domain.Report, error)
	// Update merges fields into the top level of the document.
	Update(ctx context.Context, id string, fields map[string]any) error
}

// RoleRepository reads the per-user role records. Roles are written only by
// the admin CLI.
type RoleRepository interface {
	GetRole(ctx context.Context, uid string) (domain.Role, error)
	SetRole(ctx context.Context, uid string, role domain.Role) error
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type postgresReportRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresReportRepository stores reports as JSONB documents.
func NewPostgresReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &postgresReportRepository{pool: pool}
}

func (r *postgresReportRepository) Create(ctx context.Context, fields map[string]any) (string, error) {
	createdAt, ok := fields[domain.FieldCreatedAt].(time.Time)
	if !ok {
		return "", fmt.Errorf("report %s must be a time", domain.FieldCreatedAt)
	}
	deadline, ok := fields[domain.FieldSLADeadline].(time.Time)
	if !ok {
		return "", fmt.Errorf("report %s must be a time", domain.FieldSLADeadline)
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	const query = `
        INSERT INTO reports (data, created_at, sla_deadline)
        VALUES ($1::jsonb, $2, $3)
        RETURNING id::text`
	var id string
	if err := r.pool.QueryRow(ctx, query, string(data), createdAt, deadline).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (r *postgresReportRepository) List(ctx context.Context, q ReportQuery) ([]domain.Report, error) {
	query, args := buildReportListQuery(q)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *postgresReportRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	// Non-UUID ids cannot name a row; answering NotFound avoids a cast error.
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode report update: %w", err)
	}

	const query = `UPDATE reports SET data = data || $1::jsonb WHERE id = $2`
	cmd, err := r.pool.Exec(ctx, query, string(data), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func buildReportListQuery(q ReportQuery) (string, []any) {
	base := `SELECT id::text, data, created_at, sla_deadline FROM reports`
	clauses := []string{"1=1"}
	args := []any{}

	switch len(q.Statuses) {
	case 0:
	case 1:
		args = append(args, q.Statuses[0])
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	default:
		placeholders := make([]string, len(q.Statuses))
		for i, status := range q.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if q.Urgency != "" {
		args = append(args, q.Urgency)
		clauses = append(clauses, fmt.Sprintf("urgensi = $%d", len(args)))
	}
	if q.CreatedFrom != nil {
		args = append(args, *q.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if q.CreatedBefore != nil {
		args = append(args, *q.CreatedBefore)
		clauses = append(clauses, fmt.Sprintf("created_at < $%d", len(args)))
	}

	order := "created_at DESC"
	if q.Order == OrderSLAAscending {
		order = "sla_deadline ASC"
	}

	return fmt.Sprintf(`%s WHERE %s ORDER BY %s`, base, strings.Join(clauses, " AND "), order), args
}

func scanReports(rows pgx.Rows) ([]domain.Report, error) {
	result := []domain.Report{}
	for rows.Next() {
		var (
			id        string
			data      []byte
			createdAt time.Time
			deadline  time.Time
		)
		if err := rows.Scan(&id, &data, &createdAt, &deadline); err != nil {
			return nil, err
		}
		fields := map[string]any{}
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("decode report %s: %w", id, err)
		}
		fields[domain.FieldCreatedAt] = createdAt
		fields[domain.FieldSLADeadline] = deadline
		result = append(result, domain.Report{ID: id, Fields: fields})
	}
	return result, rows.Err()
}

type postgresRoleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoleRepository reads roles from the user_roles table.
func NewPostgresRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &postgresRoleRepository{pool: pool}
}

func (r *postgresRoleRepository) GetRole(ctx context.Context, uid string) (domain.Role, error) {
	const query = `SELECT role FROM user_roles WHERE uid = $1`
	var role string
	if err := r.pool.QueryRow(ctx, query, uid).Scan(&role); err != nil {
		if err == pgx.ErrNoRows {
			return "", ErrNotFound
		}
		return "", err
	}
	return domain.Role(role), nil
}

func (r *postgresRoleRepository) SetRole(ctx context.Context, uid string, role domain.Role) error {
	const query = `
        INSERT INTO user_roles (uid, role) VALUES ($1, $2)
        ON CONFLICT (uid) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()`
	_, err := r.pool.Exec(ctx, query, uid, string(role))
	return err
}

package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/domain"
)

func TestBuildReportListQuery_NoFilters(t *testing.T) {
	query, args := buildReportListQuery(ReportQuery{})

	assert.Contains(t, query, "FROM reports WHERE 1=1 ORDER BY created_at DESC")
	assert.Empty(t, args)
}

func TestBuildReportListQuery_SingleStatusUsesEquality(t *testing.T) {
	query, args := buildReportListQuery(ReportQuery{Statuses: []string{"Tertunda"}})

	assert.Contains(t, query, "status = $1")
	assert.NotContains(t, query, " IN ")
	assert.Equal(t, []any{"Tertunda"}, args)
}

func TestBuildReportListQuery_AllFilters(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	query, args := buildReportListQuery(ReportQuery{
		Statuses:      []string{"Dalam Proses", "Tertunda"},
		Urgency:       "mendesak",
		CreatedFrom:   &from,
		CreatedBefore: &before,
		Order:         OrderSLAAscending,
	})

	assert.Contains(t, query, "status IN ($1,$2)")
	assert.Contains(t, query, "urgensi = $3")
	assert.Contains(t, query, "created_at >= $4")
	assert.Contains(t, query, "created_at < $5")
	assert.True(t, strings.HasSuffix(query, "ORDER BY sla_deadline ASC"))
	assert.Len(t, args, 5)

	// Values are bound, never interpolated.
	assert.NotContains(t, query, "mendesak")
	assert.NotContains(t, query, "Tertunda")
}

func TestSortBySLA(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 5, d, 9, 0, 0, 0, time.UTC) }
	reports := []domain.Report{
		{ID: "late", Fields: map[string]any{domain.FieldSLADeadline: day(9)}},
		{ID: "none", Fields: map[string]any{}},
		{ID: "early", Fields: map[string]any{domain.FieldSLADeadline: day(2)}},
		{ID: "mid", Fields: map[string]any{domain.FieldSLADeadline: day(4).Format(time.RFC3339)}},
	}

	SortBySLA(reports)

	ids := make([]string, len(reports))
	for i, r := range reports {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"early", "mid", "late", "none"}, ids)
}

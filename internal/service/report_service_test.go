package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/domain"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/events"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/repository"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/testutil"
	apperrors "github.com/kasubagumummij2024-byte/lapor-maintenance-mij/pkg/util"
)

var wib = time.FixedZone("WIB", 7*3600)

var (
	kasubag = &domain.Identity{UID: "k1", Email: "kasubag@mij.id", Role: domain.RoleKasubag}
	petugas = &domain.Identity{UID: "p1", Email: "petugas@mij.id", Role: domain.RolePetugas}
	warga   = &domain.Identity{UID: "u1", Email: "warga@mij.id", Role: domain.RoleUser}
)

type fixture struct {
	svc       *ReportService
	store     *testutil.ReportStore
	writer    *testutil.SheetWriter
	published []events.Event
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	f := &fixture{store: testutil.NewReportStore(), writer: &testutil.SheetWriter{}}
	dispatcher := events.NewInMemoryDispatcher()
	capture := func(_ context.Context, e events.Event) error {
		f.published = append(f.published, e)
		return nil
	}
	dispatcher.Subscribe(events.EventReportCreated, capture)
	dispatcher.Subscribe(events.EventReportUpdated, capture)
	dispatcher.Subscribe(events.EventReportCompleted, capture)

	f.svc = NewReportService(ReportDependencies{
		Reports:    f.store,
		Writer:     f.writer,
		Dispatcher: dispatcher,
		Location:   wib,
		Clock:      testutil.FixedClock(now),
		Logger:     testutil.NewLogger(),
	})
	return f
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).HTTPStatus
}

func TestCreateMergesServerFields(t *testing.T) {
	now := time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	result, err := f.svc.Create(context.Background(), map[string]any{
		"pelapor":  "Budi",
		"unit":     "TU",
		"urgensi":  "Mendesak",
		"status":   "Selesai",
		"ticketId": "forged",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^MIJ-20240501080000-\d{4}$`, result.TicketID)

	doc, ok := f.store.Get(result.ID)
	require.True(t, ok)
	assert.Equal(t, result.TicketID, doc["ticketId"])
	assert.Equal(t, domain.StatusAwaitingAssignment, doc["status"])
	assert.Equal(t, "Budi", doc["pelapor"])
	assert.Equal(t, now, doc["timestamp"])
	assert.Equal(t, now.AddDate(0, 0, 1), doc["slaDeadline"])
	assert.Equal(t, "", doc["assignedTo"])
	assert.Nil(t, doc["assignedAt"])

	require.Len(t, f.published, 1)
	assert.Equal(t, events.EventReportCreated, f.published[0].Type)
	assert.Equal(t, result.ID, f.published[0].ReportID)
}

func TestCreateStoreFailure(t *testing.T) {
	f := newFixture(t, time.Now())
	f.store.Err = errors.New("unavailable")

	_, err := f.svc.Create(context.Background(), map[string]any{})

	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	assert.Empty(t, f.published)
}

func TestListBuildsQuery(t *testing.T) {
	f := newFixture(t, time.Now())
	ctx := context.Background()

	tests := []struct {
		name     string
		filter   ReportFilter
		statuses []string
		urgency  string
		order    repository.ReportOrder
	}{
		{"no filter", ReportFilter{}, nil, "", repository.OrderNewestFirst},
		{"semua", ReportFilter{Status: "Semua", Urgency: "Semua"}, nil, "", repository.OrderNewestFirst},
		{"single", ReportFilter{Status: "Selesai", Urgency: "biasa"}, []string{"Selesai"}, "biasa", repository.OrderNewestFirst},
		{"working queue", ReportFilter{Status: "Dalam Proses,Tertunda"}, []string{"Dalam Proses", "Tertunda"}, "", repository.OrderSLAAscending},
		{"reversed pair", ReportFilter{Status: "Tertunda,Dalam Proses"}, []string{"Tertunda", "Dalam Proses"}, "", repository.OrderNewestFirst},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.List(ctx, tt.filter)
			require.NoError(t, err)
			q := f.store.Queries[len(f.store.Queries)-1]
			assert.Equal(t, tt.statuses, q.Statuses)
			assert.Equal(t, tt.urgency, q.Urgency)
			assert.Equal(t, tt.order, q.Order)
		})
	}
}

func TestListMonthWindowInBusinessZone(t *testing.T) {
	f := newFixture(t, time.Now())
	// 2024-04-30 17:30 UTC is 2024-05-01 00:30 WIB
	f.store.Seed("may-first", map[string]any{"timestamp": time.Date(2024, 4, 30, 17, 30, 0, 0, time.UTC)})
	// 2024-05-31 17:00 UTC is 2024-06-01 00:00 WIB
	f.store.Seed("june-first", map[string]any{"timestamp": time.Date(2024, 5, 31, 17, 0, 0, 0, time.UTC)})
	f.store.Seed("april", map[string]any{"timestamp": time.Date(2024, 4, 30, 16, 59, 59, 0, time.UTC)})

	reports, err := f.svc.List(context.Background(), ReportFilter{Month: "2024-05"})
	require.NoError(t, err)

	require.Len(t, reports, 1)
	assert.Equal(t, "may-first", reports[0].ID)
}

func TestListRejectsMalformedMonth(t *testing.T) {
	f := newFixture(t, time.Now())

	for _, month := range []string{"2024-13", "May 2024", "2024/05"} {
		_, err := f.svc.List(context.Background(), ReportFilter{Month: month})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err), month)
	}
	assert.Empty(t, f.store.Queries)
}

func TestListOrdering(t *testing.T) {
	f := newFixture(t, time.Now())
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f.store.Seed("a", map[string]any{"status": "Dalam Proses", "timestamp": base, "slaDeadline": base.AddDate(0, 0, 7)})
	f.store.Seed("b", map[string]any{"status": "Tertunda", "timestamp": base.Add(time.Hour), "slaDeadline": base.AddDate(0, 0, 1)})
	f.store.Seed("c", map[string]any{"status": "Dalam Proses", "timestamp": base.Add(2 * time.Hour), "slaDeadline": base.AddDate(0, 0, 3)})
	f.store.Seed("d", map[string]any{"status": "Selesai", "timestamp": base.Add(3 * time.Hour), "slaDeadline": base})

	queue, err := f.svc.List(context.Background(), ReportFilter{Status: "Dalam Proses,Tertunda"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(queue))

	all, err := f.svc.List(context.Background(), ReportFilter{Status: "Semua"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids(all))
}

func TestUpdateAppliesChanges(t *testing.T) {
	now := time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f.store.Seed("r1", map[string]any{"ticketId": "MIJ-1", "timestamp": created, "slaDeadline": created, "status": "Menunggu Penugasan"})

	err := f.svc.Update(context.Background(), petugas, "r1", map[string]any{
		"status":      "Dalam Proses",
		"assignedTo":  "Andi",
		"ticketId":    "MIJ-2",
		"timestamp":   "2000-01-01T00:00:00Z",
		"slaDeadline": "2000-01-01T00:00:00Z",
		"extra":       42,
	})
	require.NoError(t, err)

	doc, _ := f.store.Get("r1")
	assert.Equal(t, "Dalam Proses", doc["status"])
	assert.Equal(t, "Andi", doc["assignedTo"])
	assert.Equal(t, 42, doc["extra"])
	assert.Equal(t, "MIJ-1", doc["ticketId"])
	assert.Equal(t, created, doc["timestamp"])
	assert.Equal(t, created, doc["slaDeadline"])
	assert.Equal(t, now, doc["lastUpdateAt"])
	_, hasCompletion := doc["tglSelesai"]
	assert.False(t, hasCompletion)

	require.Len(t, f.published, 1)
	assert.Equal(t, events.EventReportUpdated, f.published[0].Type)
	assert.Equal(t, "p1", f.published[0].ActorUID)
}

func TestUpdateCompletionDate(t *testing.T) {
	// 2024-05-31 20:00 UTC is 2024-06-01 in WIB
	now := time.Date(2024, 5, 31, 20, 0, 0, 0, time.UTC)

	t.Run("filled when absent", func(t *testing.T) {
		f := newFixture(t, now)
		f.store.Seed("r1", map[string]any{"status": "Dalam Proses"})

		require.NoError(t, f.svc.Update(context.Background(), kasubag, "r1", map[string]any{"status": "Selesai"}))

		doc, _ := f.store.Get("r1")
		assert.Equal(t, "2024-06-01", doc["tglSelesai"])
		require.Len(t, f.published, 2)
		assert.Equal(t, events.EventReportCompleted, f.published[1].Type)
	})

	t.Run("filled when empty", func(t *testing.T) {
		f := newFixture(t, now)
		f.store.Seed("r1", map[string]any{})

		require.NoError(t, f.svc.Update(context.Background(), kasubag, "r1", map[string]any{"status": "Selesai", "tglSelesai": ""}))

		doc, _ := f.store.Get("r1")
		assert.Equal(t, "2024-06-01", doc["tglSelesai"])
	})

	t.Run("explicit value preserved", func(t *testing.T) {
		f := newFixture(t, now)
		f.store.Seed("r1", map[string]any{})

		require.NoError(t, f.svc.Update(context.Background(), kasubag, "r1", map[string]any{"status": "Selesai", "tglSelesai": "2024-05-20"}))

		doc, _ := f.store.Get("r1")
		assert.Equal(t, "2024-05-20", doc["tglSelesai"])
	})
}

func TestUpdateRejectsUserRole(t *testing.T) {
	f := newFixture(t, time.Now())
	f.store.Seed("r1", map[string]any{"status": "Menunggu Penugasan"})

	err := f.svc.Update(context.Background(), warga, "r1", map[string]any{"status": "Selesai"})

	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	doc, _ := f.store.Get("r1")
	assert.Equal(t, map[string]any{"status": "Menunggu Penugasan"}, doc)
	assert.Empty(t, f.published)
}

func TestUpdateUnknownReport(t *testing.T) {
	f := newFixture(t, time.Now())

	err := f.svc.Update(context.Background(), kasubag, "missing", map[string]any{"status": "Selesai"})

	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.Equal(t, 0, f.store.Len())
}

func TestExport(t *testing.T) {
	f := newFixture(t, time.Now())
	created := time.Date(2024, 5, 1, 1, 2, 3, 0, time.UTC)
	f.store.Seed("r1", map[string]any{
		"ticketId":       "MIJ-20240501080203-1234",
		"timestamp":      created,
		"status":         "Selesai",
		"pelapor":        "Budi",
		"unit":           "TU",
		"kategori":       "Listrik",
		"lokasi":         "Gedung A",
		"deskripsi":      "Lampu mati",
		"urgensi":        "mendesak",
		"assignedTo":     "Andi",
		"assignedAt":     "2024-05-01T03:00:00Z",
		"lastUpdateAt":   created.Add(26 * time.Hour),
		"tglSelesai":     "2024-05-02",
		"catatanPenutup": "",
	})
	f.store.Seed("r2", map[string]any{
		"ticketId":   "MIJ-20240430080000-5678",
		"timestamp":  created.Add(-time.Hour),
		"status":     "Menunggu Penugasan",
		"assignedTo": "",
		"assignedAt": nil,
		"urgensi":    "biasa",
	})

	file, err := f.svc.Export(context.Background(), kasubag, ReportFilter{Urgency: "mendesak", Month: "2024-05"})
	require.NoError(t, err)

	assert.Equal(t, "Laporan_2024-05.xlsx", file.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", file.ContentType)
	assert.Equal(t, 2, file.Rows)
	assert.Equal(t, 1, f.writer.Calls)
	assert.Equal(t, "Laporan", f.writer.Sheet)
	assert.Equal(t, ExportColumns, f.writer.Columns)

	q := f.store.Queries[len(f.store.Queries)-1]
	assert.Empty(t, q.Urgency)
	assert.Equal(t, repository.OrderNewestFirst, q.Order)

	require.Len(t, f.writer.Rows, 2)
	assert.Equal(t, []string{
		"MIJ-20240501080203-1234", "1/5/2024, 08.02.03", "Selesai", "Budi", "TU", "Listrik",
		"Gedung A", "Lampu mati", "mendesak", "Andi", "1/5/2024, 10.00.00", "2/5/2024, 10.02.03",
		"2024-05-02", "-",
	}, f.writer.Rows[0])
	assert.Equal(t, []string{
		"MIJ-20240430080000-5678", "1/5/2024, 07.02.03", "Menunggu Penugasan", "", "", "",
		"", "", "biasa", "-", "-", "-", "-", "-",
	}, f.writer.Rows[1])
}

func TestExportEmptyDoesNotInvokeWriter(t *testing.T) {
	f := newFixture(t, time.Now())

	_, err := f.svc.Export(context.Background(), kasubag, ReportFilter{Status: "Selesai"})

	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.Equal(t, 0, f.writer.Calls)
}

func TestExportRequiresKasubag(t *testing.T) {
	f := newFixture(t, time.Now())
	f.store.Seed("r1", map[string]any{"status": "Selesai"})

	for _, actor := range []*domain.Identity{petugas, warga} {
		_, err := f.svc.Export(context.Background(), actor, ReportFilter{})
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	}
	assert.Equal(t, 0, f.writer.Calls)
	assert.Empty(t, f.store.Queries)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "Laporan_Semua.xlsx", ExportFilename(""))
	assert.Equal(t, "Laporan_2024-01.xlsx", ExportFilename("2024-01"))
}

func TestParseStatuses(t *testing.T) {
	assert.Nil(t, ParseStatuses(""))
	assert.Nil(t, ParseStatuses("Semua"))
	assert.Nil(t, ParseStatuses(" , "))
	assert.Equal(t, []string{"Selesai"}, ParseStatuses("Selesai"))
	assert.Equal(t, []string{"Dalam Proses", "Tertunda"}, ParseStatuses("Dalam Proses, Tertunda"))
}

func TestMonthWindow(t *testing.T) {
	from, before, err := MonthWindow("2024-12", wib)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, wib), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, wib), before)
}

func ids(reports []domain.Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

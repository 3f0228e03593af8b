package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/domain"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/events"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/export"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/repository"
	apperrors "github.com/kasubagumummij2024-byte/lapor-maintenance-mij/pkg/util"
)

// FilterAll disables a list filter.
const FilterAll = "Semua"

// slaQueueStatus is the working-queue status filter that switches ordering to
// soonest SLA deadline first. It is matched literally.
const slaQueueStatus = domain.StatusInProgress + "," + domain.StatusPending

const monthLayout = "2006-01"

// ReportService coordinates report workflows.
type ReportService struct {
	reports    repository.ReportRepository
	writer     export.Writer
	dispatcher events.Dispatcher
	ticketIDs  *TicketIDGenerator
	loc        *time.Location
	now        func() time.Time
	logger     *zap.Logger
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	Reports    repository.ReportRepository
	Writer     export.Writer
	Dispatcher events.Dispatcher
	Location   *time.Location
	Clock      func() time.Time
	TicketIDs  *TicketIDGenerator
	Logger     *zap.Logger
}

// ReportFilter carries the raw list/export query parameters.
type ReportFilter struct {
	Status  string
	Urgency string
	Month   string
}

// CreateResult identifies a newly stored report.
type CreateResult struct {
	ID       string
	TicketID string
}

// ExportFile is a rendered spreadsheet ready to download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	ticketIDs := deps.TicketIDs
	if ticketIDs == nil {
		ticketIDs = NewTicketIDGenerator(loc)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		reports:    deps.Reports,
		writer:     deps.Writer,
		dispatcher: deps.Dispatcher,
		ticketIDs:  ticketIDs,
		loc:        loc,
		now:        clock,
		logger:     logger,
	}
}

// Create stores a new report. Server-controlled fields override anything the
// payload supplies under the same keys.
func (s *ReportService) Create(ctx context.Context, payload map[string]any) (*CreateResult, error) {
	now := s.now()
	ticketID := s.ticketIDs.Next(now)
	fields := domain.NewReportFields(payload, ticketID, now)

	id, err := s.reports.Create(ctx, fields)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	report := domain.Report{ID: id, Fields: fields}
	s.publish(ctx, events.EventReportCreated, id, "", events.ReportCreatedPayload{
		TicketID:    ticketID,
		Urgency:     report.Urgency(),
		Unit:        report.StringField(domain.FieldUnit).ValueOrZero(),
		SLADeadline: report.SLADeadline().Time,
	})
	return &CreateResult{ID: id, TicketID: ticketID}, nil
}

// List returns every report matching the filter.
func (s *ReportService) List(ctx context.Context, filter ReportFilter) ([]domain.Report, error) {
	query, err := s.buildQuery(filter, true)
	if err != nil {
		return nil, err
	}
	reports, err := s.reports.List(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return reports, nil
}

// Update applies a partial change set to a report. Immutable keys are dropped.
func (s *ReportService) Update(ctx context.Context, actor *domain.Identity, id string, changes map[string]any) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !actor.Role.Can(domain.PermissionUpdateReports) {
		return apperrors.NewForbidden("action not allowed for your role")
	}
	if strings.TrimSpace(id) == "" {
		return apperrors.NewNotFound("report", map[string]any{"id": id})
	}

	now := s.now()
	fields := make(map[string]any, len(changes)+2)
	for k, v := range changes {
		fields[k] = v
	}
	for _, key := range domain.ImmutableFields {
		delete(fields, key)
	}
	fields[domain.FieldLastUpdateAt] = now

	status, _ := fields[domain.FieldStatus].(string)
	completed := status == domain.StatusDone
	if completed && isBlank(fields[domain.FieldCompletedOn]) {
		fields[domain.FieldCompletedOn] = now.In(s.loc).Format(domain.CompletionDateLayout)
	}

	if err := s.reports.Update(ctx, id, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("report", map[string]any{"id": id})
		}
		return apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventReportUpdated, id, actor.UID, events.ReportUpdatedPayload{
		Fields: sortedKeys(fields),
		Status: status,
	})
	if completed {
		note, _ := fields[domain.FieldClosingNote].(string)
		completedOn, _ := fields[domain.FieldCompletedOn].(string)
		s.publish(ctx, events.EventReportCompleted, id, actor.UID, events.ReportCompletedPayload{
			CompletedOn: completedOn,
			ClosingNote: note,
		})
	}
	return nil
}

// Export renders the reports matching filter into a workbook. The urgency
// filter is ignored. The writer is not invoked when nothing matches.
func (s *ReportService) Export(ctx context.Context, actor *domain.Identity, filter ReportFilter) (*ExportFile, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !actor.Role.Can(domain.PermissionExportReports) {
		return nil, apperrors.NewForbidden("only Kasubag may export reports")
	}

	query, err := s.buildQuery(filter, false)
	if err != nil {
		return nil, err
	}
	reports, err := s.reports.List(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(reports) == 0 {
		return nil, apperrors.NewNotFound("export data", nil)
	}

	rows := make([][]string, len(reports))
	for i, report := range reports {
		rows[i] = s.exportRow(report)
	}
	data, err := s.writer.Write(ExportSheetName, ExportColumns, rows)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &ExportFile{
		Filename:    ExportFilename(filter.Month),
		ContentType: export.ContentTypeXLSX,
		Data:        data,
		Rows:        len(rows),
	}, nil
}

func (s *ReportService) buildQuery(filter ReportFilter, withUrgency bool) (repository.ReportQuery, error) {
	query := repository.ReportQuery{
		Statuses: ParseStatuses(filter.Status),
		Order:    repository.OrderNewestFirst,
	}
	if withUrgency && filter.Status == slaQueueStatus {
		query.Order = repository.OrderSLAAscending
	}
	if withUrgency {
		urgency := strings.TrimSpace(filter.Urgency)
		if urgency != "" && urgency != FilterAll {
			query.Urgency = urgency
		}
	}
	if filter.Month != "" {
		from, before, err := MonthWindow(filter.Month, s.loc)
		if err != nil {
			return repository.ReportQuery{}, apperrors.NewValidationError("invalid month",
				map[string]any{"month": "must be formatted as YYYY-MM"})
		}
		query.CreatedFrom = &from
		query.CreatedBefore = &before
	}
	return query, nil
}

func (s *ReportService) publish(ctx context.Context, eventType events.EventType, reportID, actorUID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ReportID:  reportID,
		ActorUID:  actorUID,
		Timestamp: s.now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(eventType)),
			zap.String("report_id", reportID),
			zap.Error(err))
	}
}

// ParseStatuses splits a comma-separated status filter. "Semua" and the empty
// string mean no filter.
func ParseStatuses(raw string) []string {
	if raw == "" || raw == FilterAll {
		return nil
	}
	parts := strings.Split(raw, ",")
	statuses := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			statuses = append(statuses, p)
		}
	}
	if len(statuses) == 0 {
		return nil
	}
	return statuses
}

// MonthWindow returns [first instant of month, first instant of next month) in loc.
func MonthWindow(month string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(monthLayout, strings.TrimSpace(month), loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0), nil
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	default:
		return false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package dto

// ReportListQuery captures query filters for GET /api/reports.
type ReportListQuery struct {
	Status  string `query:"status"`
	Urgency string `query:"urgensi"`
	Month   string `query:"month" validate:"omitempty,datetime=2006-01"`
}

// ReportExportQuery captures query filters for GET /api/reports/export.
type ReportExportQuery struct {
	Status string `query:"status"`
	Month  string `query:"month" validate:"omitempty,datetime=2006-01"`
}

// CreateReportResponse is returned after a report is stored.
type CreateReportResponse struct {
	Success bool   `json:"success"`
	Ticket  string `json:"ticket"`
	ID      string `json:"id"`
}

// SuccessResponse acknowledges a write.
type SuccessResponse struct {
	Success bool `json:"success"`
}

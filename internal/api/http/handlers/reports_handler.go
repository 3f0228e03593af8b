package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/api/dto"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/auth"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/domain"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/service"
	apperrors "github.com/kasubagumummij2024-byte/lapor-maintenance-mij/pkg/util"
)

// ReportsHandler exposes report endpoints.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Create handles POST /api/reports.
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	payload, err := decodeObject(c.Body())
	if err != nil {
		return err
	}
	result, err := h.reports.Create(c.UserContext(), payload)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CreateReportResponse{
		Success: true,
		Ticket:  result.TicketID,
		ID:      result.ID,
	})
}

// List handles GET /api/reports.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	var q dto.ReportListQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	if err := validateQuery(q); err != nil {
		return err
	}

	reports, err := h.reports.List(c.UserContext(), service.ReportFilter{
		Status:  q.Status,
		Urgency: q.Urgency,
		Month:   q.Month,
	})
	if err != nil {
		return err
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	return c.JSON(reports)
}

// Update handles PUT /api/reports/:docId.
func (h *ReportsHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	changes, err := decodeObject(c.Body())
	if err != nil {
		return err
	}
	if err := h.reports.Update(c.UserContext(), identity, utils.CopyString(c.Params("docId")), changes); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Export handles GET /api/reports/export.
func (h *ReportsHandler) Export(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var q dto.ReportExportQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	if err := validateQuery(q); err != nil {
		return err
	}

	file, err := h.reports.Export(c.UserContext(), identity, service.ReportFilter{
		Status: q.Status,
		Month:  q.Month,
	})
	if err != nil {
		return err
	}
	c.Attachment(file.Filename)
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Send(file.Data)
}

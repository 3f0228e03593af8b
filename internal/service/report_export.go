package service

import (
	"fmt"
	"strings"

	"github.com/guregu/null/v5"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/domain"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/export"
)

// ExportSheetName is the worksheet holding exported reports.
const ExportSheetName = "Laporan"

// exportTimeLayout renders timestamps the way id-ID locales print them.
const exportTimeLayout = "2/1/2006, 15.04.05"

const missingCell = "-"

// ExportColumns are the exported columns in order.
var ExportColumns = []export.Column{
	{Header: "Ticket ID", Width: 25},
	{Header: "Waktu Laporan", Width: 20},
	{Header: "Status", Width: 15},
	{Header: "Pelapor", Width: 20},
	{Header: "Unit", Width: 20},
	{Header: "Kategori", Width: 20},
	{Header: "Lokasi", Width: 25},
	{Header: "Deskripsi", Width: 40},
	{Header: "Urgensi", Width: 15},
	{Header: "Ditugaskan Kepada", Width: 25},
	{Header: "Waktu Ditugaskan", Width: 20},
	{Header: "Update Terakhir", Width: 20},
	{Header: "Tanggal Selesai", Width: 15},
	{Header: "Catatan Petugas", Width: 40},
}

// ExportFilename names the download for a month filter.
func ExportFilename(month string) string {
	if month == "" {
		month = FilterAll
	}
	return fmt.Sprintf("Laporan_%s.xlsx", month)
}

func (s *ReportService) exportRow(r domain.Report) []string {
	return []string{
		s.text(r, domain.FieldTicketID),
		s.timestamp(r.CreatedAt()),
		s.text(r, domain.FieldStatus),
		s.text(r, domain.FieldReporter),
		s.text(r, domain.FieldUnit),
		s.text(r, domain.FieldCategory),
		s.text(r, domain.FieldLocation),
		s.text(r, domain.FieldDescription),
		s.text(r, domain.FieldUrgency),
		orMissing(s.text(r, domain.FieldAssignedTo)),
		s.timestamp(r.TimeField(domain.FieldAssignedAt)),
		s.timestamp(r.TimeField(domain.FieldLastUpdateAt)),
		orMissing(s.text(r, domain.FieldCompletedOn)),
		orMissing(s.text(r, domain.FieldClosingNote)),
	}
}

func (s *ReportService) text(r domain.Report, key string) string {
	switch v := r.Fields[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (s *ReportService) timestamp(t null.Time) string {
	if !t.Valid || t.Time.IsZero() {
		return missingCell
	}
	return t.Time.In(s.loc).Format(exportTimeLayout)
}

func orMissing(v string) string {
	if strings.TrimSpace(v) == "" {
		return missingCell
	}
	return v
}

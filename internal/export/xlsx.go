// Package export renders tabular report data into spreadsheet files.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the media type of the files produced by XLSXWriter.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Column is a header cell and its display width in characters.
type Column struct {
	Header string
	Width  float64
}

// Writer encodes a single-sheet workbook.
type Writer interface {
	Write(sheet string, columns []Column, rows [][]string) ([]byte, error)
}

// XLSXWriter writes Office Open XML workbooks.
type XLSXWriter struct{}

// NewXLSXWriter returns a Writer backed by excelize.
func NewXLSXWriter() *XLSXWriter { return &XLSXWriter{} }

// Write puts a header row followed by rows on a sheet named sheet.
func (XLSXWriter) Write(sheet string, columns []Column, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if defaultSheet != sheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col.Header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if col.Width > 0 {
			if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
				return nil, fmt.Errorf("set width %s: %w", name, err)
			}
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

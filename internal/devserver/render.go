package devserver

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"

	"fedadmin/internal/engine"
)

// Table is a filtered collection flattened for export.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Render encodes t in format.
func Render(format engine.Format, t Table) ([]byte, error) {
	switch format {
	case engine.FormatCSV:
		return renderCSV(t)
	case engine.FormatExcel:
		return renderExcel(t)
	case engine.FormatPDF:
		return renderPDF(t)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func renderCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("writing csv rows: %w", err)
	}
	return buf.Bytes(), nil
}

func renderExcel(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Sheet1"
	if t.Title != "" {
		name := t.Title
		if len(name) > 31 {
			name = name[:31]
		}
		if err := f.SetSheetName(sheet, name); err != nil {
			return nil, fmt.Errorf("naming sheet: %w", err)
		}
		sheet = name
	}

	header := t.Columns
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}
	for i := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := t.Rows[i]
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPDF(t Table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(t.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(t.Title))
	pdf.Ln(12)

	width := 277.0
	if len(t.Columns) > 0 {
		width /= float64(len(t.Columns))
	}
	fit := func(s string) string {
		s = tr(s)
		for len(s) > 1 && pdf.GetStringWidth(s) > width-2 {
			s = s[:len(s)-1]
		}
		return s
	}

	pdf.SetFont("Helvetica", "B", 10)
	for _, col := range t.Columns {
		pdf.CellFormat(width, 7, fit(col), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range t.Rows {
		for _, cell := range row {
			pdf.CellFormat(width, 6, fit(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("%d rows", len(t.Rows)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("encoding pdf: %w", err)
	}
	return buf.Bytes(), nil
}

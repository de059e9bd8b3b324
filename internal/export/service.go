package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"pdfstruct/internal/llm"
)

// Row is one successfully structured document for export.
type Row struct {
	Filename string
	Fields   llm.InvoiceFields
}

// Service produces XLSX bytes for batch extraction results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// BuildXLSX returns an XLSX workbook (as bytes) with one row per document.
func (s *Service) BuildXLSX(rows []Row) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"File",
		"Invoice Number",
		"Date",
		"Vendor",
		"Total Amount",
		"Currency",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range rows {
		rowNum := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowNum)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.Filename)
		write(2, strOrEmpty(r.Fields.InvoiceNumber))
		write(3, strOrEmpty(r.Fields.Date))
		write(4, strOrEmpty(r.Fields.Vendor))
		write(5, strOrEmpty(r.Fields.TotalAmount))
		write(6, strOrEmpty(r.Fields.Currency))
	}

	_ = f.SetColWidth(sheet, "A", "A", 40) // filename
	_ = f.SetColWidth(sheet, "B", "B", 18) // invoice number
	_ = f.SetColWidth(sheet, "C", "C", 14) // date
	_ = f.SetColWidth(sheet, "D", "D", 28) // vendor
	_ = f.SetColWidth(sheet, "E", "F", 14) // amount, currency

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pdfstruct/internal/llm"
)

func strptr(s string) *string { return &s }

func TestBuildXLSX(t *testing.T) {
	rows := []Row{
		{
			Filename: "acme.pdf",
			Fields: llm.InvoiceFields{
				InvoiceNumber: strptr("INV-1"),
				Date:          strptr("01 Jan 2024"),
				Vendor:        strptr("Acme"),
				TotalAmount:   strptr("100.00"),
				Currency:      strptr("USD"),
			},
		},
		{
			Filename: "partial.pdf",
			Fields: llm.InvoiceFields{
				Vendor: strptr("Globex"),
			},
		},
	}

	out, err := NewService(nil).BuildXLSX(rows)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	const sheet = "Invoices"
	header, err := f.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Invoice Number", header)

	vendor, err := f.GetCellValue(sheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "Acme", vendor)

	// null fields export as empty cells
	total, err := f.GetCellValue(sheet, "E3")
	require.NoError(t, err)
	assert.Equal(t, "", total)

	g, err := f.GetCellValue(sheet, "D3")
	require.NoError(t, err)
	assert.Equal(t, "Globex", g)
}

func TestBuildXLSXEmpty(t *testing.T) {
	out, err := NewService(nil).BuildXLSX(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

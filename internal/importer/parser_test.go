package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/models"
)

// ===========================================
// CSV Parsing Tests
// ===========================================

func TestParseRows_CSV(t *testing.T) {
	data := []byte("name,price,sku\nRed Dress,49.99,SKU-1\nBlue Shirt,19.99,SKU-2\n")

	rows, err := ParseRows(data, models.ImportFormatCSV)

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, 2, rows[1].Index)
	assert.Equal(t, "Red Dress", rows[0].Get("name"))
	assert.Equal(t, "19.99", rows[1].Get("price"))
	assert.True(t, rows[0].Has("sku"))
	assert.False(t, rows[0].Has("gender"))
}

func TestParseRows_CSV_SkipsCommentLines(t *testing.T) {
	data := []byte("# Product import template\n# Generated: 2026-08-29T10:00:00Z\nname,price\nRed Dress,49.99\n")

	rows, err := ParseRows(data, models.ImportFormatCSV)

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Red Dress", rows[0].Get("name"))
}

func TestParseRows_CSV_StripsRequiredMarkerFromHeaders(t *testing.T) {
	data := []byte("name *,price *,description\nRed Dress,49.99,Silk\n")

	rows, err := ParseRows(data, models.ImportFormatCSV)

	assert.NoError(t, err)
	assert.Equal(t, "Red Dress", rows[0].Get("name"))
	assert.Equal(t, "49.99", rows[0].Get("price"))
}

func TestParseRows_CSV_PreservesHeaderCase(t *testing.T) {
	data := []byte("name,compareAtPrice\nRed Dress,59.99\n")

	rows, err := ParseRows(data, models.ImportFormatCSV)

	assert.NoError(t, err)
	assert.Equal(t, "59.99", rows[0].Get("compareAtPrice"))
	assert.Equal(t, "", rows[0].Get("compareatprice"))
}

func TestParseRows_CSV_StructuralError(t *testing.T) {
	data := []byte("name,price\nRed Dress,49.99,extra-cell\n")

	rows, err := ParseRows(data, models.ImportFormatCSV)

	assert.Error(t, err)
	assert.Nil(t, rows)
}

func TestParseRows_CSV_EmptyFile(t *testing.T) {
	_, err := ParseRows([]byte(""), models.ImportFormatCSV)
	assert.Error(t, err)
}

func TestParseRows_CSV_HeaderOnly(t *testing.T) {
	rows, err := ParseRows([]byte("name,price\n"), models.ImportFormatCSV)

	assert.NoError(t, err)
	assert.Empty(t, rows)
}

// ===========================================
// Preview Tests
// ===========================================

func TestPreview_LimitsRows(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("name,price\n")
	for i := 0; i < 20; i++ {
		buf.WriteString("Product,9.99\n")
	}

	rows, err := Preview(buf.Bytes(), models.ImportFormatCSV, PreviewRowCount)

	assert.NoError(t, err)
	assert.Len(t, rows, PreviewRowCount)
	assert.Equal(t, 5, rows[4].Index)
}

// ===========================================
// XLSX Parsing Tests
// ===========================================

func buildTestWorkbook(t *testing.T, sheet string, rows [][]string) []byte {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheet)
	for r, cells := range rows {
		for c, v := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			assert.NoError(t, err)
			assert.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	assert.NoError(t, err)
	return buf.Bytes()
}

func TestParseRows_XLSX(t *testing.T) {
	data := buildTestWorkbook(t, "Products", [][]string{
		{"name", "price"},
		{"Red Dress", "49.99"},
		{"", ""},
		{"Blue Shirt", "19.99"},
	})

	rows, err := ParseRows(data, models.ImportFormatXLSX)

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Red Dress", rows[0].Get("name"))
	// blank row skipped, index stays contiguous
	assert.Equal(t, 2, rows[1].Index)
	assert.Equal(t, "Blue Shirt", rows[1].Get("name"))
}

func TestParseRows_XLSX_MissingTrailingCells(t *testing.T) {
	data := buildTestWorkbook(t, "Products", [][]string{
		{"name", "price", "description"},
		{"Red Dress", "49.99"},
	})

	rows, err := ParseRows(data, models.ImportFormatXLSX)

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Get("description"))
	assert.True(t, rows[0].Has("description"))
}

func TestParseRows_XLSX_NotAWorkbook(t *testing.T) {
	_, err := ParseRows([]byte("name,price\nplain,csv\n"), models.ImportFormatXLSX)
	assert.Error(t, err)
}

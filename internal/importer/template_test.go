package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"catalog-service/internal/models"
)

// ===========================================
// CSV Template Tests
// ===========================================

func TestGenerateTemplateCSV_RoundTripsThroughParser(t *testing.T) {
	ref := testReference()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	data := GenerateTemplateCSV(models.TypeFootwear, ref, now)

	rows, err := ParseRows(data, models.ImportFormatCSV)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Sample Product", rows[0].Get("name"))

	// sample row passes the validator unchanged
	errs := Validate(rows, ref)
	assert.Empty(t, errs)
}

func TestGenerateTemplateCSV_DocumentsReferenceData(t *testing.T) {
	ref := testReference()
	data := string(GenerateTemplateCSV(models.TypeFootwear, ref, time.Now()))

	assert.Contains(t, data, "# Generated: ")
	assert.Contains(t, data, "heels (Heels)")
	assert.Contains(t, data, "11111111-1111-1111-1111-111111111111 (Acme)")
	assert.Contains(t, data, "true/false, 1/0, yes/no")
}

func TestGenerateTemplateCSV_CategoryColumns(t *testing.T) {
	ref := testReference()

	beauty := string(GenerateTemplateCSV(models.TypeBeauty, ref, time.Now()))
	assert.Contains(t, beauty, "ingredients")
	assert.Contains(t, beauty, "usageInstructions")
	assert.NotContains(t, beauty, "sizeGuide")

	festive := string(GenerateTemplateCSV(models.CategoryFestive, ref, time.Now()))
	assert.Contains(t, festive, "isChristmasSale")
	assert.Contains(t, festive, "saleDiscount")
}

// ===========================================
// XLSX Template Tests
// ===========================================

func TestGenerateTemplateXLSX_RoundTripsThroughParser(t *testing.T) {
	ref := testReference()

	data, err := GenerateTemplateXLSX(models.TypeClothing, ref, time.Now())
	assert.NoError(t, err)

	rows, perr := ParseRows(data, models.ImportFormatXLSX)
	assert.NoError(t, perr)
	assert.Len(t, rows, 1)
	// required marker on the header is stripped by the parser
	assert.Equal(t, "Sample Product", rows[0].Get("name"))
	assert.Equal(t, "49.99", rows[0].Get("price"))

	errs := Validate(rows, ref)
	assert.Empty(t, errs)
}

// ===========================================
// Filename Tests
// ===========================================

func TestTemplateFilename(t *testing.T) {
	assert.Equal(t, "footwear_import_template.csv", TemplateFilename("footwear", models.ImportFormatCSV))
	assert.Equal(t, "products_import_template.xlsx", TemplateFilename("", models.ImportFormatXLSX))
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "sale_export_2026-08-29.csv", ExportFilename("sale", now))
	assert.Equal(t, "products_export_2026-08-29.csv", ExportFilename("", now))
}

// sanity check: the sample row never aligns a value against the wrong column
func TestSampleRow_AlignsWithColumns(t *testing.T) {
	ref := testReference()
	for _, category := range append(models.ProductTypes(), models.CategoryBridal, models.CategoryFestive, models.CategorySale, "") {
		columns := models.ImportColumns(category)
		row := sampleRow(category, columns, ref)
		assert.Len(t, row, len(columns), "category %q", category)

		idx := -1
		for i, col := range columns {
			if col == "price" {
				idx = i
			}
		}
		assert.NotEqual(t, -1, idx)
		assert.Equal(t, "49.99", row[idx])
	}
}

package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"catalog-service/internal/models"
)

// GenerateTemplateCSV renders an import template for one category context.
// Leading '#' comment lines document the valid reference ids for this tenant
// and category so the file is self-describing; the parser skips them, which
// lets an edited template be uploaded as-is.
func GenerateTemplateCSV(category string, ref *ReferenceData, now time.Time) []byte {
	var buf bytes.Buffer

	title := "Product import template"
	if category != "" {
		title = fmt.Sprintf("Product import template (%s)", category)
	}
	fmt.Fprintf(&buf, "# %s\n", title)
	fmt.Fprintf(&buf, "# Generated: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&buf, "# Required columns: %s\n", strings.Join(requiredColumns, ", "))
	if len(ref.Subcategories) > 0 {
		fmt.Fprintf(&buf, "# subcategory: %s\n", referenceList(subcategoryEntries(ref)))
	}
	if len(ref.Brands) > 0 {
		fmt.Fprintf(&buf, "# brandId: %s\n", referenceList(brandEntries(ref)))
	}
	fmt.Fprintf(&buf, "# gender: %s\n", strings.Join(ref.Genders, " | "))
	fmt.Fprintf(&buf, "# type: %s\n", strings.Join(ref.ProductTypes, " | "))
	fmt.Fprintf(&buf, "# Boolean columns accept: true/false, 1/0, yes/no\n")

	columns := models.ImportColumns(category)
	writer := csv.NewWriter(&buf)
	writer.Write(columns)
	writer.Write(sampleRow(category, columns, ref))
	writer.Flush()

	return buf.Bytes()
}

// GenerateTemplateXLSX renders the same template as a styled workbook with
// a separate Instructions sheet.
func GenerateTemplateXLSX(category string, ref *ReferenceData, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})

	columns := models.ImportColumns(category)
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		header := col
		if contains(requiredColumns, col) {
			header = col + " *"
			f.SetCellValue(sheetName, cell, header)
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellValue(sheetName, cell, header)
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}
	for i, v := range sampleRow(category, columns, ref) {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheetName, cell, v)
	}

	f.NewSheet("Instructions")
	f.SetCellValue("Instructions", "A1", "Product Import Instructions")
	f.SetCellValue("Instructions", "A2", fmt.Sprintf("Generated: %s", now.Format(time.RFC3339)))
	row := 4
	f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), "MATCHING:")
	row++
	f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), "Rows are matched against existing products by sku first, then by slug (derived from name when the slug column is empty).")
	row++
	f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), "Matched rows update the existing product; unmatched rows create a new one. Re-importing the same file is safe.")
	row += 2
	f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), fmt.Sprintf("Required columns: %s", strings.Join(requiredColumns, ", ")))
	row++
	f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), "Boolean columns accept: true/false, 1/0, yes/no")
	row++
	f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), "Multiple tags or materials are separated with commas; multiple image URLs with '|'.")
	row += 2
	f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), "Valid values:")
	row++
	f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), "gender")
	f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), strings.Join(ref.Genders, " | "))
	row++
	f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), "type")
	f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), strings.Join(ref.ProductTypes, " | "))
	if len(ref.Subcategories) > 0 {
		row++
		f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), "subcategory")
		f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), referenceList(subcategoryEntries(ref)))
	}
	if len(ref.Brands) > 0 {
		row++
		f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), "brandId")
		f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), referenceList(brandEntries(ref)))
	}
	f.SetColWidth("Instructions", "A", "A", 25)
	f.SetColWidth("Instructions", "B", "B", 80)

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write template workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// TemplateFilename names the download for a category context.
func TemplateFilename(category string, format models.ImportFormat) string {
	base := "products"
	if category != "" {
		base = category
	}
	return fmt.Sprintf("%s_import_template.%s", base, format)
}

type referenceEntry struct {
	id    string
	label string
}

func subcategoryEntries(ref *ReferenceData) []referenceEntry {
	entries := make([]referenceEntry, len(ref.Subcategories))
	for i, s := range ref.Subcategories {
		entries[i] = referenceEntry{id: s.ID, label: s.Name}
	}
	return entries
}

func brandEntries(ref *ReferenceData) []referenceEntry {
	entries := make([]referenceEntry, len(ref.Brands))
	for i, b := range ref.Brands {
		entries[i] = referenceEntry{id: b.ID.String(), label: b.Name}
	}
	return entries
}

func referenceList(entries []referenceEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s (%s)", e.id, e.label)
	}
	return strings.Join(parts, " | ")
}

// sampleRow fills one example row aligned with the given columns so the
// template demonstrates each cell format.
func sampleRow(category string, columns []string, ref *ReferenceData) []string {
	subcategory := ""
	if len(ref.Subcategories) > 0 {
		subcategory = ref.Subcategories[0].ID
	}
	brand := ""
	if len(ref.Brands) > 0 {
		brand = ref.Brands[0].ID.String()
	}
	typ := models.TypeClothing
	if contains(ref.ProductTypes, category) {
		typ = category
	}

	values := map[string]string{
		"name":              "Sample Product",
		"slug":              "sample-product",
		"sku":               "SKU-0001",
		"price":             "49.99",
		"compareAtPrice":    "59.99",
		"stockQuantity":     "25",
		"description":       "Short description of the product",
		"brandId":           brand,
		"isVisible":         "true",
		"isFeatured":        "false",
		"isNew":             "true",
		"isBestseller":      "false",
		"isReturnable":      "true",
		"tags":              "summer,casual",
		"gender":            string(models.GenderUnisex),
		"images":            "https://cdn.example.com/sample-1.jpg|https://cdn.example.com/sample-2.jpg",
		"subcategory":       subcategory,
		"type":              typ,
		"materials":         "cotton,linen",
		"careInstructions":  "Machine wash cold",
		"sizeGuide":         "Fits true to size",
		"ingredients":       "aqua,glycerin",
		"usageInstructions": "Apply daily",
		"isChristmasSale":   "false",
		"saleDiscount":      "10",
	}

	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = values[col]
	}
	return row
}

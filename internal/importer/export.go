package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"catalog-service/internal/models"
)

// exportOnlyColumns are appended after the import columns so an export
// carries denormalized display data without breaking template round-trips:
// the parser tolerates extra columns and the validator ignores them.
var exportOnlyColumns = []string{"brandName", "categoryId", "categoryName", "createdAt", "updatedAt"}

// ExportCSV renders products in the import column layout for a category
// context. Images are the ordered URL list joined with '|'; list cells join
// with ','.
func ExportCSV(products []models.Product, images map[uuid.UUID][]string, ref *ReferenceData, category string) []byte {
	columns := models.ImportColumns(category)
	if !contains(columns, "saleDiscount") {
		columns = append(columns, "saleDiscount")
	}
	columns = append(columns, exportOnlyColumns...)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write(columns)
	for _, p := range products {
		writer.Write(exportRow(&p, images[p.ID], ref, columns))
	}
	writer.Flush()
	return buf.Bytes()
}

// ExportFilename names the download, dated for easy archiving.
func ExportFilename(category string, now time.Time) string {
	base := "products"
	if category != "" {
		base = category
	}
	return fmt.Sprintf("%s_export_%s.csv", base, now.Format("2006-01-02"))
}

func exportRow(p *models.Product, urls []string, ref *ReferenceData, columns []string) []string {
	values := map[string]string{
		"name":              p.Name,
		"slug":              p.Slug,
		"sku":               stringValue(p.SKU),
		"price":             formatFloat(p.Price),
		"compareAtPrice":    floatValue(p.CompareAtPrice),
		"stockQuantity":     intValue(p.StockQuantity),
		"description":       stringValue(p.Description),
		"brandId":           stringValue(p.BrandID),
		"isVisible":         boolValue(p.IsVisible),
		"isFeatured":        boolValue(p.IsFeatured),
		"isNew":             boolValue(p.IsNew),
		"isBestseller":      boolValue(p.IsBestseller),
		"isReturnable":      boolValue(p.IsReturnable),
		"tags":              strings.Join(p.Tags, ","),
		"gender":            stringValue(p.Gender),
		"images":            strings.Join(urls, "|"),
		"subcategory":       stringValue(p.Subcategory),
		"type":              p.Type,
		"materials":         strings.Join(p.Materials, ","),
		"careInstructions":  stringValue(p.CareInstructions),
		"sizeGuide":         stringValue(p.SizeGuide),
		"ingredients":       stringValue(p.Ingredients),
		"usageInstructions": stringValue(p.UsageInstructions),
		"isChristmasSale":   boolValue(p.IsChristmasSale),
		"saleDiscount":      discountValue(p),
		"brandName":         "",
		"categoryId":        stringValue(p.Subcategory),
		"categoryName":      "",
		"createdAt":         p.CreatedAt.Format(time.RFC3339),
		"updatedAt":         p.UpdatedAt.Format(time.RFC3339),
	}
	if p.BrandID != nil {
		values["brandName"] = ref.BrandName(*p.BrandID)
	}
	if p.Subcategory != nil {
		values["categoryName"] = ref.SubcategoryName(*p.Subcategory)
	}

	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = values[col]
	}
	return row
}

// discountValue prefers the stored discount; when absent it derives the
// effective percentage from the compare-at price so sale exports always
// carry a usable figure.
func discountValue(p *models.Product) string {
	if p.SaleDiscount != nil {
		return formatFloat(*p.SaleDiscount)
	}
	if p.CompareAtPrice != nil && *p.CompareAtPrice > p.Price {
		pct := math.Round((*p.CompareAtPrice - p.Price) / *p.CompareAtPrice * 100)
		return formatFloat(pct)
	}
	return ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func floatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func intValue(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func boolValue(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

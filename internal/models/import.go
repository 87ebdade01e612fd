package models

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// ImportRow is one parsed record from an import file: header-keyed raw string
// values plus the 1-based data row index used in error messages. Rows are
// treated as immutable once parsed.
type ImportRow struct {
	Index   int               `json:"index"`
	Columns []string          `json:"columns"`
	Values  map[string]string `json:"values"`
}

// Get returns the raw value for a column, or "" when the column is absent.
func (r ImportRow) Get(column string) string {
	return r.Values[column]
}

// Has reports whether the column appeared in the file header.
func (r ImportRow) Has(column string) bool {
	_, ok := r.Values[column]
	return ok
}

// ValidationError describes one pre-flight validation failure. Row is the
// 1-based data row index, or 0 for file-level errors (missing headers, empty
// file).
type ValidationError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// DisplayErrorLimit caps how many validation errors are surfaced to the
// caller for display. The AllClear flag is always computed over the full set.
const DisplayErrorLimit = 10

// ValidationReport carries both the full error set and the truncated display
// list. Callers must gate the commit pass on AllClear, never on the display
// list being empty.
type ValidationReport struct {
	Errors    []ValidationError `json:"-"`
	Display   []ValidationError `json:"errors"`
	Truncated bool              `json:"truncated"`
	AllClear  bool              `json:"allClear"`
}

// ImportStats aggregates the outcome of one commit run.
// Invariants at completion: Success == Created + Updated and
// Total == Success + Failed.
type ImportStats struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ImportResponse is the HTTP payload for both the validation pass and the
// commit pass of an import.
type ImportResponse struct {
	Success    bool              `json:"success"`
	Report     *ValidationReport `json:"report,omitempty"`
	Preview    []ImportRow       `json:"preview,omitempty"`
	Stats      *ImportStats      `json:"stats,omitempty"`
	CloseAfter bool              `json:"closeAfter,omitempty"`
}

// Category contexts. The first six coincide with product types; the listing
// contexts condition auto-tags and sale columns instead.
const (
	CategoryBridal  = "bridal"
	CategoryFestive = "festive"
	CategorySale    = "sale"
)

// BooleanColumns lists the fixed set of boolean-flag columns checked by the
// validator and coerced by the reconciler.
func BooleanColumns() []string {
	return []string{"isVisible", "isFeatured", "isNew", "isBestseller", "isReturnable", "isChristmasSale"}
}

// BaseImportColumns is the column set shared by every category template.
func BaseImportColumns() []string {
	return []string{
		"name", "slug", "sku", "price", "compareAtPrice", "stockQuantity",
		"description", "brandId", "isVisible", "isFeatured", "isNew",
		"isBestseller", "isReturnable", "tags", "gender", "images",
		"subcategory", "type",
	}
}

// ConditionalImportColumns returns the extra columns a category adds on top
// of the base set.
func ConditionalImportColumns(category string) []string {
	switch category {
	case TypeClothing, TypeFootwear:
		return []string{"materials", "careInstructions", "sizeGuide"}
	case TypeJewelry, TypeAccessories, TypeBags, CategoryBridal:
		return []string{"materials", "careInstructions"}
	case TypeBeauty:
		return []string{"ingredients", "usageInstructions"}
	case CategoryFestive:
		return []string{"isChristmasSale", "saleDiscount"}
	case CategorySale:
		return []string{"saleDiscount"}
	default:
		return nil
	}
}

// ImportColumns returns the full column set for a category context.
func ImportColumns(category string) []string {
	return append(BaseImportColumns(), ConditionalImportColumns(category)...)
}

// AutoTag returns the tag a category context implies for every imported row,
// or "" when the context carries no auto-tag.
func AutoTag(category string) string {
	switch category {
	case CategoryBridal:
		return "bridal"
	case CategoryFestive:
		return "christmas"
	case CategorySale:
		return "sale"
	default:
		return ""
	}
}

package importer

import (
	"fmt"
	"strconv"
	"strings"

	"catalog-service/internal/models"
)

// requiredColumns must appear as headers for a file to be importable.
var requiredColumns = []string{"name", "price"}

// Validate applies the pre-flight rules to every row and returns the FULL
// error set. It is pure: no catalog state is read or written beyond the
// reference snapshot passed in. Rules are checked in fixed order per row and
// never short-circuit, so one row can carry multiple errors.
func Validate(rows []models.ImportRow, ref *ReferenceData) []models.ValidationError {
	if len(rows) == 0 {
		return []models.ValidationError{{Row: 0, Message: "The file contains no data rows"}}
	}

	var errs []models.ValidationError

	var missing []string
	for _, col := range requiredColumns {
		if !rows[0].Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		// File-level error: per-row checks would only cascade the same cause.
		return []models.ValidationError{{
			Row:     0,
			Message: fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")),
		}}
	}

	for _, row := range rows {
		errs = append(errs, validateRow(row, ref)...)
	}

	return errs
}

func validateRow(row models.ImportRow, ref *ReferenceData) []models.ValidationError {
	var errs []models.ValidationError
	add := func(format string, args ...interface{}) {
		errs = append(errs, models.ValidationError{Row: row.Index, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(row.Get("name")) == "" {
		add("name is required")
	}

	if v := row.Get("price"); v == "" {
		add("price is required")
	} else if _, err := strconv.ParseFloat(v, 64); err != nil {
		add("price %q is not a valid number", v)
	}

	if v := row.Get("stockQuantity"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			add("stockQuantity %q is not a valid integer", v)
		}
	}

	if v := row.Get("type"); v != "" && !contains(ref.ProductTypes, v) {
		add("type %q is not valid (allowed: %s)", v, strings.Join(ref.ProductTypes, ", "))
	}

	for _, url := range SplitImages(row.Get("images")) {
		if !IsHTTPURL(url) {
			add("image URL %q is not a valid http(s) URL", url)
		}
	}

	if v := row.Get("subcategory"); v != "" && len(ref.Subcategories) > 0 && !ref.HasSubcategory(v) {
		add("subcategory %q is not valid (valid ids: %s)", v, strings.Join(ref.SubcategoryIDs(), ", "))
	}

	if v := row.Get("gender"); v != "" && !contains(ref.Genders, v) {
		add("gender %q is not valid (allowed: %s)", v, strings.Join(ref.Genders, ", "))
	}

	if v := row.Get("brandId"); v != "" && len(ref.Brands) > 0 && !ref.HasBrand(v) {
		add("brandId %q does not match any brand", v)
	}

	for _, col := range models.BooleanColumns() {
		if v := row.Get(col); v != "" {
			if _, err := ToBoolean(v); err != nil {
				add("%s %q is not a valid boolean (accepted: true/false, 1/0, yes/no)", col, v)
			}
		}
	}

	return errs
}

// BuildReport wraps the full error set into the dual-list report: the first
// DisplayErrorLimit errors for display plus an AllClear flag computed over
// the complete set. Commit must be gated on AllClear, not on the display
// list, since the 11th error is hidden but still blocking.
func BuildReport(errs []models.ValidationError) *models.ValidationReport {
	report := &models.ValidationReport{
		Errors:   errs,
		Display:  errs,
		AllClear: len(errs) == 0,
	}
	if len(errs) > models.DisplayErrorLimit {
		report.Display = errs[:models.DisplayErrorLimit]
		report.Truncated = true
	}
	return report
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

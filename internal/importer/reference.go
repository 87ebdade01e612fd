package importer

import (
	"context"

	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// ReferenceData is a read-once snapshot of the reference entities the
// validator checks rows against. It is loaded at session start and never
// refreshed mid-run; concurrent admin edits are not visible until the next
// session.
type ReferenceData struct {
	Subcategories []models.Subcategory
	Brands        []models.Brand
	Genders       []string
	ProductTypes  []string
}

// LoadReferenceData builds the snapshot for a category context. Store-side
// subcategories are merged with the built-in predefined catalog; static
// entries fill gaps and store entries win on id collision. A store failure
// is non-fatal: the snapshot degrades to the static (or empty) set and the
// dependent validations are simply skipped.
func LoadReferenceData(ctx context.Context, store CatalogStore, tenantID, category string, logger *logrus.Entry) *ReferenceData {
	ref := &ReferenceData{
		Genders:      models.Genders(),
		ProductTypes: models.ProductTypes(),
	}

	stored, err := store.SubcategoriesByParent(ctx, tenantID, category)
	if err != nil {
		logger.WithError(err).Warn("Failed to load subcategories, falling back to predefined set")
		stored = nil
	}
	ref.Subcategories = mergeSubcategories(stored, models.PredefinedSubcategories[category])

	brands, err := store.Brands(ctx, tenantID)
	if err != nil {
		logger.WithError(err).Warn("Failed to load brands, brand validation will be skipped")
		brands = nil
	}
	ref.Brands = brands

	return ref
}

// mergeSubcategories de-duplicates by id with store entries taking
// precedence; predefined entries that the store does not override are
// appended after.
func mergeSubcategories(stored, predefined []models.Subcategory) []models.Subcategory {
	merged := make([]models.Subcategory, 0, len(stored)+len(predefined))
	seen := make(map[string]bool, len(stored))
	for _, s := range stored {
		merged = append(merged, s)
		seen[s.ID] = true
	}
	for _, s := range predefined {
		if !seen[s.ID] {
			merged = append(merged, s)
		}
	}
	return merged
}

// SubcategoryIDs returns the valid ids in snapshot order.
func (r *ReferenceData) SubcategoryIDs() []string {
	ids := make([]string, len(r.Subcategories))
	for i, s := range r.Subcategories {
		ids[i] = s.ID
	}
	return ids
}

// HasSubcategory reports whether id is a member of the snapshot.
func (r *ReferenceData) HasSubcategory(id string) bool {
	for _, s := range r.Subcategories {
		if s.ID == id {
			return true
		}
	}
	return false
}

// SubcategoryName returns the display name for a subcategory id, or "".
func (r *ReferenceData) SubcategoryName(id string) string {
	for _, s := range r.Subcategories {
		if s.ID == id {
			return s.Name
		}
	}
	return ""
}

// HasBrand reports whether id is a member of the brand snapshot.
func (r *ReferenceData) HasBrand(id string) bool {
	for _, b := range r.Brands {
		if b.ID.String() == id {
			return true
		}
	}
	return false
}

// BrandName returns the display name for a brand id, or "".
func (r *ReferenceData) BrandName(id string) string {
	for _, b := range r.Brands {
		if b.ID.String() == id {
			return b.Name
		}
	}
	return ""
}

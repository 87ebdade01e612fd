package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"catalog-service/internal/models"
)

// ===========================================
// Reference Snapshot Tests
// ===========================================

func TestLoadReferenceData_MergesStoredWithPredefined(t *testing.T) {
	ctx := context.Background()
	store := new(MockCatalogStore)
	store.On("SubcategoriesByParent", ctx, "tenant-123", models.TypeFootwear).Return([]models.Subcategory{
		{ID: "heels", Name: "Custom Heels", ParentCategory: models.TypeFootwear},
		{ID: "clogs", Name: "Clogs", ParentCategory: models.TypeFootwear},
	}, nil)
	store.On("Brands", ctx, "tenant-123").Return([]models.Brand{}, nil)

	ref := LoadReferenceData(ctx, store, "tenant-123", models.TypeFootwear, testLogger())

	// stored entry wins on id collision with the predefined catalog
	assert.Equal(t, "Custom Heels", ref.SubcategoryName("heels"))
	// stored-only and predefined-only entries both survive
	assert.True(t, ref.HasSubcategory("clogs"))
	assert.True(t, ref.HasSubcategory("sneakers"))
	store.AssertExpectations(t)
}

func TestLoadReferenceData_DegradesOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := new(MockCatalogStore)
	store.On("SubcategoriesByParent", ctx, "tenant-123", models.TypeFootwear).
		Return(nil, errors.New("connection refused"))
	store.On("Brands", ctx, "tenant-123").
		Return(nil, errors.New("connection refused"))

	ref := LoadReferenceData(ctx, store, "tenant-123", models.TypeFootwear, testLogger())

	// non-fatal: predefined subcategories still validate, brands are skipped
	assert.True(t, ref.HasSubcategory("heels"))
	assert.Empty(t, ref.Brands)
	assert.Equal(t, models.Genders(), ref.Genders)
	assert.Equal(t, models.ProductTypes(), ref.ProductTypes)
}

func TestLoadReferenceData_UnknownCategoryHasNoPredefinedSet(t *testing.T) {
	ctx := context.Background()
	store := new(MockCatalogStore)
	store.On("SubcategoriesByParent", ctx, "tenant-123", "gadgets").Return([]models.Subcategory{}, nil)
	store.On("Brands", ctx, "tenant-123").Return([]models.Brand{}, nil)

	ref := LoadReferenceData(ctx, store, "tenant-123", "gadgets", testLogger())

	assert.Empty(t, ref.Subcategories)
}

package importer

import (
	"context"

	"github.com/google/uuid"

	"catalog-service/internal/models"
)

// CatalogStore is the record-oriented slice of the catalog repository the
// import pipeline depends on. Lookups return repository.ErrNotFound when no
// record matches.
type CatalogStore interface {
	SubcategoriesByParent(ctx context.Context, tenantID, parentCategory string) ([]models.Subcategory, error)
	Brands(ctx context.Context, tenantID string) ([]models.Brand, error)

	ProductBySKU(ctx context.Context, tenantID, sku string) (*models.Product, error)
	ProductBySlug(ctx context.Context, tenantID, slug string) (*models.Product, error)
	CreateProduct(ctx context.Context, tenantID string, product *models.Product) error
	UpdateProduct(ctx context.Context, tenantID string, productID uuid.UUID, product *models.Product) error

	ProductImages(ctx context.Context, tenantID string, productID uuid.UUID) ([]models.ProductImage, error)
	CreateProductImages(ctx context.Context, tenantID string, images []models.ProductImage) error
}

package repository

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

// ErrNotFound is returned by single-record lookups when no row matches
// within the tenant. Callers distinguish it from infrastructure failures
// with errors.Is.
var ErrNotFound = errors.New("record not found")

// Cache TTL constants
const (
	ProductCacheTTL     = 5 * time.Minute  // Single product cache
	ProductListCacheTTL = 2 * time.Minute  // Product list cache (shorter due to frequent changes)
	ReferenceCacheTTL   = 30 * time.Minute // Subcategories and brands rarely change
)

// ProductFilter narrows and pages product list queries.
type ProductFilter struct {
	Subcategory string
	Type        string
	Gender      string
	Search      string
	VisibleOnly bool
	Page        int
	Limit       int
}

type CatalogRepository struct {
	db    *gorm.DB
	redis *redis.Client
	cache *cache.CacheLayer
}

func NewCatalogRepository(db *gorm.DB, redis *redis.Client) *CatalogRepository {
	repo := &CatalogRepository{
		db:    db,
		redis: redis,
	}

	if redis != nil {
		cacheConfig := cache.CacheConfig{
			L1Enabled:  true,
			L1MaxItems: 5000,
			L1TTL:      30 * time.Second,
			DefaultTTL: ProductCacheTTL,
			KeyPrefix:  "tesseract:catalog:",
		}
		repo.cache = cache.NewCacheLayerFromClient(redis, cacheConfig)
	}

	return repo
}

// generateListCacheKey creates a deterministic cache key for list queries
func generateListCacheKey(tenantID string, prefix string, params interface{}) string {
	data, _ := json.Marshal(params)
	hash := md5.Sum(data)
	return fmt.Sprintf("%s:%s:%s", prefix, tenantID, hex.EncodeToString(hash[:]))
}

func (r *CatalogRepository) invalidateProductCaches(ctx context.Context, tenantID string, productID uuid.UUID) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, fmt.Sprintf("product:%s:%s", tenantID, productID.String()))
	_ = r.cache.DeletePattern(ctx, fmt.Sprintf("products:list:%s:*", tenantID))
}

func (r *CatalogRepository) invalidateTenantListCaches(ctx context.Context, tenantID string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.DeletePattern(ctx, fmt.Sprintf("products:list:%s:*", tenantID))
}

func (r *CatalogRepository) invalidateReferenceCaches(ctx context.Context, tenantID string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.DeletePattern(ctx, fmt.Sprintf("subcategories:%s:*", tenantID))
	_ = r.cache.Delete(ctx, fmt.Sprintf("brands:%s", tenantID))
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Product CRUD Operations

// CreateProduct creates a new product
func (r *CatalogRepository) CreateProduct(ctx context.Context, tenantID string, product *models.Product) error {
	product.TenantID = tenantID
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	err := r.db.WithContext(ctx).Create(product).Error
	if err == nil {
		r.invalidateTenantListCaches(ctx, tenantID)
	}
	return err
}

// ProductByID retrieves a product by ID with caching
func (r *CatalogRepository) ProductByID(ctx context.Context, tenantID string, productID uuid.UUID) (*models.Product, error) {
	cacheKey := fmt.Sprintf("product:%s:%s", tenantID, productID.String())

	if r.cache != nil {
		var product models.Product
		err := r.cache.GetOrSetJSON(ctx, cacheKey, &product, ProductCacheTTL, func() (any, error) {
			var p models.Product
			if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, productID).First(&p).Error; err != nil {
				return nil, err
			}
			return &p, nil
		})
		if err != nil {
			return nil, translateNotFound(err)
		}
		return &product, nil
	}

	var product models.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		First(&product).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &product, nil
}

// ProductBySKU retrieves a product by SKU. SKU lookups back import
// matching, so they always hit the database.
func (r *CatalogRepository) ProductBySKU(ctx context.Context, tenantID, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sku = ?", tenantID, sku).
		First(&product).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &product, nil
}

// ProductBySlug retrieves a product by slug, uncached for the same reason
// as ProductBySKU.
func (r *CatalogRepository) ProductBySlug(ctx context.Context, tenantID, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND slug = ?", tenantID, slug).
		First(&product).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &product, nil
}

// UpdateProduct overwrites the row-derived fields of an existing product
// during reconciliation. Name, slug and price are always written (a price of
// 0 is a legitimate value); optional fields are written only when the row
// carried one, so columns absent from an import never clear stored values.
func (r *CatalogRepository) UpdateProduct(ctx context.Context, tenantID string, productID uuid.UUID, product *models.Product) error {
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		Updates(importUpdateFields(product)).Error

	if err == nil {
		r.invalidateProductCaches(ctx, tenantID, productID)
	}
	return err
}

// importUpdateFields maps the set fields of a row-derived product to their
// columns. Required fields always appear, zero or not.
func importUpdateFields(product *models.Product) map[string]interface{} {
	fields := map[string]interface{}{
		"name":       product.Name,
		"slug":       product.Slug,
		"price":      product.Price,
		"updated_at": time.Now(),
	}
	if product.Type != "" {
		fields["type"] = product.Type
	}
	if product.SKU != nil {
		fields["sku"] = *product.SKU
	}
	if product.Description != nil {
		fields["description"] = *product.Description
	}
	if product.CompareAtPrice != nil {
		fields["compare_at_price"] = *product.CompareAtPrice
	}
	if product.StockQuantity != nil {
		fields["stock_quantity"] = *product.StockQuantity
	}
	if product.BrandID != nil {
		fields["brand_id"] = *product.BrandID
	}
	if product.Subcategory != nil {
		fields["subcategory"] = *product.Subcategory
	}
	if product.Gender != nil {
		fields["gender"] = *product.Gender
	}
	if product.Tags != nil {
		fields["tags"] = product.Tags
	}
	if product.Materials != nil {
		fields["materials"] = product.Materials
	}
	if product.CareInstructions != nil {
		fields["care_instructions"] = *product.CareInstructions
	}
	if product.SizeGuide != nil {
		fields["size_guide"] = *product.SizeGuide
	}
	if product.Ingredients != nil {
		fields["ingredients"] = *product.Ingredients
	}
	if product.UsageInstructions != nil {
		fields["usage_instructions"] = *product.UsageInstructions
	}
	if product.SaleDiscount != nil {
		fields["sale_discount"] = *product.SaleDiscount
	}
	if product.IsVisible != nil {
		fields["is_visible"] = *product.IsVisible
	}
	if product.IsFeatured != nil {
		fields["is_featured"] = *product.IsFeatured
	}
	if product.IsNew != nil {
		fields["is_new"] = *product.IsNew
	}
	if product.IsBestseller != nil {
		fields["is_bestseller"] = *product.IsBestseller
	}
	if product.IsReturnable != nil {
		fields["is_returnable"] = *product.IsReturnable
	}
	if product.IsChristmasSale != nil {
		fields["is_christmas_sale"] = *product.IsChristmasSale
	}
	return fields
}

// UpdateProductFields applies a partial update built by the admin surface.
// Callers supply only the columns the request carried.
func (r *CatalogRepository) UpdateProductFields(ctx context.Context, tenantID string, productID uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		Updates(fields).Error

	if err == nil {
		r.invalidateProductCaches(ctx, tenantID, productID)
	}
	return err
}

// DeleteProduct soft deletes a product and removes its images
func (r *CatalogRepository) DeleteProduct(ctx context.Context, tenantID string, productID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, productID).
			Delete(&models.Product{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("tenant_id = ? AND product_id = ?", tenantID, productID).
			Delete(&models.ProductImage{}).Error
	})

	if err == nil {
		r.invalidateProductCaches(ctx, tenantID, productID)
	}
	return err
}

// ListProducts retrieves products with filters and pagination
func (r *CatalogRepository) ListProducts(ctx context.Context, tenantID string, filter ProductFilter) ([]models.Product, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	type listResult struct {
		Products []models.Product `json:"products"`
		Total    int64            `json:"total"`
	}
	load := func() (*listResult, error) {
		var products []models.Product
		var total int64
		query := r.db.WithContext(ctx).Model(&models.Product{}).Where("tenant_id = ?", tenantID)
		query = r.applyProductFilters(query, filter)
		if err := query.Count(&total).Error; err != nil {
			return nil, err
		}
		offset := (filter.Page - 1) * filter.Limit
		if err := query.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&products).Error; err != nil {
			return nil, err
		}
		return &listResult{Products: products, Total: total}, nil
	}

	if r.cache != nil {
		cacheKey := generateListCacheKey(tenantID, "products:list", filter)
		var result listResult
		err := r.cache.GetOrSetJSON(ctx, cacheKey, &result, ProductListCacheTTL, func() (any, error) {
			return load()
		})
		if err != nil {
			return nil, 0, err
		}
		return result.Products, result.Total, nil
	}

	result, err := load()
	if err != nil {
		return nil, 0, err
	}
	return result.Products, result.Total, nil
}

// ProductsForExport retrieves all products for a category context, without
// pagination, ordered stably for reproducible exports.
func (r *CatalogRepository) ProductsForExport(ctx context.Context, tenantID, category string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if category != "" {
		if tag := models.AutoTag(category); tag != "" {
			query = query.Where("tags::text LIKE ?", "%\""+tag+"\"%")
		} else {
			query = query.Where("type = ?", category)
		}
	}

	var products []models.Product
	if err := query.Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *CatalogRepository) applyProductFilters(query *gorm.DB, filter ProductFilter) *gorm.DB {
	if filter.Subcategory != "" {
		query = query.Where("subcategory = ?", filter.Subcategory)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.VisibleOnly {
		query = query.Where("is_visible = ?", true)
	}
	return query
}

// Product Image Operations

// ProductImages retrieves a product's images ordered by position
func (r *CatalogRepository) ProductImages(ctx context.Context, tenantID string, productID uuid.UUID) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("position ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

// CreateProductImages inserts image records in one statement
func (r *CatalogRepository) CreateProductImages(ctx context.Context, tenantID string, images []models.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].TenantID = tenantID
		if images[i].ID == uuid.Nil {
			images[i].ID = uuid.New()
		}
	}
	err := r.db.WithContext(ctx).Create(&images).Error
	if err == nil {
		r.invalidateProductCaches(ctx, tenantID, images[0].ProductID)
	}
	return err
}

// DeleteProductImage removes one image
func (r *CatalogRepository) DeleteProductImage(ctx context.Context, tenantID string, productID, imageID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND id = ?", tenantID, productID, imageID).
		Delete(&models.ProductImage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidateProductCaches(ctx, tenantID, productID)
	return nil
}

// ImageURLsByProduct maps product id to its ordered URL list for a set of
// products, in one query.
func (r *CatalogRepository) ImageURLsByProduct(ctx context.Context, tenantID string, productIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	result := make(map[uuid.UUID][]string, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var images []models.ProductImage
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id IN ?", tenantID, productIDs).
		Order("product_id, position ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		result[img.ProductID] = append(result[img.ProductID], img.URL)
	}
	return result, nil
}

// Subcategory Operations

// SubcategoriesByParent retrieves subcategories for one parent category,
// with caching. An empty parent returns all of the tenant's subcategories.
func (r *CatalogRepository) SubcategoriesByParent(ctx context.Context, tenantID, parentCategory string) ([]models.Subcategory, error) {
	load := func() ([]models.Subcategory, error) {
		query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
		if parentCategory != "" {
			query = query.Where("parent_category = ?", parentCategory)
		}
		var subcategories []models.Subcategory
		if err := query.Order("name ASC").Find(&subcategories).Error; err != nil {
			return nil, err
		}
		return subcategories, nil
	}

	if r.cache != nil {
		cacheKey := fmt.Sprintf("subcategories:%s:%s", tenantID, parentCategory)
		var subcategories []models.Subcategory
		err := r.cache.GetOrSetJSON(ctx, cacheKey, &subcategories, ReferenceCacheTTL, func() (any, error) {
			return load()
		})
		if err != nil {
			return nil, err
		}
		return subcategories, nil
	}

	return load()
}

// CreateSubcategory creates a subcategory
func (r *CatalogRepository) CreateSubcategory(ctx context.Context, tenantID string, subcategory *models.Subcategory) error {
	subcategory.TenantID = tenantID
	err := r.db.WithContext(ctx).Create(subcategory).Error
	if err == nil {
		r.invalidateReferenceCaches(ctx, tenantID)
	}
	return err
}

// DeleteSubcategory removes a subcategory by id
func (r *CatalogRepository) DeleteSubcategory(ctx context.Context, tenantID, id string) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.Subcategory{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidateReferenceCaches(ctx, tenantID)
	return nil
}

// Brand Operations

// Brands retrieves the tenant's brands with caching
func (r *CatalogRepository) Brands(ctx context.Context, tenantID string) ([]models.Brand, error) {
	load := func() ([]models.Brand, error) {
		var brands []models.Brand
		err := r.db.WithContext(ctx).
			Where("tenant_id = ?", tenantID).
			Order("name ASC").
			Find(&brands).Error
		if err != nil {
			return nil, err
		}
		return brands, nil
	}

	if r.cache != nil {
		cacheKey := fmt.Sprintf("brands:%s", tenantID)
		var brands []models.Brand
		err := r.cache.GetOrSetJSON(ctx, cacheKey, &brands, ReferenceCacheTTL, func() (any, error) {
			return load()
		})
		if err != nil {
			return nil, err
		}
		return brands, nil
	}

	return load()
}

// CreateBrand creates a brand
func (r *CatalogRepository) CreateBrand(ctx context.Context, tenantID string, brand *models.Brand) error {
	brand.TenantID = tenantID
	if brand.ID == uuid.Nil {
		brand.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(brand).Error
	if err == nil {
		r.invalidateReferenceCaches(ctx, tenantID)
	}
	return err
}

// DeleteBrand removes a brand by id
func (r *CatalogRepository) DeleteBrand(ctx context.Context, tenantID string, brandID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, brandID).
		Delete(&models.Brand{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidateReferenceCaches(ctx, tenantID)
	return nil
}

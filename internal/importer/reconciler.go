package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// ReconcileBatchSize bounds how many rows are handed to the catalog store
// before moving on. Batches run one after another and rows within a batch
// run one after another; batching is a flow bound, not a concurrency or
// transaction scope.
const ReconcileBatchSize = 10

// Reconciler consumes validated rows and performs match-or-create against
// the catalog store, one row at a time. One row's failure never blocks or
// rolls back the others.
type Reconciler struct {
	store    CatalogStore
	category string
	logger   *logrus.Entry
}

// NewReconciler creates a reconciler for one category context.
func NewReconciler(store CatalogStore, category string, logger *logrus.Entry) *Reconciler {
	return &Reconciler{
		store:    store,
		category: category,
		logger:   logger.WithField("component", "reconciler"),
	}
}

// Run processes all rows in fixed-size sequential batches and accumulates
// run statistics. Per-row failures are counted and logged but never surfaced
// individually; catalog state is left as far as the failing row progressed.
func (r *Reconciler) Run(ctx context.Context, tenantID string, rows []models.ImportRow) models.ImportStats {
	var stats models.ImportStats

	for start := 0; start < len(rows); start += ReconcileBatchSize {
		end := start + ReconcileBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		for _, row := range rows[start:end] {
			created, err := r.reconcileRow(ctx, tenantID, row)
			if err != nil {
				stats.Failed++
				r.logger.WithFields(logrus.Fields{
					"row":    row.Index,
					"tenant": tenantID,
				}).WithError(err).Warn("Row reconciliation failed")
				continue
			}
			if created {
				stats.Created++
			} else {
				stats.Updated++
			}
			stats.Success++
		}
	}

	stats.Total = len(rows)
	return stats
}

// reconcileRow applies the per-row algorithm: derive defaults, coerce types,
// separate images, match by sku then slug, write the product, then reconcile
// the image list. Returns whether the row resulted in a create.
func (r *Reconciler) reconcileRow(ctx context.Context, tenantID string, row models.ImportRow) (bool, error) {
	product, urls, err := r.buildProduct(row)
	if err != nil {
		return false, err
	}

	existing, err := r.matchExisting(ctx, tenantID, product)
	if err != nil {
		return false, err
	}

	if existing == nil {
		product.ID = uuid.New()
		if err := r.store.CreateProduct(ctx, tenantID, product); err != nil {
			return false, fmt.Errorf("create product: %w", err)
		}
		if err := r.insertImages(ctx, tenantID, product.ID, product.Name, urls, 0, nil); err != nil {
			return false, err
		}
		return true, nil
	}

	product.ID = existing.ID
	if err := r.store.UpdateProduct(ctx, tenantID, existing.ID, product); err != nil {
		return false, fmt.Errorf("update product: %w", err)
	}

	// Image reconciliation on update is additive: only URLs not already
	// stored are inserted, positions continue from the current count, and
	// images omitted from the row are left untouched. Re-running an import
	// is therefore safe after a crash between the product and image writes.
	existingImages, err := r.store.ProductImages(ctx, tenantID, existing.ID)
	if err != nil {
		return false, fmt.Errorf("fetch product images: %w", err)
	}
	known := make(map[string]bool, len(existingImages))
	for _, img := range existingImages {
		known[img.URL] = true
	}
	if err := r.insertImages(ctx, tenantID, existing.ID, product.Name, urls, len(existingImages), known); err != nil {
		return false, err
	}
	return false, nil
}

// matchExisting looks up by SKU first when the row carries one, then by the
// derived slug. A nil product with nil error means no match: this row is a
// create.
func (r *Reconciler) matchExisting(ctx context.Context, tenantID string, product *models.Product) (*models.Product, error) {
	if product.SKU != nil && *product.SKU != "" {
		existing, err := r.store.ProductBySKU(ctx, tenantID, *product.SKU)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("lookup by sku: %w", err)
		}
	}

	existing, err := r.store.ProductBySlug(ctx, tenantID, product.Slug)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup by slug: %w", err)
	}
	return nil, nil
}

// insertImages appends the given URLs as new image rows, de-duplicated
// against both the already-stored set and repeats within the list itself.
func (r *Reconciler) insertImages(ctx context.Context, tenantID string, productID uuid.UUID, name string, urls []string, startPosition int, known map[string]bool) error {
	if known == nil {
		known = make(map[string]bool, len(urls))
	}

	var images []models.ProductImage
	position := startPosition
	for _, url := range urls {
		if known[url] {
			continue
		}
		known[url] = true
		alt := fmt.Sprintf("%s image %d", name, position+1)
		images = append(images, models.ProductImage{
			TenantID:  tenantID,
			ProductID: productID,
			URL:       url,
			AltText:   &alt,
			Position:  position,
		})
		position++
	}

	if len(images) == 0 {
		return nil
	}
	if err := r.store.CreateProductImages(ctx, tenantID, images); err != nil {
		return fmt.Errorf("insert product images: %w", err)
	}
	return nil
}

// buildProduct derives defaults and coerces the raw row into a catalog
// product plus its separated, ordered image URL list. The images column is
// never written to the products record.
func (r *Reconciler) buildProduct(row models.ImportRow) (*models.Product, []string, error) {
	name := strings.TrimSpace(row.Get("name"))

	slug := strings.TrimSpace(row.Get("slug"))
	if slug == "" {
		slug = Slugify(name)
	}

	typ := strings.TrimSpace(row.Get("type"))
	if typ == "" && contains(models.ProductTypes(), r.category) {
		typ = r.category
	}

	tags := SplitList(row.Get("tags"))
	if auto := models.AutoTag(r.category); auto != "" && !contains(tags, auto) {
		tags = append(tags, auto)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(row.Get("price")), 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid price %q", row.Get("price"))
	}
	compareAt, err := parseOptionalFloat(row.Get("compareAtPrice"))
	if err != nil {
		return nil, nil, fmt.Errorf("compareAtPrice: %w", err)
	}
	stock, err := parseOptionalInt(row.Get("stockQuantity"))
	if err != nil {
		return nil, nil, fmt.Errorf("stockQuantity: %w", err)
	}
	saleDiscount, err := parseOptionalFloat(row.Get("saleDiscount"))
	if err != nil {
		return nil, nil, fmt.Errorf("saleDiscount: %w", err)
	}

	product := &models.Product{
		Name:              name,
		Slug:              slug,
		SKU:               optionalString(row.Get("sku")),
		Description:       optionalString(row.Get("description")),
		Price:             price,
		CompareAtPrice:    compareAt,
		StockQuantity:     stock,
		BrandID:           optionalString(row.Get("brandId")),
		Subcategory:       optionalString(row.Get("subcategory")),
		Gender:            optionalString(row.Get("gender")),
		Type:              typ,
		Tags:              tags,
		Materials:         SplitList(row.Get("materials")),
		CareInstructions:  optionalString(row.Get("careInstructions")),
		SizeGuide:         optionalString(row.Get("sizeGuide")),
		Ingredients:       optionalString(row.Get("ingredients")),
		UsageInstructions: optionalString(row.Get("usageInstructions")),
		SaleDiscount:      saleDiscount,
	}

	for _, col := range models.BooleanColumns() {
		v := row.Get(col)
		if v == "" {
			continue
		}
		b, err := ToBoolean(v)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", col, err)
		}
		switch col {
		case "isVisible":
			product.IsVisible = &b
		case "isFeatured":
			product.IsFeatured = &b
		case "isNew":
			product.IsNew = &b
		case "isBestseller":
			product.IsBestseller = &b
		case "isReturnable":
			product.IsReturnable = &b
		case "isChristmasSale":
			product.IsChristmasSale = &b
		}
	}

	return product, SplitImages(row.Get("images")), nil
}

package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// MockCatalogStore is a mock implementation of CatalogStore
type MockCatalogStore struct {
	mock.Mock
}

// Ensure MockCatalogStore implements the interface
var _ CatalogStore = (*MockCatalogStore)(nil)

func (m *MockCatalogStore) SubcategoriesByParent(ctx context.Context, tenantID, parentCategory string) ([]models.Subcategory, error) {
	args := m.Called(ctx, tenantID, parentCategory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subcategory), args.Error(1)
}

func (m *MockCatalogStore) Brands(ctx context.Context, tenantID string) ([]models.Brand, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Brand), args.Error(1)
}

func (m *MockCatalogStore) ProductBySKU(ctx context.Context, tenantID, sku string) (*models.Product, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogStore) ProductBySlug(ctx context.Context, tenantID, slug string) (*models.Product, error) {
	args := m.Called(ctx, tenantID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogStore) CreateProduct(ctx context.Context, tenantID string, product *models.Product) error {
	args := m.Called(ctx, tenantID, product)
	return args.Error(0)
}

func (m *MockCatalogStore) UpdateProduct(ctx context.Context, tenantID string, productID uuid.UUID, product *models.Product) error {
	args := m.Called(ctx, tenantID, productID, product)
	return args.Error(0)
}

func (m *MockCatalogStore) ProductImages(ctx context.Context, tenantID string, productID uuid.UUID) ([]models.ProductImage, error) {
	args := m.Called(ctx, tenantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProductImage), args.Error(1)
}

func (m *MockCatalogStore) CreateProductImages(ctx context.Context, tenantID string, images []models.ProductImage) error {
	args := m.Called(ctx, tenantID, images)
	return args.Error(0)
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(logger)
}

func importRow(index int, values map[string]string) models.ImportRow {
	return makeRow(index, values)
}

// ===========================================
// Create Path Tests
// ===========================================

func TestReconciler_CreatesNewProduct(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"

	store := new(MockCatalogStore)
	store.On("ProductBySKU", ctx, tenantID, "SKU-1").Return(nil, repository.ErrNotFound)
	store.On("ProductBySlug", ctx, tenantID, "red-heels").Return(nil, repository.ErrNotFound)

	var created *models.Product
	store.On("CreateProduct", ctx, tenantID, mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) {
			created = args.Get(2).(*models.Product)
		}).
		Return(nil)
	store.On("CreateProductImages", ctx, tenantID, mock.AnythingOfType("[]models.ProductImage")).Return(nil)

	rows := []models.ImportRow{importRow(1, map[string]string{
		"name":      "Red Heels",
		"sku":       "SKU-1",
		"price":     "49.99",
		"isVisible": "yes",
		"tags":      "party,evening",
		"images":    "https://cdn.example.com/a.jpg|https://cdn.example.com/b.jpg",
	})}

	stats := NewReconciler(store, "", testLogger()).Run(ctx, tenantID, rows)

	assert.Equal(t, models.ImportStats{Total: 1, Success: 1, Created: 1}, stats)
	assert.NotNil(t, created)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "red-heels", created.Slug)
	assert.Equal(t, 49.99, created.Price)
	assert.NotNil(t, created.IsVisible)
	assert.True(t, *created.IsVisible)
	assert.Equal(t, models.StringList{"party", "evening"}, created.Tags)
	store.AssertExpectations(t)
}

func TestReconciler_CreateImagePositionsAndAltText(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"

	store := new(MockCatalogStore)
	store.On("ProductBySlug", ctx, tenantID, "red-heels").Return(nil, repository.ErrNotFound)
	store.On("CreateProduct", ctx, tenantID, mock.Anything).Return(nil)

	var inserted []models.ProductImage
	store.On("CreateProductImages", ctx, tenantID, mock.AnythingOfType("[]models.ProductImage")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(2).([]models.ProductImage)
		}).
		Return(nil)

	rows := []models.ImportRow{importRow(1, map[string]string{
		"name":   "Red Heels",
		"price":  "49.99",
		"images": "https://cdn.example.com/a.jpg|https://cdn.example.com/a.jpg|https://cdn.example.com/b.jpg",
	})}

	NewReconciler(store, "", testLogger()).Run(ctx, tenantID, rows)

	// repeated URL within the row is inserted once
	assert.Len(t, inserted, 2)
	assert.Equal(t, 0, inserted[0].Position)
	assert.Equal(t, 1, inserted[1].Position)
	assert.Equal(t, "Red Heels image 1", *inserted[0].AltText)
	assert.Equal(t, "Red Heels image 2", *inserted[1].AltText)
}

func TestReconciler_DefaultsTypeAndAutoTag(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"

	store := new(MockCatalogStore)
	store.On("ProductBySlug", ctx, tenantID, "gold-ring").Return(nil, repository.ErrNotFound)

	var created *models.Product
	store.On("CreateProduct", ctx, tenantID, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(2).(*models.Product)
		}).
		Return(nil)

	rows := []models.ImportRow{importRow(1, map[string]string{
		"name":  "Gold Ring",
		"price": "199",
	})}

	NewReconciler(store, models.TypeJewelry, testLogger()).Run(ctx, tenantID, rows)
	assert.Equal(t, models.TypeJewelry, created.Type)

	// bridal is a listing context, not a product type: no type default, tag added
	store2 := new(MockCatalogStore)
	store2.On("ProductBySlug", ctx, tenantID, "gold-ring").Return(nil, repository.ErrNotFound)
	store2.On("CreateProduct", ctx, tenantID, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(2).(*models.Product)
		}).
		Return(nil)

	NewReconciler(store2, models.CategoryBridal, testLogger()).Run(ctx, tenantID, rows)
	assert.Equal(t, "", created.Type)
	assert.Equal(t, models.StringList{"bridal"}, created.Tags)
}

// ===========================================
// Update Path Tests
// ===========================================

func TestReconciler_UpdatesBySKU(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"
	existingID := uuid.New()

	store := new(MockCatalogStore)
	store.On("ProductBySKU", ctx, tenantID, "SKU-1").
		Return(&models.Product{ID: existingID, Name: "Old Name"}, nil)

	var updated *models.Product
	store.On("UpdateProduct", ctx, tenantID, existingID, mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) {
			updated = args.Get(3).(*models.Product)
		}).
		Return(nil)
	store.On("ProductImages", ctx, tenantID, existingID).Return([]models.ProductImage{}, nil)

	rows := []models.ImportRow{importRow(1, map[string]string{
		"name":  "New Name",
		"sku":   "SKU-1",
		"price": "59.99",
	})}

	stats := NewReconciler(store, "", testLogger()).Run(ctx, tenantID, rows)

	assert.Equal(t, models.ImportStats{Total: 1, Success: 1, Updated: 1}, stats)
	assert.Equal(t, existingID, updated.ID)
	assert.Equal(t, "New Name", updated.Name)
	store.AssertExpectations(t)
}

func TestReconciler_FallsBackToSlugMatch(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"
	existingID := uuid.New()

	store := new(MockCatalogStore)
	store.On("ProductBySKU", ctx, tenantID, "SKU-NEW").Return(nil, repository.ErrNotFound)
	store.On("ProductBySlug", ctx, tenantID, "red-heels").
		Return(&models.Product{ID: existingID}, nil)
	store.On("UpdateProduct", ctx, tenantID, existingID, mock.Anything).Return(nil)
	store.On("ProductImages", ctx, tenantID, existingID).Return([]models.ProductImage{}, nil)

	rows := []models.ImportRow{importRow(1, map[string]string{
		"name":  "Red Heels",
		"sku":   "SKU-NEW",
		"price": "49.99",
	})}

	stats := NewReconciler(store, "", testLogger()).Run(ctx, tenantID, rows)

	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 0, stats.Created)
	store.AssertExpectations(t)
}

func TestReconciler_ImageUnionContinuesPositions(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"
	existingID := uuid.New()

	existingImages := []models.ProductImage{
		{ProductID: existingID, URL: "https://cdn.example.com/a.jpg", Position: 0},
		{ProductID: existingID, URL: "https://cdn.example.com/b.jpg", Position: 1},
	}

	store := new(MockCatalogStore)
	store.On("ProductBySlug", ctx, tenantID, "red-heels").
		Return(&models.Product{ID: existingID}, nil)
	store.On("UpdateProduct", ctx, tenantID, existingID, mock.Anything).Return(nil)
	store.On("ProductImages", ctx, tenantID, existingID).Return(existingImages, nil)

	var inserted []models.ProductImage
	store.On("CreateProductImages", ctx, tenantID, mock.AnythingOfType("[]models.ProductImage")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(2).([]models.ProductImage)
		}).
		Return(nil)

	rows := []models.ImportRow{importRow(1, map[string]string{
		"name":   "Red Heels",
		"price":  "49.99",
		"images": "https://cdn.example.com/b.jpg|https://cdn.example.com/c.jpg",
	})}

	NewReconciler(store, "", testLogger()).Run(ctx, tenantID, rows)

	// only the unseen URL is inserted, position continues after existing
	assert.Len(t, inserted, 1)
	assert.Equal(t, "https://cdn.example.com/c.jpg", inserted[0].URL)
	assert.Equal(t, 2, inserted[0].Position)
	store.AssertExpectations(t)
}

func TestReconciler_NoImageInsertWhenAllKnown(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"
	existingID := uuid.New()

	store := new(MockCatalogStore)
	store.On("ProductBySlug", ctx, tenantID, "red-heels").
		Return(&models.Product{ID: existingID}, nil)
	store.On("UpdateProduct", ctx, tenantID, existingID, mock.Anything).Return(nil)
	store.On("ProductImages", ctx, tenantID, existingID).Return([]models.ProductImage{
		{ProductID: existingID, URL: "https://cdn.example.com/a.jpg", Position: 0},
	}, nil)

	rows := []models.ImportRow{importRow(1, map[string]string{
		"name":   "Red Heels",
		"price":  "49.99",
		"images": "https://cdn.example.com/a.jpg",
	})}

	NewReconciler(store, "", testLogger()).Run(ctx, tenantID, rows)

	store.AssertNotCalled(t, "CreateProductImages", ctx, tenantID, mock.Anything)
}

// ===========================================
// Failure Isolation and Stats Tests
// ===========================================

func TestReconciler_RowFailureDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"

	store := new(MockCatalogStore)
	store.On("ProductBySlug", ctx, tenantID, "first").Return(nil, repository.ErrNotFound)
	store.On("ProductBySlug", ctx, tenantID, "second").Return(nil, repository.ErrNotFound)
	store.On("ProductBySlug", ctx, tenantID, "third").Return(nil, repository.ErrNotFound)

	store.On("CreateProduct", ctx, tenantID, mock.MatchedBy(func(p *models.Product) bool {
		return p.Slug == "second"
	})).Return(errors.New("unique constraint violation"))
	store.On("CreateProduct", ctx, tenantID, mock.MatchedBy(func(p *models.Product) bool {
		return p.Slug != "second"
	})).Return(nil)

	rows := []models.ImportRow{
		importRow(1, map[string]string{"name": "First", "price": "1"}),
		importRow(2, map[string]string{"name": "Second", "price": "2"}),
		importRow(3, map[string]string{"name": "Third", "price": "3"}),
	}

	stats := NewReconciler(store, "", testLogger()).Run(ctx, tenantID, rows)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Success)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 2, stats.Created)
	assert.Equal(t, stats.Success, stats.Created+stats.Updated)
	assert.Equal(t, stats.Total, stats.Success+stats.Failed)
}

func TestReconciler_LookupErrorCountsAsFailed(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"

	store := new(MockCatalogStore)
	store.On("ProductBySlug", ctx, tenantID, "red-heels").Return(nil, errors.New("connection reset"))

	rows := []models.ImportRow{importRow(1, map[string]string{"name": "Red Heels", "price": "1"})}

	stats := NewReconciler(store, "", testLogger()).Run(ctx, tenantID, rows)

	assert.Equal(t, models.ImportStats{Total: 1, Failed: 1}, stats)
	store.AssertNotCalled(t, "CreateProduct", ctx, tenantID, mock.Anything)
}

func TestReconciler_ProcessesMoreThanOneBatch(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"

	store := new(MockCatalogStore)
	store.On("ProductBySlug", ctx, tenantID, mock.AnythingOfType("string")).Return(nil, repository.ErrNotFound)
	store.On("CreateProduct", ctx, tenantID, mock.Anything).Return(nil)

	var rows []models.ImportRow
	for i := 1; i <= ReconcileBatchSize*2+3; i++ {
		rows = append(rows, importRow(i, map[string]string{
			"name":  "Product " + uuid.NewString(),
			"price": "9.99",
		}))
	}

	stats := NewReconciler(store, "", testLogger()).Run(ctx, tenantID, rows)

	assert.Equal(t, len(rows), stats.Total)
	assert.Equal(t, len(rows), stats.Created)
	assert.Equal(t, 0, stats.Failed)
}

// ===========================================
// Idempotent Convergence Tests
// ===========================================

// fakeCatalog is an in-memory CatalogStore for scenarios that need real
// persistence across reconciliation runs.
type fakeCatalog struct {
	bySlug map[string]*models.Product
	bySKU  map[string]*models.Product
	images map[uuid.UUID][]models.ProductImage
}

var _ CatalogStore = (*fakeCatalog)(nil)

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		bySlug: map[string]*models.Product{},
		bySKU:  map[string]*models.Product{},
		images: map[uuid.UUID][]models.ProductImage{},
	}
}

func (f *fakeCatalog) SubcategoriesByParent(ctx context.Context, tenantID, parentCategory string) ([]models.Subcategory, error) {
	return nil, nil
}

func (f *fakeCatalog) Brands(ctx context.Context, tenantID string) ([]models.Brand, error) {
	return nil, nil
}

func (f *fakeCatalog) ProductBySKU(ctx context.Context, tenantID, sku string) (*models.Product, error) {
	if p, ok := f.bySKU[sku]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCatalog) ProductBySlug(ctx context.Context, tenantID, slug string) (*models.Product, error) {
	if p, ok := f.bySlug[slug]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCatalog) CreateProduct(ctx context.Context, tenantID string, product *models.Product) error {
	f.bySlug[product.Slug] = product
	if product.SKU != nil {
		f.bySKU[*product.SKU] = product
	}
	return nil
}

func (f *fakeCatalog) UpdateProduct(ctx context.Context, tenantID string, productID uuid.UUID, product *models.Product) error {
	product.ID = productID
	f.bySlug[product.Slug] = product
	if product.SKU != nil {
		f.bySKU[*product.SKU] = product
	}
	return nil
}

func (f *fakeCatalog) ProductImages(ctx context.Context, tenantID string, productID uuid.UUID) ([]models.ProductImage, error) {
	return f.images[productID], nil
}

func (f *fakeCatalog) CreateProductImages(ctx context.Context, tenantID string, images []models.ProductImage) error {
	for _, img := range images {
		f.images[img.ProductID] = append(f.images[img.ProductID], img)
	}
	return nil
}

func TestReconciler_ReimportConverges(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"
	catalog := newFakeCatalog()

	rows := []models.ImportRow{
		importRow(1, map[string]string{"name": "Red Heels", "sku": "SKU-1", "price": "49.99", "images": "https://cdn.example.com/a.jpg"}),
		importRow(2, map[string]string{"name": "Blue Flats", "price": "29.99"}),
	}

	reconciler := NewReconciler(catalog, "", testLogger())

	first := reconciler.Run(ctx, tenantID, rows)
	assert.Equal(t, models.ImportStats{Total: 2, Success: 2, Created: 2}, first)

	second := reconciler.Run(ctx, tenantID, rows)
	assert.Equal(t, models.ImportStats{Total: 2, Success: 2, Updated: 2}, second)

	// image set unchanged on re-import
	heels := catalog.bySlug["red-heels"]
	assert.Len(t, catalog.images[heels.ID], 1)
}

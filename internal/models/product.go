package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender values accepted for products and advisory on subcategories
type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderKids   Gender = "kids"
	GenderUnisex Gender = "unisex"
)

// Genders lists the closed set of accepted gender values.
func Genders() []string {
	return []string{string(GenderMen), string(GenderWomen), string(GenderKids), string(GenderUnisex)}
}

// Product type values form a closed set checked at import time
const (
	TypeFootwear    = "footwear"
	TypeClothing    = "clothing"
	TypeJewelry     = "jewelry"
	TypeBeauty      = "beauty"
	TypeAccessories = "accessories"
	TypeBags        = "bags"
)

// ProductTypes lists the closed set of accepted product type values.
func ProductTypes() []string {
	return []string{TypeFootwear, TypeClothing, TypeJewelry, TypeBeauty, TypeAccessories, TypeBags}
}

// JSON type for PostgreSQL JSONB (object/map)
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// StringList type for PostgreSQL JSONB (array of strings, used for tags/materials)
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = make(StringList, 0)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Contains reports whether the list holds the given value.
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

// Product represents a catalog product entity.
// SKU and slug are the external identities used by the import reconciler:
// rows are matched by SKU first, then by the slug derived from the name.
type Product struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID       string    `json:"tenantId" gorm:"not null;index;index:idx_products_tenant_sku,unique;index:idx_products_tenant_slug,unique"`
	Name           string    `json:"name" gorm:"not null"`
	Slug           string    `json:"slug" gorm:"not null;index:idx_products_tenant_slug,unique"`
	SKU            *string   `json:"sku,omitempty" gorm:"index:idx_products_tenant_sku,unique"`
	Description    *string   `json:"description,omitempty"`
	Price          float64   `json:"price" gorm:"not null"`
	CompareAtPrice *float64  `json:"compareAtPrice,omitempty"`
	StockQuantity  *int      `json:"stockQuantity,omitempty"`
	BrandID        *string   `json:"brandId,omitempty" gorm:"index"`
	Subcategory    *string   `json:"subcategory,omitempty" gorm:"index"`
	Gender         *string   `json:"gender,omitempty"`
	Type           string    `json:"type,omitempty" gorm:"index"`

	IsVisible    *bool `json:"isVisible,omitempty" gorm:"default:true"`
	IsFeatured   *bool `json:"isFeatured,omitempty"`
	IsNew        *bool `json:"isNew,omitempty"`
	IsBestseller *bool `json:"isBestseller,omitempty"`
	IsReturnable *bool `json:"isReturnable,omitempty"`

	Tags      StringList `json:"tags,omitempty" gorm:"type:jsonb"`
	Materials StringList `json:"materials,omitempty" gorm:"type:jsonb"`

	// Category-conditional fields
	CareInstructions  *string  `json:"careInstructions,omitempty"`
	SizeGuide         *string  `json:"sizeGuide,omitempty"`
	Ingredients       *string  `json:"ingredients,omitempty"`
	UsageInstructions *string  `json:"usageInstructions,omitempty"`
	SaleDiscount      *float64 `json:"saleDiscount,omitempty"`
	IsChristmasSale   *bool    `json:"isChristmasSale,omitempty"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// ProductImage represents one image of a product, referenced by URL only.
// Position is a zero-based insertion order per product and is never
// renumbered or compacted; repeated imports continue from the current count.
type ProductImage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  string    `json:"tenantId" gorm:"not null;index"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	URL       string    `json:"url" gorm:"not null"`
	AltText   *string   `json:"altText,omitempty"`
	Position  int       `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subcategory is a reference entity used to validate the subcategory column.
// The gender tag is advisory only and is never enforced at import time.
// IDs are human-readable slugs ("heels", "skincare") rather than UUIDs so the
// same identifier space works for both store records and the built-in catalog.
type Subcategory struct {
	ID             string    `json:"id" gorm:"primary_key"`
	TenantID       string    `json:"tenantId" gorm:"index"`
	Name           string    `json:"name" gorm:"not null"`
	Gender         string    `json:"gender,omitempty"`
	ParentCategory string    `json:"parentCategory" gorm:"index"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Brand is a reference entity used to validate the brandId column.
type Brand struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  string    `json:"tenantId" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name           string            `json:"name" binding:"required"`
	Slug           *string           `json:"slug,omitempty"`
	SKU            *string           `json:"sku,omitempty"`
	Description    *string           `json:"description,omitempty"`
	Price          float64           `json:"price" binding:"required"`
	CompareAtPrice *float64          `json:"compareAtPrice,omitempty"`
	StockQuantity  *int              `json:"stockQuantity,omitempty"`
	BrandID        *string           `json:"brandId,omitempty"`
	Subcategory    *string           `json:"subcategory,omitempty"`
	Gender         *string           `json:"gender,omitempty"`
	Type           string            `json:"type,omitempty"`
	IsVisible      *bool             `json:"isVisible,omitempty"`
	IsFeatured     *bool             `json:"isFeatured,omitempty"`
	IsNew          *bool             `json:"isNew,omitempty"`
	IsBestseller   *bool             `json:"isBestseller,omitempty"`
	IsReturnable   *bool             `json:"isReturnable,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Materials      []string          `json:"materials,omitempty"`
	Images         []AddImageRequest `json:"images,omitempty"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name           *string  `json:"name,omitempty"`
	Slug           *string  `json:"slug,omitempty"`
	SKU            *string  `json:"sku,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	CompareAtPrice *float64 `json:"compareAtPrice,omitempty"`
	StockQuantity  *int     `json:"stockQuantity,omitempty"`
	BrandID        *string  `json:"brandId,omitempty"`
	Subcategory    *string  `json:"subcategory,omitempty"`
	Gender         *string  `json:"gender,omitempty"`
	Type           *string  `json:"type,omitempty"`
	IsVisible      *bool    `json:"isVisible,omitempty"`
	IsFeatured     *bool    `json:"isFeatured,omitempty"`
	IsNew          *bool    `json:"isNew,omitempty"`
	IsBestseller   *bool    `json:"isBestseller,omitempty"`
	IsReturnable   *bool    `json:"isReturnable,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Materials      []string `json:"materials,omitempty"`
}

// AddImageRequest represents a request to append an image to a product
type AddImageRequest struct {
	URL     string  `json:"url" binding:"required"`
	AltText *string `json:"altText,omitempty"`
}

// CreateSubcategoryRequest represents a request to create a subcategory
type CreateSubcategoryRequest struct {
	ID             string `json:"id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Gender         string `json:"gender,omitempty"`
	ParentCategory string `json:"parentCategory" binding:"required"`
}

// CreateBrandRequest represents a request to create a brand
type CreateBrandRequest struct {
	Name string `json:"name" binding:"required"`
}

// Response types
type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
	Message *string  `json:"message,omitempty"`
}

type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

type ProductImageListResponse struct {
	Success bool           `json:"success"`
	Data    []ProductImage `json:"data"`
}

type SubcategoryListResponse struct {
	Success bool          `json:"success"`
	Data    []Subcategory `json:"data"`
}

type BrandListResponse struct {
	Success bool    `json:"success"`
	Data    []Brand `json:"data"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details *JSON  `json:"details,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// TableName returns the table name for the ProductImage model
func (ProductImage) TableName() string {
	return "product_images"
}

// TableName returns the table name for the Subcategory model
func (Subcategory) TableName() string {
	return "categories"
}

// TableName returns the table name for the Brand model
func (Brand) TableName() string {
	return "brands"
}

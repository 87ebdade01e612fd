package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalog-service/internal/events"
	"catalog-service/internal/importer"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type ProductsHandler struct {
	repo            *repository.CatalogRepository
	eventsPublisher *events.Publisher
}

func NewProductsHandler(repo *repository.CatalogRepository, eventsPublisher *events.Publisher) *ProductsHandler {
	return &ProductsHandler{
		repo:            repo,
		eventsPublisher: eventsPublisher,
	}
}

// CreateProduct creates a new product
// POST /api/v1/products
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")
	userID, _ := c.Get("user_id")
	userEmail, _ := c.Get("user_email")

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	slug := ""
	if req.Slug != nil {
		slug = *req.Slug
	}
	if slug == "" {
		slug = importer.Slugify(req.Name)
	}

	product := &models.Product{
		ID:             uuid.New(),
		Name:           req.Name,
		Slug:           slug,
		SKU:            req.SKU,
		Description:    req.Description,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		StockQuantity:  req.StockQuantity,
		BrandID:        req.BrandID,
		Subcategory:    req.Subcategory,
		Gender:         req.Gender,
		Type:           req.Type,
		IsVisible:      req.IsVisible,
		IsFeatured:     req.IsFeatured,
		IsNew:          req.IsNew,
		IsBestseller:   req.IsBestseller,
		IsReturnable:   req.IsReturnable,
		Tags:           req.Tags,
		Materials:      req.Materials,
	}

	if err := h.repo.CreateProduct(c.Request.Context(), tenantID.(string), product); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "CREATE_FAILED",
				Message: "Failed to create product",
			},
		})
		return
	}

	if len(req.Images) > 0 {
		images := make([]models.ProductImage, len(req.Images))
		for i, img := range req.Images {
			images[i] = models.ProductImage{
				ProductID: product.ID,
				URL:       img.URL,
				AltText:   img.AltText,
				Position:  i,
			}
		}
		if err := h.repo.CreateProductImages(c.Request.Context(), tenantID.(string), images); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "CREATE_FAILED",
					Message: "Product created but image save failed",
				},
			})
			return
		}
	}

	if h.eventsPublisher != nil {
		_ = h.eventsPublisher.PublishProductCreated(c.Request.Context(), product, tenantID.(string),
			asString(userID), asString(userEmail))
	}

	c.JSON(http.StatusCreated, models.ProductResponse{
		Success: true,
		Data:    product,
	})
}

// GetProducts retrieves products with filters and pagination
// GET /api/v1/products
func (h *ProductsHandler) GetProducts(c *gin.Context) {
	h.listProducts(c, false)
}

// GetStorefrontProducts retrieves visible products for the public storefront
// GET /api/v1/storefront/products
func (h *ProductsHandler) GetStorefrontProducts(c *gin.Context) {
	h.listProducts(c, true)
}

func (h *ProductsHandler) listProducts(c *gin.Context, visibleOnly bool) {
	tenantID, _ := c.Get("tenant_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := repository.ProductFilter{
		Subcategory: c.Query("subcategory"),
		Type:        c.Query("type"),
		Gender:      c.Query("gender"),
		Search:      c.Query("search"),
		VisibleOnly: visibleOnly,
		Page:        page,
		Limit:       limit,
	}

	products, total, err := h.repo.ListProducts(c.Request.Context(), tenantID.(string), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve products",
			},
		})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	pagination := &models.PaginationInfo{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success:    true,
		Data:       products,
		Pagination: pagination,
	})
}

// GetProduct retrieves a single product by ID
// GET /api/v1/products/:id
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID format",
			},
		})
		return
	}

	product, err := h.repo.ProductByID(c.Request.Context(), tenantID.(string), productID)
	if err != nil {
		status := http.StatusInternalServerError
		code := "FETCH_FAILED"
		message := "Failed to retrieve product"
		if errors.Is(err, repository.ErrNotFound) {
			status = http.StatusNotFound
			code = "NOT_FOUND"
			message = "Product not found"
		}
		c.JSON(status, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    code,
				Message: message,
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
	})
}

// GetStorefrontProduct retrieves a visible product by slug
// GET /api/v1/storefront/products/:slug
func (h *ProductsHandler) GetStorefrontProduct(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")
	slug := c.Param("slug")

	product, err := h.repo.ProductBySlug(c.Request.Context(), tenantID.(string), slug)
	if err != nil || (product.IsVisible != nil && !*product.IsVisible) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NOT_FOUND",
				Message: "Product not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
	})
}

// UpdateProduct updates a product
// PUT /api/v1/products/:id
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")
	userID, _ := c.Get("user_id")
	userEmail, _ := c.Get("user_email")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID format",
			},
		})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	existing, err := h.repo.ProductByID(c.Request.Context(), tenantID.(string), productID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NOT_FOUND",
				Message: "Product not found",
			},
		})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.CompareAtPrice != nil {
		updates["compare_at_price"] = *req.CompareAtPrice
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.BrandID != nil {
		updates["brand_id"] = *req.BrandID
	}
	if req.Subcategory != nil {
		updates["subcategory"] = *req.Subcategory
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.IsVisible != nil {
		updates["is_visible"] = *req.IsVisible
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.IsNew != nil {
		updates["is_new"] = *req.IsNew
	}
	if req.IsBestseller != nil {
		updates["is_bestseller"] = *req.IsBestseller
	}
	if req.IsReturnable != nil {
		updates["is_returnable"] = *req.IsReturnable
	}
	if req.Tags != nil {
		updates["tags"] = models.StringList(req.Tags)
	}
	if req.Materials != nil {
		updates["materials"] = models.StringList(req.Materials)
	}

	if err := h.repo.UpdateProductFields(c.Request.Context(), tenantID.(string), productID, updates); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "UPDATE_FAILED",
				Message: "Failed to update product",
			},
		})
		return
	}

	product, err := h.repo.ProductByID(c.Request.Context(), tenantID.(string), productID)
	if err != nil {
		product = existing
	}

	if h.eventsPublisher != nil {
		_ = h.eventsPublisher.PublishProductUpdated(c.Request.Context(), product, existing, tenantID.(string),
			asString(userID), asString(userEmail))
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
	})
}

// DeleteProduct soft deletes a product
// DELETE /api/v1/products/:id
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")
	userID, _ := c.Get("user_id")
	userEmail, _ := c.Get("user_email")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID format",
			},
		})
		return
	}

	product, err := h.repo.ProductByID(c.Request.Context(), tenantID.(string), productID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NOT_FOUND",
				Message: "Product not found",
			},
		})
		return
	}

	if err := h.repo.DeleteProduct(c.Request.Context(), tenantID.(string), productID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DELETE_FAILED",
				Message: "Failed to delete product",
			},
		})
		return
	}

	if h.eventsPublisher != nil {
		_ = h.eventsPublisher.PublishProductDeleted(c.Request.Context(), product, tenantID.(string),
			asString(userID), asString(userEmail))
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Product deleted successfully"),
	})
}

// GetProductImages lists a product's images ordered by position
// GET /api/v1/products/:id/images
func (h *ProductsHandler) GetProductImages(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID format",
			},
		})
		return
	}

	images, err := h.repo.ProductImages(c.Request.Context(), tenantID.(string), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve product images",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductImageListResponse{
		Success: true,
		Data:    images,
	})
}

// AddProductImage appends one image to a product. Position continues from
// the current image count; existing positions are never renumbered.
// POST /api/v1/products/:id/images
func (h *ProductsHandler) AddProductImage(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID format",
			},
		})
		return
	}

	var req models.AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}
	if !importer.IsHTTPURL(req.URL) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "Image URL must be a valid http(s) URL",
				Field:   "url",
			},
		})
		return
	}

	if _, err := h.repo.ProductByID(c.Request.Context(), tenantID.(string), productID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NOT_FOUND",
				Message: "Product not found",
			},
		})
		return
	}

	existing, err := h.repo.ProductImages(c.Request.Context(), tenantID.(string), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve product images",
			},
		})
		return
	}

	image := models.ProductImage{
		ProductID: productID,
		URL:       req.URL,
		AltText:   req.AltText,
		Position:  len(existing),
	}
	if err := h.repo.CreateProductImages(c.Request.Context(), tenantID.(string), []models.ProductImage{image}); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "CREATE_FAILED",
				Message: "Failed to add product image",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, models.ProductImageListResponse{
		Success: true,
		Data:    []models.ProductImage{image},
	})
}

// DeleteProductImage removes one image from a product
// DELETE /api/v1/products/:id/images/:imageId
func (h *ProductsHandler) DeleteProductImage(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID format",
			},
		})
		return
	}
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid image ID format",
			},
		})
		return
	}

	if err := h.repo.DeleteProductImage(c.Request.Context(), tenantID.(string), productID, imageID); err != nil {
		status := http.StatusInternalServerError
		code := "DELETE_FAILED"
		message := "Failed to delete product image"
		if errors.Is(err, repository.ErrNotFound) {
			status = http.StatusNotFound
			code = "NOT_FOUND"
			message = "Product image not found"
		}
		c.JSON(status, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    code,
				Message: message,
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Product image deleted successfully"),
	})
}

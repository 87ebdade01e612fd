package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/importer"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// ReferenceHandler serves the subcategory and brand reference data used by
// product forms and import validation.
type ReferenceHandler struct {
	repo   *repository.CatalogRepository
	logger *logrus.Logger
}

func NewReferenceHandler(repo *repository.CatalogRepository, logger *logrus.Logger) *ReferenceHandler {
	return &ReferenceHandler{repo: repo, logger: logger}
}

// GetSubcategories lists subcategories for a parent category, merged with
// the predefined set the same way import validation sees them.
// GET /api/v1/subcategories?parentCategory=footwear
func (h *ReferenceHandler) GetSubcategories(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")
	parentCategory := c.Query("parentCategory")

	logger := h.logger.WithField("handler", "reference")
	ref := importer.LoadReferenceData(c.Request.Context(), h.repo, tenantID.(string), parentCategory, logger)

	c.JSON(http.StatusOK, models.SubcategoryListResponse{
		Success: true,
		Data:    ref.Subcategories,
	})
}

// CreateSubcategory creates a tenant subcategory. A tenant entry with a
// predefined id overrides the predefined entry.
// POST /api/v1/subcategories
func (h *ReferenceHandler) CreateSubcategory(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var req models.CreateSubcategoryRequest
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

	subcategory := &models.Subcategory{
		ID:             req.ID,
		Name:           req.Name,
		Gender:         req.Gender,
		ParentCategory: req.ParentCategory,
	}
	if err := h.repo.CreateSubcategory(c.Request.Context(), tenantID.(string), subcategory); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "CREATE_FAILED",
				Message: "Failed to create subcategory",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, models.SubcategoryListResponse{
		Success: true,
		Data:    []models.Subcategory{*subcategory},
	})
}

// DeleteSubcategory removes a tenant subcategory
// DELETE /api/v1/subcategories/:id
func (h *ReferenceHandler) DeleteSubcategory(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")
	id := c.Param("id")

	if err := h.repo.DeleteSubcategory(c.Request.Context(), tenantID.(string), id); err != nil {
		status := http.StatusInternalServerError
		code := "DELETE_FAILED"
		message := "Failed to delete subcategory"
		if errors.Is(err, repository.ErrNotFound) {
			status = http.StatusNotFound
			code = "NOT_FOUND"
			message = "Subcategory not found"
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
		Message: stringPtr("Subcategory deleted successfully"),
	})
}

// GetBrands lists the tenant's brands
// GET /api/v1/brands
func (h *ReferenceHandler) GetBrands(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	brands, err := h.repo.Brands(c.Request.Context(), tenantID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve brands",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.BrandListResponse{
		Success: true,
		Data:    brands,
	})
}

// CreateBrand creates a brand
// POST /api/v1/brands
func (h *ReferenceHandler) CreateBrand(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var req models.CreateBrandRequest
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

	brand := &models.Brand{
		ID:   uuid.New(),
		Name: req.Name,
	}
	if err := h.repo.CreateBrand(c.Request.Context(), tenantID.(string), brand); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "CREATE_FAILED",
				Message: "Failed to create brand",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, models.BrandListResponse{
		Success: true,
		Data:    []models.Brand{*brand},
	})
}

// DeleteBrand removes a brand
// DELETE /api/v1/brands/:id
func (h *ReferenceHandler) DeleteBrand(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	brandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid brand ID format",
			},
		})
		return
	}

	if err := h.repo.DeleteBrand(c.Request.Context(), tenantID.(string), brandID); err != nil {
		status := http.StatusInternalServerError
		code := "DELETE_FAILED"
		message := "Failed to delete brand"
		if errors.Is(err, repository.ErrNotFound) {
			status = http.StatusNotFound
			code = "NOT_FOUND"
			message = "Brand not found"
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
		Message: stringPtr("Brand deleted successfully"),
	})
}

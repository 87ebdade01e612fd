package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/events"
	"catalog-service/internal/importer"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// CatalogRepository must satisfy the importer's store contract.
var _ importer.CatalogStore = (*repository.CatalogRepository)(nil)

type ImportHandler struct {
	repo            *repository.CatalogRepository
	eventsPublisher *events.Publisher
	logger          *logrus.Logger
	maxFileSize     int64
	maxRows         int
}

func NewImportHandler(repo *repository.CatalogRepository, eventsPublisher *events.Publisher, logger *logrus.Logger, maxFileSize int64, maxRows int) *ImportHandler {
	return &ImportHandler{
		repo:            repo,
		eventsPublisher: eventsPublisher,
		logger:          logger,
		maxFileSize:     maxFileSize,
		maxRows:         maxRows,
	}
}

// GetImportTemplate generates and downloads an import template
// GET /api/v1/products/import/template?format=csv&category=clothing
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	format := models.ImportFormat(c.DefaultQuery("format", "csv"))
	if format != models.ImportFormatCSV && format != models.ImportFormatXLSX {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_FORMAT",
				Message: "Format must be 'csv' or 'xlsx'",
			},
		})
		return
	}
	category := c.Query("category")

	logger := h.logger.WithField("handler", "import")
	ref := importer.LoadReferenceData(c.Request.Context(), h.repo, tenantID.(string), category, logger)
	filename := importer.TemplateFilename(category, format)

	if format == models.ImportFormatCSV {
		data := importer.GenerateTemplateCSV(category, ref, time.Now())
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Data(http.StatusOK, "text/csv", data)
		return
	}

	data, err := importer.GenerateTemplateXLSX(category, ref, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "TEMPLATE_FAILED",
				Message: "Failed to generate template",
			},
		})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ImportProducts imports products from an uploaded CSV or Excel file.
// POST /api/v1/products/import
// The file is always validated first; validateOnly=true stops there.
// A file with any validation error is never applied.
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")
	userID, _ := c.Get("user_id")
	userEmail, _ := c.Get("user_email")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_REQUIRED",
				Message: "Please upload a CSV or Excel file",
			},
		})
		return
	}
	defer file.Close()

	if h.maxFileSize > 0 && header.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_TOO_LARGE",
				Message: fmt.Sprintf("File exceeds the %d byte limit", h.maxFileSize),
			},
		})
		return
	}

	format, err := formatFromFilename(header.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "UNSUPPORTED_FORMAT",
				Message: err.Error(),
			},
		})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "READ_FAILED",
				Message: "Failed to read uploaded file",
			},
		})
		return
	}

	category := c.Query("category")
	validateOnly := c.PostForm("validateOnly") == "true"

	logger := h.logger.WithField("handler", "import")
	session := importer.NewSession(h.repo, logger, tenantID.(string), category, format, data, h.maxRows)

	report, preview, err := session.Validate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_FAILED",
				Message: "Failed to validate import file",
			},
		})
		return
	}

	if validateOnly || !report.AllClear {
		c.JSON(http.StatusOK, models.ImportResponse{
			Success: report.AllClear,
			Report:  report,
			Preview: preview,
		})
		return
	}

	stats, err := session.Commit(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "IMPORT_FAILED",
				Message: "Failed to import products",
			},
		})
		return
	}

	if h.eventsPublisher != nil {
		_ = h.eventsPublisher.PublishImportCompleted(c.Request.Context(), tenantID.(string), category, stats,
			asString(userID), asString(userEmail))
	}

	c.JSON(http.StatusOK, models.ImportResponse{
		Success:    true,
		Report:     report,
		Stats:      &stats,
		CloseAfter: true,
	})
}

// ExportProducts downloads the tenant's catalog as CSV in the import column
// layout, so an export can be edited and re-imported.
// GET /api/v1/products/export?category=sale
func (h *ImportHandler) ExportProducts(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")
	category := c.Query("category")

	products, err := h.repo.ProductsForExport(c.Request.Context(), tenantID.(string), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EXPORT_FAILED",
				Message: "Failed to retrieve products for export",
			},
		})
		return
	}

	productIDs := make([]uuid.UUID, len(products))
	for i, p := range products {
		productIDs[i] = p.ID
	}
	images, err := h.repo.ImageURLsByProduct(c.Request.Context(), tenantID.(string), productIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EXPORT_FAILED",
				Message: "Failed to retrieve product images for export",
			},
		})
		return
	}

	logger := h.logger.WithField("handler", "import")
	ref := importer.LoadReferenceData(c.Request.Context(), h.repo, tenantID.(string), category, logger)

	data := importer.ExportCSV(products, images, ref, category)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", importer.ExportFilename(category, time.Now())))
	c.Data(http.StatusOK, "text/csv", data)
}

func formatFromFilename(filename string) (models.ImportFormat, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return models.ImportFormatCSV, nil
	case ".xlsx", ".xls":
		return models.ImportFormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file format, please upload .csv or .xlsx")
	}
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func stringPtr(s string) *string {
	return &s
}

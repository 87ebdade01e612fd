package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

var (
	// ErrNotValidated is returned by Commit when Validate has not run.
	ErrNotValidated = errors.New("import session has not been validated")
	// ErrValidationFailed is returned by Commit when the file did not pass
	// validation. All-or-nothing: a file with any error is never applied.
	ErrValidationFailed = errors.New("import file failed validation")
)

// Session drives one uploaded file through the validate-then-commit flow.
// The raw bytes are retained so Commit re-reads the same content Validate
// judged; nothing is applied to the catalog until Commit.
type Session struct {
	store    CatalogStore
	logger   *logrus.Entry
	tenantID string
	category string
	format   models.ImportFormat
	data     []byte
	maxRows  int

	ref     *ReferenceData
	report  *models.ValidationReport
	preview []models.ImportRow
}

// NewSession wraps one uploaded file for a tenant and category context.
// maxRows bounds how many data rows one file may carry; zero means no bound.
func NewSession(store CatalogStore, logger *logrus.Entry, tenantID, category string, format models.ImportFormat, data []byte, maxRows int) *Session {
	return &Session{
		store:    store,
		logger:   logger.WithFields(logrus.Fields{"tenant": tenantID, "category": category}),
		tenantID: tenantID,
		category: category,
		format:   format,
		data:     data,
		maxRows:  maxRows,
	}
}

// Validate parses the file, loads the reference snapshot and runs the full
// rule set. It returns the report plus a short preview of the parsed rows;
// a structural parse failure is reported the same way, as a file-level
// validation error.
func (s *Session) Validate(ctx context.Context) (*models.ValidationReport, []models.ImportRow, error) {
	rows, err := ParseRows(s.data, s.format)
	if err != nil {
		s.report = BuildReport([]models.ValidationError{{Row: 0, Message: err.Error()}})
		s.preview = nil
		return s.report, nil, nil
	}

	if s.maxRows > 0 && len(rows) > s.maxRows {
		s.report = BuildReport([]models.ValidationError{{
			Row:     0,
			Message: fmt.Sprintf("The file contains %d data rows, exceeding the limit of %d", len(rows), s.maxRows),
		}})
		s.preview = nil
		return s.report, nil, nil
	}

	if s.preview, err = Preview(s.data, s.format, PreviewRowCount); err != nil {
		s.preview = nil
	}

	s.ref = LoadReferenceData(ctx, s.store, s.tenantID, s.category, s.logger)
	s.report = BuildReport(Validate(rows, s.ref))

	s.logger.WithFields(logrus.Fields{
		"rows":   len(rows),
		"errors": len(s.report.Errors),
	}).Info("Import file validated")
	return s.report, s.preview, nil
}

// Commit reconciles the file against the catalog. It refuses to run unless
// a prior Validate on this session passed cleanly.
func (s *Session) Commit(ctx context.Context) (models.ImportStats, error) {
	if s.report == nil {
		return models.ImportStats{}, ErrNotValidated
	}
	if !s.report.AllClear {
		return models.ImportStats{}, ErrValidationFailed
	}

	rows, err := ParseRows(s.data, s.format)
	if err != nil {
		return models.ImportStats{}, fmt.Errorf("re-parse import file: %w", err)
	}

	stats := NewReconciler(s.store, s.category, s.logger).Run(ctx, s.tenantID, rows)
	s.logger.WithFields(logrus.Fields{
		"total":   stats.Total,
		"created": stats.Created,
		"updated": stats.Updated,
		"failed":  stats.Failed,
	}).Info("Import committed")
	return stats, nil
}

// Report returns the last validation report, or nil before Validate.
func (s *Session) Report() *models.ValidationReport {
	return s.report
}

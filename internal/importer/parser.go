package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"catalog-service/internal/models"
)

// PreviewRowCount is how many rows the validation pass materializes for
// display. The commit pass always re-parses the full file from the original
// bytes.
const PreviewRowCount = 5

// ParseRows parses the whole file into header-keyed rows. The first line is
// the header; empty lines and #-comment lines (as emitted by the template
// generator) are skipped. A structural failure yields a single error and no
// partial rows.
func ParseRows(data []byte, format models.ImportFormat) ([]models.ImportRow, error) {
	return parse(data, format, -1)
}

// Preview parses at most limit rows without reading the rest of the file.
func Preview(data []byte, format models.ImportFormat, limit int) ([]models.ImportRow, error) {
	return parse(data, format, limit)
}

func parse(data []byte, format models.ImportFormat, limit int) ([]models.ImportRow, error) {
	switch format {
	case models.ImportFormatXLSX:
		return parseXLSX(data, limit)
	default:
		return parseCSV(data, limit)
	}
}

func parseCSV(data []byte, limit int) ([]models.ImportRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comment = '#'

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	normalizeHeaders(headers)

	var rows []models.ImportRow
	for limit < 0 || len(rows) < limit {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		rows = append(rows, buildRow(headers, record, len(rows)+1))
	}

	return rows, nil
}

func parseXLSX(data []byte, limit int) ([]models.ImportRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}
	sheetName := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, "Products") {
			sheetName = name
			break
		}
	}

	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(excelRows) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	headers := excelRows[0]
	normalizeHeaders(headers)

	var rows []models.ImportRow
	for _, excelRow := range excelRows[1:] {
		if limit >= 0 && len(rows) >= limit {
			break
		}
		if rowIsBlank(excelRow) {
			continue
		}
		rows = append(rows, buildRow(headers, excelRow, len(rows)+1))
	}

	return rows, nil
}

// normalizeHeaders trims whitespace and the "required" marker some template
// editors append. Column names keep their case so they match the documented
// column set exactly.
func normalizeHeaders(headers []string) {
	for i := range headers {
		headers[i] = strings.TrimSuffix(strings.TrimSpace(headers[i]), " *")
	}
}

func buildRow(headers, record []string, index int) models.ImportRow {
	values := make(map[string]string, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if i < len(record) {
			values[h] = strings.TrimSpace(record[i])
		} else {
			values[h] = ""
		}
	}
	return models.ImportRow{Index: index, Columns: headers, Values: values}
}

func rowIsBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

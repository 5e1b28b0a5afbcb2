package services

import (
	"io"
	"strings"

	"coffee-backend/internal/apperr"
	"coffee-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

// headerNames mark a first row that labels the columns instead of holding data.
var headerNames = map[string]bool{
	"name":         true,
	"nome":         true,
	"produtor":     true,
	"caminhoneiro": true,
	"motorista":    true,
}

// ReadRegistrySheet reads registry entries from the first sheet of an .xlsx
// workbook: column A is the name, column B the property.
func ReadRegistrySheet(r io.Reader) ([]models.RegistryRequest, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Validation("could not read spreadsheet: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.Validation("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.Validation("could not read sheet %s: %v", sheets[0], err)
	}

	start := 0
	if len(rows) > 0 && len(rows[0]) > 0 && headerNames[models.NormalizeKey(rows[0][0])] {
		start = 1
	}

	entries := make([]models.RegistryRequest, 0, len(rows)-start)
	for _, row := range rows[start:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		name := row[0]
		e := models.RegistryRequest{Name: &name}
		if len(row) > 1 {
			property := row[1]
			e.Property = &property
		}
		entries = append(entries, e)
	}
	return entries, nil
}

package policyimport

import (
	"bytes"
	"context"
	"fmt"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
	"github.com/xuri/excelize/v2"
)

// SpreadsheetExtractor reads the first sheet of an Excel workbook: one
// header row matched against the bilingual synonym table, then data rows.
type SpreadsheetExtractor struct{}

func (e *SpreadsheetExtractor) Extract(_ context.Context, name string, data []byte) ([]models.ParsedRule, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", name)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("spreadsheet %s has no data rows", name)
	}

	columns := mapHeaderRow(rows[0])
	if len(columns) == 0 {
		return nil, fmt.Errorf("no recognizable headers in %s", name)
	}

	var rules []models.ParsedRule
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		rules = append(rules, buildRule(i+2, mapRow(columns, row)))
	}
	return rules, nil
}

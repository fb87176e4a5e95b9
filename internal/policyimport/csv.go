package policyimport

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
)

// CSVExtractor parses comma-separated text with the same header matching as
// the spreadsheet path.
type CSVExtractor struct{}

func (e *CSVExtractor) Extract(_ context.Context, name string, data []byte) ([]models.ParsedRule, error) {
	// Excel exports often lead with a UTF-8 BOM.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row of %s: %w", name, err)
	}
	columns := mapHeaderRow(header)
	if len(columns) == 0 {
		return nil, fmt.Errorf("no recognizable headers in %s", name)
	}

	var rules []models.ParsedRule
	rowNumber := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		rowNumber++
		if err != nil {
			rules = append(rules, models.ParsedRule{
				RowNumber: rowNumber,
				IsValid:   false,
				Errors:    []string{fmt.Sprintf("unreadable row / שורה לא קריאה: %v", err)},
			})
			continue
		}
		if isEmptyRow(row) {
			continue
		}
		rules = append(rules, buildRule(rowNumber, mapRow(columns, row)))
	}

	if len(rules) == 0 {
		return nil, fmt.Errorf("%s contains no data rows", strings.TrimSpace(name))
	}
	return rules, nil
}

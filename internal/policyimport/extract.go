package policyimport

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
	"github.com/TripDesk-Travel/Attachment-Service/internal/services"
)

// Extractor turns one uploaded policy document into parsed rule rows.
// Unusable rows come back flagged invalid rather than failing the file.
type Extractor interface {
	Extract(ctx context.Context, name string, data []byte) ([]models.ParsedRule, error)
}

// ForFile picks the extractor for a file by extension.
func ForFile(name string, functions *services.FunctionsClient) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return &SpreadsheetExtractor{}, nil
	case ".csv", ".txt":
		return &CSVExtractor{}, nil
	case ".docx":
		return &WordExtractor{Functions: functions}, nil
	case ".pdf":
		return &PDFExtractor{Functions: functions}, nil
	}
	return nil, fmt.Errorf("unsupported policy file type: %s", filepath.Ext(name))
}

// Extract dispatches on the file type and runs the matching extractor.
func Extract(ctx context.Context, name string, data []byte, functions *services.FunctionsClient) ([]models.ParsedRule, error) {
	ex, err := ForFile(name, functions)
	if err != nil {
		return nil, err
	}
	rules, err := ex.Extract(ctx, name, data)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("could not extract any rules from %s", name)
	}
	return rules, nil
}

package policyimport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
	"github.com/TripDesk-Travel/Attachment-Service/internal/services"
)

// PDFExtractor delegates entirely to the remote extraction function, which
// rasterizes the pages and runs OCR on them.
type PDFExtractor struct {
	Functions *services.FunctionsClient
}

func (e *PDFExtractor) Extract(ctx context.Context, name string, data []byte) ([]models.ParsedRule, error) {
	if e.Functions == nil {
		return nil, fmt.Errorf("extraction function not configured")
	}
	return extractViaFunction(ctx, e.Functions, map[string]interface{}{
		"file_name": name,
		"content":   base64.StdEncoding.EncodeToString(data),
	})
}

// extractedRow is the row shape the policy-extract function returns.
type extractedRow struct {
	Category    string `json:"category"`
	MaxAmount   string `json:"max_amount"`
	Currency    string `json:"currency"`
	Per         string `json:"per"`
	Description string `json:"description"`
}

// extractViaFunction invokes the remote extraction function and validates
// whatever rows it produced through the same path as the local extractors.
func extractViaFunction(ctx context.Context, fns *services.FunctionsClient, body map[string]interface{}) ([]models.ParsedRule, error) {
	raw, err := fns.InvokeWithTimeout(ctx, services.FnPolicyExtract, body, services.ExtractInvokeTimeout)
	if err != nil {
		return nil, fmt.Errorf("could not extract: %w", err)
	}

	var resp struct {
		Rows []extractedRow `json:"rows"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("could not extract: bad response: %w", err)
	}
	if len(resp.Rows) == 0 {
		return nil, fmt.Errorf("could not extract: no rows returned")
	}

	rules := make([]models.ParsedRule, 0, len(resp.Rows))
	for i, row := range resp.Rows {
		rules = append(rules, buildRule(i+1, map[string]string{
			"category":    row.Category,
			"max_amount":  row.MaxAmount,
			"currency":    row.Currency,
			"per":         row.Per,
			"description": row.Description,
		}))
	}
	return rules, nil
}

package models

import (
	"time"
)

// PolicyRule is a persisted travel-policy spending rule.
type PolicyRule struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	MaxAmount   float64   `json:"max_amount"`
	Currency    string    `json:"currency"`
	Per         string    `json:"per"` // "day" or "trip"
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source"` // "import" or "manual"
	CreatedAt   time.Time `json:"created_at"`
}

// ParsedRule is one row produced by the policy import extractors before it
// is persisted. Invalid rows are kept in the result with IsValid=false so
// the caller can show per-row errors without aborting the batch.
type ParsedRule struct {
	RowNumber   int      `json:"row_number"`
	Category    string   `json:"category"`
	MaxAmount   float64  `json:"max_amount"`
	Currency    string   `json:"currency"`
	Per         string   `json:"per"`
	Description string   `json:"description,omitempty"`
	IsValid     bool     `json:"is_valid"`
	Errors      []string `json:"errors,omitempty"`
}

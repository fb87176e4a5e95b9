package models

import (
	"time"
)

// Expense is the slice of an expense-report line this service needs for
// duplicate detection; the full report lives in the reporting tables.
type Expense struct {
	ID          string    `json:"id"`
	ReportID    string    `json:"report_id"`
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
}

package policyimport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
)

var currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// buildRule validates one extracted row. Invalid rows are returned with
// IsValid=false and bilingual error strings; the batch never aborts on them.
func buildRule(rowNumber int, fields map[string]string) models.ParsedRule {
	rule := models.ParsedRule{
		RowNumber:   rowNumber,
		Description: strings.TrimSpace(fields["description"]),
		IsValid:     true,
	}

	rawCategory := strings.TrimSpace(fields["category"])
	if rawCategory == "" {
		rule.Errors = append(rule.Errors, "missing category / חסרה קטגוריה")
	} else if canonical, ok := MapCategory(rawCategory); ok {
		rule.Category = canonical
	} else {
		rule.Errors = append(rule.Errors, fmt.Sprintf("unrecognized category %q / קטגוריה לא מוכרת: %q", rawCategory, rawCategory))
	}

	rawAmount := strings.TrimSpace(fields["max_amount"])
	amount, err := parseAmount(rawAmount)
	if err != nil || amount <= 0 {
		rule.Errors = append(rule.Errors, fmt.Sprintf("invalid amount %q / סכום לא תקין: %q", rawAmount, rawAmount))
	} else {
		rule.MaxAmount = amount
	}

	rawCurrency := strings.TrimSpace(fields["currency"])
	if rawCurrency == "" {
		rawCurrency = "ILS"
	}
	if currencyPattern.MatchString(rawCurrency) {
		rule.Currency = strings.ToUpper(rawCurrency)
	} else {
		rule.Errors = append(rule.Errors, fmt.Sprintf("invalid currency %q / מטבע לא תקין: %q", rawCurrency, rawCurrency))
	}

	if per, ok := MapPer(fields["per"]); ok {
		rule.Per = per
	} else {
		rule.Errors = append(rule.Errors, fmt.Sprintf("invalid period %q / תקופה לא תקינה: %q", fields["per"], fields["per"]))
	}

	if len(rule.Errors) > 0 {
		rule.IsValid = false
	}
	return rule
}

// parseAmount accepts "1,200.50", "₪350", "$ 120" and similar.
func parseAmount(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.':
			return r
		default:
			return -1
		}
	}, strings.ReplaceAll(s, ",", ""))
	if cleaned == "" {
		return 0, fmt.Errorf("no digits in %q", s)
	}
	return strconv.ParseFloat(cleaned, 64)
}

// mapRow pairs a data row with the header mapping produced by MapHeader.
func mapRow(columns map[int]string, row []string) map[string]string {
	fields := make(map[string]string, len(columns))
	for idx, field := range columns {
		if idx < len(row) {
			fields[field] = row[idx]
		}
	}
	return fields
}

// mapHeaderRow resolves every recognizable header cell to a column index.
func mapHeaderRow(header []string) map[int]string {
	columns := make(map[int]string)
	for i, cell := range header {
		if field, ok := MapHeader(cell); ok {
			if _, taken := invertHas(columns, field); !taken {
				columns[i] = field
			}
		}
	}
	return columns
}

func invertHas(columns map[int]string, field string) (int, bool) {
	for i, f := range columns {
		if f == field {
			return i, true
		}
	}
	return 0, false
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

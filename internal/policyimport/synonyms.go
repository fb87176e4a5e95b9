package policyimport

import (
	"strings"
)

// The import formats come from finance teams working in English and Hebrew,
// so header and value matching is bilingual. These tables are pure data;
// matching logic lives below and nowhere else.

// headerSynonyms maps canonical field names to substrings matched against
// header cells, case-insensitively.
var headerSynonyms = map[string][]string{
	"category":    {"category", "קטגוריה"},
	"max_amount":  {"max amount", "amount", "limit", "ceiling", "סכום", "תקרה"},
	"currency":    {"currency", "מטבע"},
	"per":         {"per", "period", "frequency", "תקופה", "תדירות"},
	"description": {"description", "note", "comment", "תיאור", "הער"},
}

// categoryValues maps accepted spellings to canonical rule categories.
var categoryValues = map[string]string{
	"accommodation": "accommodation",
	"lodging":       "accommodation",
	"hotel":         "accommodation",
	"לינה":          "accommodation",
	"מלון":          "accommodation",

	"flights": "flights",
	"flight":  "flights",
	"airfare": "flights",
	"טיסות":   "flights",
	"טיסה":    "flights",

	"meals":  "meals",
	"food":   "meals",
	"אוכל":   "meals",
	"ארוחות": "meals",
	"אש\"ל":  "meals",

	"transport":      "transport",
	"transportation": "transport",
	"taxi":           "transport",
	"תחבורה":         "transport",
	"נסיעות":         "transport",

	"other": "other",
	"misc":  "other",
	"אחר":   "other",
	"שונות": "other",
}

// perValues maps accepted spellings to the rule period.
var perValues = map[string]string{
	"day":   "day",
	"daily": "day",
	"יום":   "day",
	"ליום":  "day",
	"יומי":  "day",

	"trip":     "trip",
	"per trip": "trip",
	"נסיעה":    "trip",
	"לנסיעה":   "trip",
}

// MapHeader resolves a header cell to a canonical field name by substring.
func MapHeader(cell string) (string, bool) {
	c := strings.ToLower(strings.TrimSpace(cell))
	if c == "" {
		return "", false
	}
	for field, synonyms := range headerSynonyms {
		for _, syn := range synonyms {
			if strings.Contains(c, syn) {
				return field, true
			}
		}
	}
	return "", false
}

// MapCategory resolves a category cell to its canonical value.
func MapCategory(value string) (string, bool) {
	v, ok := categoryValues[strings.ToLower(strings.TrimSpace(value))]
	return v, ok
}

// MapPer resolves a period cell; empty input defaults to "day".
func MapPer(value string) (string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "day", true
	}
	v, ok := perValues[trimmed]
	return v, ok
}

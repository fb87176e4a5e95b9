package policyimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRuleValid(t *testing.T) {
	rule := buildRule(2, map[string]string{
		"category":    "לינה",
		"max_amount":  "1,200.50",
		"currency":    "usd",
		"per":         "ליום",
		"description": " hotel cap ",
	})

	require.True(t, rule.IsValid)
	assert.Equal(t, 2, rule.RowNumber)
	assert.Equal(t, "accommodation", rule.Category)
	assert.Equal(t, 1200.50, rule.MaxAmount)
	assert.Equal(t, "USD", rule.Currency)
	assert.Equal(t, "day", rule.Per)
	assert.Equal(t, "hotel cap", rule.Description)
}

func TestBuildRuleUnrecognizedCategory(t *testing.T) {
	rule := buildRule(3, map[string]string{
		"category":   "submarine",
		"max_amount": "100",
	})

	assert.False(t, rule.IsValid)
	require.Len(t, rule.Errors, 1)
	assert.Contains(t, rule.Errors[0], "submarine")
	assert.Contains(t, rule.Errors[0], "קטגוריה", "error message carries the Hebrew wording")
}

func TestBuildRuleBadAmount(t *testing.T) {
	for _, amount := range []string{"", "free", "0", "-50"} {
		rule := buildRule(1, map[string]string{
			"category":   "meals",
			"max_amount": amount,
		})
		assert.False(t, rule.IsValid, "amount %q must invalidate the row", amount)
	}
}

func TestBuildRuleCurrencyDefaultsToILS(t *testing.T) {
	rule := buildRule(1, map[string]string{
		"category":   "flights",
		"max_amount": "500",
	})
	require.True(t, rule.IsValid)
	assert.Equal(t, "ILS", rule.Currency)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"350", 350},
		{"1,200.50", 1200.50},
		{"₪350", 350},
		{"$ 120", 120},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseAmount("none")
	assert.Error(t, err)
}

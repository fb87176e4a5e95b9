package policyimport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExtract(t *testing.T) {
	data := []byte("קטגוריה,תקרה,מטבע,תקופה\n" +
		"לינה,800,USD,יום\n" +
		"טיסות,3000,USD,נסיעה\n" +
		"submarine,100,USD,יום\n")

	rules, err := (&CSVExtractor{}).Extract(context.Background(), "policy.csv", data)
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.True(t, rules[0].IsValid)
	assert.Equal(t, "accommodation", rules[0].Category)
	assert.Equal(t, 800.0, rules[0].MaxAmount)
	assert.Equal(t, "day", rules[0].Per)

	assert.True(t, rules[1].IsValid)
	assert.Equal(t, "flights", rules[1].Category)
	assert.Equal(t, "trip", rules[1].Per)

	assert.False(t, rules[2].IsValid, "unrecognized category must flag the row")
	require.NotEmpty(t, rules[2].Errors)
	assert.Contains(t, rules[2].Errors[0], "submarine")
}

func TestCSVExtractEnglishHeadersWithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Category,Max Amount,Currency\nMeals,75,EUR\n")...)

	rules, err := (&CSVExtractor{}).Extract(context.Background(), "policy.csv", data)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.True(t, rules[0].IsValid)
	assert.Equal(t, "meals", rules[0].Category)
	assert.Equal(t, 75.0, rules[0].MaxAmount)
	assert.Equal(t, "EUR", rules[0].Currency)
}

func TestCSVExtractSkipsEmptyRows(t *testing.T) {
	data := []byte("Category,Max Amount\nMeals,75\n,,\nFlights,900\n")

	rules, err := (&CSVExtractor{}).Extract(context.Background(), "policy.csv", data)
	require.NoError(t, err)
	assert.Len(t, rules, 2)
}

func TestCSVExtractNoRecognizableHeaders(t *testing.T) {
	data := []byte("Name,Age\nAlice,30\n")
	_, err := (&CSVExtractor{}).Extract(context.Background(), "policy.csv", data)
	assert.Error(t, err)
}

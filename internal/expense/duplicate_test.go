package expense

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 14, 30, 0, 0, time.UTC)
}

func TestFindDuplicates(t *testing.T) {
	candidate := models.Expense{
		ID:          "new",
		Date:        day(2026, 3, 12),
		Amount:      100,
		Currency:    "USD",
		Description: "Taxi to airport",
	}

	existing := []models.Expense{
		{ID: "a", Date: day(2026, 3, 12), Amount: 100, Currency: "USD", Description: "taxi  to airport"},
		{ID: "b", Date: day(2026, 3, 13), Amount: 100, Currency: "USD", Description: "Taxi to airport"},
		{ID: "c", Date: day(2026, 3, 12), Amount: 100, Currency: "EUR", Description: "Taxi to airport"},
		{ID: "d", Date: day(2026, 3, 12), Amount: 100, Currency: "USD", Description: "Taxi to hotel"},
	}

	dups := FindDuplicates(candidate, existing)
	require.Len(t, dups, 1)
	assert.Equal(t, "a", dups[0].ID)
}

func TestFindDuplicatesSkipsSelf(t *testing.T) {
	e := models.Expense{ID: "same", Date: day(2026, 1, 5), Amount: 40, Currency: "ILS", Description: "lunch"}
	assert.Empty(t, FindDuplicates(e, []models.Expense{e}))
}

func TestAmountsClose(t *testing.T) {
	tests := []struct {
		a, b float64
		want bool
	}{
		{100, 100, true},
		{100, 105, true},  // exactly 5% of the larger
		{100, 106, false}, // just over
		{100, 95, true},
		{0, 0, true},
		{0, 1, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, amountsClose(tt.a, tt.b), "%v vs %v", tt.a, tt.b)
	}
}

func TestSameAmountDifferentTimeOfDay(t *testing.T) {
	a := models.Expense{ID: "x", Date: time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC), Amount: 50, Currency: "USD", Description: "breakfast"}
	b := models.Expense{ID: "y", Date: time.Date(2026, 3, 12, 22, 0, 0, 0, time.UTC), Amount: 50, Currency: "USD", Description: "breakfast"}
	assert.True(t, isDuplicate(a, b), "same calendar day matches regardless of time")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "taxi to airport", normalize("  Taxi\tto   AIRPORT "))
	assert.Equal(t, "", normalize("   "))
}

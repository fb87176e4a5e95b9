package expense

import (
	"math"
	"strings"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
)

// Matching thresholds. Exported so a future policy surface can own them.
const (
	// AmountTolerance is the relative difference under which two amounts
	// are considered the same charge.
	AmountTolerance = 0.05
)

// FindDuplicates returns the entries in existing that look like the same
// charge as candidate: same currency, same calendar day, amounts within
// AmountTolerance, and an exact match on the normalized description.
func FindDuplicates(candidate models.Expense, existing []models.Expense) []models.Expense {
	var dups []models.Expense
	for _, e := range existing {
		if e.ID == candidate.ID {
			continue
		}
		if isDuplicate(candidate, e) {
			dups = append(dups, e)
		}
	}
	return dups
}

func isDuplicate(a, b models.Expense) bool {
	if !strings.EqualFold(a.Currency, b.Currency) {
		return false
	}
	ay, am, ad := a.Date.Date()
	by, bm, bd := b.Date.Date()
	if ay != by || am != bm || ad != bd {
		return false
	}
	if !amountsClose(a.Amount, b.Amount) {
		return false
	}
	return normalize(a.Description) == normalize(b.Description)
}

func amountsClose(a, b float64) bool {
	if a == b {
		return true
	}
	larger := math.Max(math.Abs(a), math.Abs(b))
	if larger == 0 {
		return true
	}
	return math.Abs(a-b)/larger <= AmountTolerance
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

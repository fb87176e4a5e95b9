package expense

import (
	"net/http"

	matching "github.com/TripDesk-Travel/Attachment-Service/internal/expense"
	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
	"github.com/gin-gonic/gin"
)

type duplicateRequest struct {
	Candidate models.Expense   `json:"candidate" binding:"required"`
	Existing  []models.Expense `json:"existing"`
}

// CheckDuplicate flags expense entries that look like the same charge as
// the candidate. The reporting flow sends the report's existing entries
// along with the one being added.
func CheckDuplicate(c *gin.Context) {
	if _, ok := c.Get("user_id"); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req duplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidate expense is required"})
		return
	}

	dups := matching.FindDuplicates(req.Candidate, req.Existing)
	c.JSON(http.StatusOK, gin.H{
		"duplicates": dups,
		"count":      len(dups),
	})
}

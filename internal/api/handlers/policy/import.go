package policy

import (
	"io"
	"net/http"
	"time"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
	"github.com/TripDesk-Travel/Attachment-Service/internal/policyimport"
	"github.com/TripDesk-Travel/Attachment-Service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// maxImportSize caps policy documents; they are small office files.
const maxImportSize = 20 << 20

// Import parses an uploaded policy document (xlsx, csv, docx, or pdf) into
// rule rows. With dry_run=true only the parse result is returned; otherwise
// every valid row is inserted and invalid rows are echoed back with their
// errors so the user can fix and retry the file.
func Import(c *gin.Context) {
	if _, ok := c.Get("user_id"); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	if fh.Size > maxImportSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large: " + fh.Filename})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read " + fh.Filename})
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read " + fh.Filename})
		return
	}

	rules, err := policyimport.Extract(c.Request.Context(), fh.Filename, data, services.GetFunctionsClient())
	if err != nil {
		// The import dialog lets the user go back to the upload step and retry.
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not extract: " + err.Error()})
		return
	}

	dryRun := c.Query("dry_run") == "true"
	imported := 0
	if !dryRun {
		for _, rule := range rules {
			if !rule.IsValid {
				continue
			}
			err := services.SavePolicyRule(models.PolicyRule{
				ID:          uuid.New().String(),
				Category:    rule.Category,
				MaxAmount:   rule.MaxAmount,
				Currency:    rule.Currency,
				Per:         rule.Per,
				Description: rule.Description,
				Source:      "import",
				CreatedAt:   time.Now(),
			})
			if err != nil {
				log.Errorf("[IMPORT] failed to save rule from row %d: %v", rule.RowNumber, err)
				continue
			}
			imported++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"rules":    rules,
		"imported": imported,
		"dry_run":  dryRun,
	})
}

// ListRules returns the persisted policy rules.
func ListRules(c *gin.Context) {
	if _, ok := c.Get("user_id"); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	rules, err := services.ListPolicyRules()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch policy rules"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/TripDesk-Travel/Attachment-Service/internal/services"
	"github.com/gin-gonic/gin"
)

// invokableFunctions is the allow-list for the passthrough endpoint. The
// extraction functions are reachable only through the import flow.
var invokableFunctions = map[string]bool{
	services.FnApprovalWorkflow: true,
	services.FnCreateUser:       true,
	services.FnResetPassword:    true,
	services.FnExchangeRates:    true,
	services.FnBootstrapToken:   true,
}

// InvokeFunction forwards a request to a named server-side function, e.g.
// the approval workflow after a report transition. Calls are awaited under
// the bounded default timeout.
func InvokeFunction(c *gin.Context) {
	if _, ok := c.Get("user_id"); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	name := c.Param("name")
	if !invokableFunctions[name] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown function"})
		return
	}

	fns := services.GetFunctionsClient()
	if fns == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "functions client not available"})
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		body = map[string]interface{}{}
	}

	result, err := fns.Invoke(c.Request.Context(), name, body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "function call failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": json.RawMessage(result)})
}

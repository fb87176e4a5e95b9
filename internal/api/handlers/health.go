package handlers

import (
	"net/http"

	"github.com/TripDesk-Travel/Attachment-Service/internal/services"
	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	storage := "ok"
	if m := services.GetMinioService(); m == nil || m.CheckConnection() != nil {
		storage = "unavailable"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"storage": storage,
	})
}

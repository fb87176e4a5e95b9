package api

import (
	"github.com/TripDesk-Travel/Attachment-Service/cmd/middleware"
	"github.com/TripDesk-Travel/Attachment-Service/internal/api/handlers"
	"github.com/TripDesk-Travel/Attachment-Service/internal/api/handlers/attachment"
	"github.com/TripDesk-Travel/Attachment-Service/internal/api/handlers/expense"
	"github.com/TripDesk-Travel/Attachment-Service/internal/api/handlers/policy"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, PATCH, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	}
}

func RegisterRoutes(r *gin.Engine, h *attachment.Handler) {
	// Enable CORS for preflight requests
	r.Use(corsMiddleware())
	r.Use(gintrace.Middleware("attachment-service"))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
	}

	authed := r.Group("/api")
	authed.Use(middleware.RequireAuth())
	{
		// Attachment endpoints
		authed.POST("/trips/:tripId/attachments", h.Upload) // upload immediately
		authed.GET("/trips/:tripId/attachments", h.List)    // list with display URLs
		authed.POST("/trips/:tripId/links", h.CreateLink)   // insert a link row
		authed.DELETE("/attachments/:id", h.Delete)         // object + row together

		// Staging endpoints (no trip id yet)
		authed.POST("/staging/:session/files", h.StageFiles)
		authed.POST("/staging/:session/links", h.StageLink)
		authed.DELETE("/staging/:session/files/:index", h.UnstageFile)
		authed.DELETE("/staging/:session/links/:index", h.UnstageLink)
		authed.GET("/staging/:session", h.StagingSnapshot)
		authed.POST("/staging/:session/upload-all", h.UploadAll)

		authed.GET("/uploads/progress", h.Progress)

		// Policy rules
		authed.POST("/policy/import", policy.Import)
		authed.GET("/policy/rules", policy.ListRules)

		// Expense helpers
		authed.POST("/expenses/check-duplicate", expense.CheckDuplicate)

		// Named server-side functions
		authed.POST("/functions/:name", handlers.InvokeFunction)
	}
}

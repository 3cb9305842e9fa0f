package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/reportmitra/admin-hub/internal/auth"
	"github.com/reportmitra/admin-hub/internal/handlers"
)

// SetupIssueRoutes sets up the issue workflow routes. All of them require
// authentication; department scoping happens in the service layer.
func SetupIssueRoutes(router *gin.RouterGroup, h *handlers.IssueHandler) {
	issues := router.Group("/v1/issues")
	issues.Use(auth.JWTMiddleware())
	{
		// GET /api/v1/issues
		issues.GET("", h.ListIssues)
		// GET /api/v1/issues/:tracking_id
		issues.GET("/:tracking_id", h.GetIssue)
		// PATCH /api/v1/issues/:tracking_id/status
		issues.PATCH("/:tracking_id/status", h.UpdateStatus)
		// PATCH /api/v1/issues/:tracking_id/resolve
		issues.PATCH("/:tracking_id/resolve", h.ResolveIssue)
		// GET /api/v1/issues/:tracking_id/pdf
		issues.GET("/:tracking_id/pdf", h.ExportBriefing)
	}
}

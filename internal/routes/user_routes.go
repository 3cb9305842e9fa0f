package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/reportmitra/admin-hub/internal/auth"
	"github.com/reportmitra/admin-hub/internal/handlers"
)

// SetupUserRoutes sets up account management (root only), the audit view
// (root only), and the presigned-upload endpoint (all staff).
func SetupUserRoutes(router *gin.RouterGroup, h *handlers.UserHandler) {
	apiV1 := router.Group("/v1")
	apiV1.Use(auth.JWTMiddleware())
	{
		// POST /api/v1/uploads/presign
		apiV1.POST("/uploads/presign", h.PresignUpload)

		rootOnly := apiV1.Group("")
		rootOnly.Use(auth.RequireRoot())
		{
			// POST /api/v1/users
			rootOnly.POST("/users", h.CreateUser)
			// GET /api/v1/users
			rootOnly.GET("/users", h.ListUsers)
			// DELETE /api/v1/users/:user_id
			rootOnly.DELETE("/users/:user_id", h.DeleteUser)
			// PATCH /api/v1/users/:user_id/toggle-status
			rootOnly.PATCH("/users/:user_id/toggle-status", h.ToggleUserStatus)
			// GET /api/v1/activity-logs
			rootOnly.GET("/activity-logs", h.ActivityLogs)
		}
	}
}

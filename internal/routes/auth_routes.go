package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reportmitra/admin-hub/internal/auth"
	"github.com/reportmitra/admin-hub/internal/handlers"
)

const (
	// Login attempts allowed per client IP per window.
	loginRateLimit  = 10
	loginRateWindow = 15 * time.Minute
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(router *gin.RouterGroup, h *handlers.AuthHandler) {
	apiV1 := router.Group("/v1")
	{
		// Public auth routes.
		publicAuthGroup := apiV1.Group("/auth")
		{
			// POST /api/v1/auth/login
			publicAuthGroup.POST("/login", auth.LoginRateLimiter(loginRateLimit, loginRateWindow), h.Login)
		}

		// Protected auth routes.
		protectedAuthGroup := apiV1.Group("/auth")
		protectedAuthGroup.Use(auth.JWTMiddleware())
		{
			// POST /api/v1/auth/logout
			protectedAuthGroup.POST("/logout", h.Logout)
			// GET /api/v1/auth/me
			protectedAuthGroup.GET("/me", h.Me)
		}
	}
}

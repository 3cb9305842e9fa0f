package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/reportmitra/admin-hub/configs"
	_ "github.com/reportmitra/admin-hub/docs" // swagger spec registration
	"github.com/reportmitra/admin-hub/internal/handlers"
)

// SetupRoutes initializes all routes and cross-cutting middleware.
func SetupRoutes(router *gin.Engine, authHandler *handlers.AuthHandler, issueHandler *handlers.IssueHandler, userHandler *handlers.UserHandler) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{configs.AppConfig.FrontendBaseURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	SetupAuthRoutes(api, authHandler)
	SetupIssueRoutes(api, issueHandler)
	SetupUserRoutes(api, userHandler)
}

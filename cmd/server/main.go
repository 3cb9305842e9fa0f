package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/reportmitra/admin-hub/configs"
	"github.com/reportmitra/admin-hub/internal/handlers"
	"github.com/reportmitra/admin-hub/internal/repositories"
	"github.com/reportmitra/admin-hub/internal/routes"
	"github.com/reportmitra/admin-hub/internal/services"
	"github.com/reportmitra/admin-hub/pkg/db"
	"github.com/reportmitra/admin-hub/pkg/storage"
)

// @title ReportMitra Admin Hub API
// @version 1.0
// @description Administration backend for the ReportMitra civic issue-reporting platform.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	configs.LoadConfig()

	db.InitDB()
	defer db.CloseDB()
	db.InitRedis()

	signer, err := storage.NewSigner(storage.Config{
		Bucket:          configs.AppConfig.AWSBucket,
		Region:          configs.AppConfig.AWSRegion,
		AccessKeyID:     configs.AppConfig.AWSAccessKeyID,
		SecretAccessKey: configs.AppConfig.AWSSecretAccessKey,
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage signer: %v", err)
	}

	activityRepo := repositories.NewGormActivityLogRepository(db.GetDB())
	userRepo := repositories.NewGormUserRepository(db.GetDB())
	issueRepo := repositories.NewGormIssueRepository(db.GetDB())

	activityService := services.NewActivityLogService(activityRepo)
	userService := services.NewUserService(userRepo, activityService)
	issueService := services.NewIssueService(issueRepo, signer, activityService)

	authHandler := handlers.NewAuthHandler(userService, activityService)
	issueHandler := handlers.NewIssueHandler(issueService, configs.AppConfig.FrontendBaseURL)
	userHandler := handlers.NewUserHandler(userService, activityService, signer)

	router := gin.Default()
	routes.SetupRoutes(router, authHandler, issueHandler, userHandler)

	port := configs.AppConfig.ServerPort
	log.Printf("Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

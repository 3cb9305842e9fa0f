package configs

import (
	"log"
	"os"
	"sync"
)

// AppConfig holds the application configuration.
// It's populated once by LoadConfig.
var AppConfig Configuration
var once sync.Once

// Configuration defines the structure for application settings.
type Configuration struct {
	JWTSecret       string
	ServerPort      string
	FrontendBaseURL string

	// Object storage settings for issue evidence. The bucket may legitimately
	// be empty in development; the storage signer reports a configuration
	// error when a presign is attempted without one.
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	AWSBucket          string

	// Redis backs the login rate limiter. An empty address disables it.
	RedisAddr     string
	RedisPassword string
}

const (
	defaultJWTSecret       = "admin-hub"             // Default JWT secret, used if env var is not set.
	envJWTSecretKey        = "JWT_SECRET_KEY"        // Environment variable name for the JWT secret.
	defaultServerPort      = "8080"                  // Default server port.
	envServerPortKey       = "SERVER_PORT"           // Environment variable name for the server port.
	defaultFrontendBaseURL = "http://localhost:3000" // Default frontend base URL, used for CORS and QR links.
	envFrontendBaseURLKey  = "FRONTEND_BASE_URL"     // Environment variable name for the frontend base URL.

	envAWSAccessKeyID     = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	envAWSRegion          = "AWS_S3_REGION_NAME"
	envAWSBucket          = "AWS_STORAGE_BUCKET_NAME"

	envRedisAddr     = "REDIS_ADDRESS"
	envRedisPassword = "REDIS_PASSWORD"
)

// LoadConfig loads configuration from environment variables or defaults.
// It should be called once at application startup.
func LoadConfig() {
	once.Do(func() {
		jwtSecret := os.Getenv(envJWTSecretKey)
		if jwtSecret == "" {
			jwtSecret = defaultJWTSecret
			log.Printf("Warning: %s is not set. Using the default JWT secret. Set this variable in production.", envJWTSecretKey)
		}

		serverPort := os.Getenv(envServerPortKey)
		if serverPort == "" {
			serverPort = defaultServerPort
			log.Printf("Info: %s is not set. Using default port %s.", envServerPortKey, defaultServerPort)
		}

		frontendBaseURL := os.Getenv(envFrontendBaseURLKey)
		if frontendBaseURL == "" {
			frontendBaseURL = defaultFrontendBaseURL
			log.Printf("Info: %s is not set. Using default frontend URL %s. This is likely wrong in production.", envFrontendBaseURLKey, defaultFrontendBaseURL)
		}

		bucket := os.Getenv(envAWSBucket)
		if bucket == "" {
			log.Printf("Warning: %s is not set. Presigned storage URLs will be unavailable.", envAWSBucket)
		}

		AppConfig = Configuration{
			JWTSecret:       jwtSecret,
			ServerPort:      serverPort,
			FrontendBaseURL: frontendBaseURL,

			AWSAccessKeyID:     os.Getenv(envAWSAccessKeyID),
			AWSSecretAccessKey: os.Getenv(envAWSSecretAccessKey),
			AWSRegion:          os.Getenv(envAWSRegion),
			AWSBucket:          bucket,

			RedisAddr:     os.Getenv(envRedisAddr),
			RedisPassword: os.Getenv(envRedisPassword),
		}

		log.Println("Application configuration loaded.")
	})
}

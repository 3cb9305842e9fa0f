package db

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reportmitra/admin-hub/configs"
)

const redisPingTimeout = 5 * time.Second

var redisClient *redis.Client

// InitRedis connects the Redis client used by the login rate limiter.
// Redis is optional: when REDIS_ADDRESS is unset the client stays nil and
// rate limiting is disabled.
func InitRedis() {
	addr := configs.AppConfig.RedisAddr
	if addr == "" {
		log.Println("REDIS_ADDRESS not set, login rate limiting disabled.")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: configs.AppConfig.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis at %s: %v", addr, err)
	}

	redisClient = client
	log.Printf("Connected to Redis at %s", addr)
}

// GetRedis returns the Redis client, or nil when Redis is not configured.
func GetRedis() *redis.Client {
	return redisClient
}

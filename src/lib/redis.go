package lib

import (
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// GetRedisClient returns the shared client, nil when REDIS_URL is unset.
// Callers treat a nil client as "cache disabled".
func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("invalid REDIS_URL: %s\n", err)
		return nil
	}
	redisClient = redis.NewClient(opts)
	return redisClient
}

func NewRedisClient(client *redis.Client) {
	redisClient = client
}

package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the cache client from the environment. Returns nil
// when no address is configured or the server is unreachable; callers must
// degrade gracefully (the booked-seats cache is display-only).
func NewRedisClient(env Env) *redis.Client {
	if env.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable at %s, continuing without cache: %v", env.RedisAddr, err)
		_ = client.Close()
		return nil
	}
	return client
}

package database

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis creates the Redis client used as the score cache. Redis is
// optional: if the ping fails the server runs without a cache and scoring
// falls back to the persisted values.
func ConnectRedis(addr string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis unavailable (%v), score caching disabled", err)
		return nil
	}
	log.Println("Redis connection established")
	return rdb
}

package config

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var redisDb *redis.Client
var redisLocker *redislock.Client

func GetRedisDb() *redis.Client {
	return redisDb
}

// GetRedisLocker returns the distributed lock client, or nil when redis is
// not connected yet. Callers must handle nil.
func GetRedisLocker() *redislock.Client {
	return redisLocker
}

// ConnectRedisWithRetry connects and sets the global redis client.
// Call this from main() AFTER the HTTP server is listening.
func ConnectRedisWithRetry() {
	addr := os.Getenv("REDIS_HOST")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	var attempt int
	for {
		attempt++
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err == nil {
			redisDb = client
			redisLocker = redislock.New(client)
			log.Printf("connected to redis (attempt=%d)", attempt)
			return
		}

		sleep := time.Second * time.Duration(1<<minInt(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		log.Printf("failed to connect redis (attempt=%d): %v; retrying in %s", attempt, err, sleep)
		time.Sleep(sleep)
	}
}

func GetRedisValue(ctx context.Context, key string) (string, error) {
	return redisDb.Get(ctx, key).Result()
}

func SetRedisValue(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return redisDb.Set(ctx, key, value, expiration).Err()
}

func GetRedisObject(ctx context.Context, key string, dest interface{}) error {
	raw, err := redisDb.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), dest)
}

func SetRedisObject(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return redisDb.Set(ctx, key, raw, expiration).Err()
}

func AddRedisSet(ctx context.Context, key string, members ...interface{}) error {
	return redisDb.SAdd(ctx, key, members...).Err()
}

func GetRedisSetMembers(ctx context.Context, key string) ([]string, error) {
	return redisDb.SMembers(ctx, key).Result()
}

func RemoveRedisSetMember(ctx context.Context, key string, members ...interface{}) error {
	return redisDb.SRem(ctx, key, members...).Err()
}

func RemoveRedisKey(ctx context.Context, key string) error {
	return redisDb.Del(ctx, key).Err()
}

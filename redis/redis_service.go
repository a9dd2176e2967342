package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Service handles all Redis-related operations
type Service struct {
	client *redis.Client
	ctx    context.Context
}

// getRedisConfig gets Redis configuration from environment variables
func getRedisConfig() (string, string, int) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "localhost:6379"
	}

	password := os.Getenv("REDIS_PASSWORD")

	dbStr := os.Getenv("REDIS_DB")
	db := 0
	if dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			db = dbInt
		}
	}

	return url, password, db
}

// NewService creates a new Redis service instance
func NewService() *Service {
	url, password, db := getRedisConfig()

	client := redis.NewClient(&redis.Options{
		Addr:     url,
		Password: password,
		DB:       db,
		// Connection pool settings
		PoolSize:     10,
		MinIdleConns: 5,
		// Timeout settings
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx := context.Background()

	// Test the connection
	_, err := client.Ping(ctx).Result()
	if err != nil {
		// Silent fail - Redis might not be available
	}

	return &Service{
		client: client,
		ctx:    ctx,
	}
}

// Close closes the Redis connection
func (r *Service) Close() error {
	return r.client.Close()
}

// Set stores a key-value pair in Redis
func (r *Service) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %v", err)
	}

	return r.client.Set(r.ctx, key, jsonValue, expiration).Err()
}

// Get retrieves a value from Redis and unmarshals it into dest
func (r *Service) Get(key string, dest interface{}) error {
	val, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete removes a key from Redis
func (r *Service) Delete(key string) error {
	return r.client.Del(r.ctx, key).Err()
}

// GetClient returns the underlying Redis client
func (r *Service) GetClient() *redis.Client {
	return r.client
}

// GetContext returns the Redis context
func (r *Service) GetContext() context.Context {
	return r.ctx
}

// CacheCandidates stores a user's latest candidate-discovery results
func (r *Service) CacheCandidates(userID string, candidates interface{}, expiration time.Duration) error {
	return r.Set(fmt.Sprintf("candidates:%s", userID), candidates, expiration)
}

// GetCandidates retrieves a user's cached candidate-discovery results
func (r *Service) GetCandidates(userID string, dest interface{}) error {
	return r.Get(fmt.Sprintf("candidates:%s", userID), dest)
}

// InvalidateCandidates drops a user's cached candidate results
func (r *Service) InvalidateCandidates(userID string) error {
	return r.Delete(fmt.Sprintf("candidates:%s", userID))
}

// SetLastActive mirrors a user's last-active timestamp. Best effort only,
// MongoDB remains the source of truth.
func (r *Service) SetLastActive(userID string, t time.Time) error {
	return r.client.Set(r.ctx, fmt.Sprintf("lastactive:%s", userID), t.UTC().Format(time.RFC3339), 7*24*time.Hour).Err()
}

// GetLastActive reads a user's mirrored last-active timestamp
func (r *Service) GetLastActive(userID string) (time.Time, error) {
	val, err := r.client.Get(r.ctx, fmt.Sprintf("lastactive:%s", userID)).Result()
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, val)
}

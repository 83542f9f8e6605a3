// Package session provides the Redis-backed session storage backend.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sprout/api/internal/store"
)

// sessionData holds the data stored for each session id
type sessionData struct {
	UserID    int64     `json:"user_id"`
	PublicID  string    `json:"public_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisStore implements session storage using Redis. It keeps the user
// snapshot in the value so lookups never touch Postgres, and leans on Redis
// TTLs for expiry instead of an expires_at check.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed session store
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		prefix: "session:",
	}, nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:",
	}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// CreateSession stores a session with expiration
func (s *RedisStore) CreateSession(ctx context.Context, sessionID string, user store.SessionUser, expiresAt time.Time) error {
	data := sessionData{
		UserID:    user.UserID,
		PublicID:  user.PublicID,
		Email:     user.Email,
		CreatedAt: time.Now(),
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal session data: %w", err)
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	if err := s.client.Set(ctx, s.key(sessionID), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// LookupSession retrieves a session and returns the user it belongs to
func (s *RedisStore) LookupSession(ctx context.Context, sessionID string) (store.SessionUser, error) {
	jsonData, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return store.SessionUser{}, fmt.Errorf("session not found or expired")
	}
	if err != nil {
		return store.SessionUser{}, fmt.Errorf("lookup session: %w", err)
	}

	var data sessionData
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return store.SessionUser{}, fmt.Errorf("unmarshal session data: %w", err)
	}

	return store.SessionUser{
		UserID:   data.UserID,
		PublicID: data.PublicID,
		Email:    data.Email,
	}, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

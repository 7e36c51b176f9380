// Package history contains implementations of the recent-notification store
// backing the read API. Broadcast delivery itself is best-effort; the store
// only keeps a bounded window of recent events.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/Beastbaba/Gateguide/pkg/assist"
)

// historyKey is the Redis list holding the window, newest on the left.
const historyKey = "notifications:recent"

// redisClient defines the interface we need from go-redis.
type redisClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// RedisHistory implements assist.History as a capped Redis list.
type RedisHistory struct {
	client     redisClient
	maxEntries int64
	logger     *slog.Logger
}

// NewRedisHistory is the constructor for the RedisHistory.
func NewRedisHistory(client redisClient, maxEntries int, logger *slog.Logger) (*RedisHistory, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if maxEntries <= 0 {
		return nil, fmt.Errorf("maxEntries must be positive, got %d", maxEntries)
	}
	return &RedisHistory{
		client:     client,
		maxEntries: int64(maxEntries),
		logger:     logger.With("component", "redis_history"),
	}, nil
}

// Append pushes the notification onto the head of the list and trims the
// window back to its cap.
func (s *RedisHistory) Append(ctx context.Context, n assist.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := s.client.LPush(ctx, historyKey, payload).Err(); err != nil {
		s.logger.Error("Failed to lpush notification", "key", historyKey, "err", err)
		return fmt.Errorf("failed to lpush notification: %w", err)
	}
	if err := s.client.LTrim(ctx, historyKey, 0, s.maxEntries-1).Err(); err != nil {
		s.logger.Warn("Failed to trim history window", "key", historyKey, "err", err)
	}
	return nil
}

// Recent returns up to limit notifications, newest first. Entries that fail
// to unmarshal are skipped, not returned as errors.
func (s *RedisHistory) Recent(ctx context.Context, limit int) ([]assist.Notification, error) {
	if limit <= 0 || int64(limit) > s.maxEntries {
		limit = int(s.maxEntries)
	}

	payloads, err := s.client.LRange(ctx, historyKey, 0, int64(limit)-1).Result()
	if err != nil {
		s.logger.Error("Failed to read history window", "key", historyKey, "err", err)
		return nil, fmt.Errorf("failed to read history window: %w", err)
	}

	notifications := make([]assist.Notification, 0, len(payloads))
	for _, payload := range payloads {
		var n assist.Notification
		if err := json.Unmarshal([]byte(payload), &n); err != nil {
			s.logger.Warn("Skipping malformed history entry", "err", err)
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

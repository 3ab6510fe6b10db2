package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SafeNavigationEvent is the category used for page views inside a safe.
	SafeNavigationEvent = "Safe Navigation"
	// DefaultListKey is the Redis list events are appended to.
	DefaultListKey = "analytics:events"
)

// Event is a single telemetry record.
type Event struct {
	Category string `json:"category"`
	Action   string `json:"action"`
}

// Tracker delivers events to a telemetry backend.
type Tracker interface {
	Track(ctx context.Context, event Event) error
}

// LoggerTracker writes events to the structured logger.
type LoggerTracker struct {
	logger *slog.Logger
}

// NewLoggerTracker constructs a logging tracker.
func NewLoggerTracker(logger *slog.Logger) *LoggerTracker {
	return &LoggerTracker{logger: logger}
}

// Track logs the event.
func (t *LoggerTracker) Track(_ context.Context, event Event) error {
	if t == nil || t.logger == nil {
		return nil
	}
	t.logger.Info("analytics event", "category", event.Category, "action", event.Action)
	return nil
}

// RedisTracker appends events as JSON onto a Redis list for a downstream
// consumer to drain.
type RedisTracker struct {
	cache *redis.Client
	key   string
}

// NewRedisTracker builds a tracker writing to the given list key.
func NewRedisTracker(cache *redis.Client, key string) *RedisTracker {
	if key == "" {
		key = DefaultListKey
	}
	return &RedisTracker{cache: cache, key: key}
}

type storedEvent struct {
	Event
	At time.Time `json:"at"`
}

// Track pushes the event onto the list.
func (t *RedisTracker) Track(ctx context.Context, event Event) error {
	payload, err := json.Marshal(storedEvent{Event: event, At: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := t.cache.RPush(ctx, t.key, payload).Err(); err != nil {
		return fmt.Errorf("push event: %w", err)
	}
	return nil
}

// Fire sends an event without blocking the caller. Errors and panics from the
// tracker are logged and never reach the caller.
func Fire(tracker Tracker, event Event, timeout time.Duration, logger *slog.Logger) {
	if tracker == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil && logger != nil {
				logger.Error("analytics tracker panicked", slog.Any("panic", r))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := tracker.Track(ctx, event); err != nil && logger != nil {
			logger.Warn("analytics event dropped",
				slog.String("category", event.Category),
				slog.String("action", event.Action),
				slog.Any("error", err),
			)
		}
	}()
}

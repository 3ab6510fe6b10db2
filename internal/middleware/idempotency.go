package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	idempotencyPrefix    = "assets:idempotency:v1:"
	inProgressMarker     = "__in_progress__"
	cacheOpTimeout       = 2 * time.Second
)

type replay struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

// Idempotency replays the first response recorded for an Idempotency-Key on
// unsafe methods. Keys are scoped by method and path, so a key reused on a
// different endpoint is a new request. A request without the header is
// rejected when required is true and passed through otherwise. Error
// responses are not recorded.
func Idempotency(cache *redis.Client, ttl time.Duration, required bool, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch strings.ToUpper(c.Method()) {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		key := strings.TrimSpace(c.Get(idempotencyKeyHeader))
		if key == "" {
			if required {
				return fiber.NewError(fiber.StatusBadRequest, "missing Idempotency-Key header")
			}
			return c.Next()
		}
		cacheKey := idempotencyPrefix + c.Method() + ":" + c.Path() + ":" + key
		log := logger.With(slog.String("idempotency_key", key), slog.String("path", c.Path()))

		ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
		defer cancel()

		reserved, err := cache.SetNX(ctx, cacheKey, inProgressMarker, ttl).Result()
		if err != nil {
			log.Error("idempotency reservation failed", slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
		}
		if !reserved {
			return replayStored(c, cache, cacheKey, log)
		}

		release := func() {
			ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
			defer cancel()
			cache.Del(ctx, cacheKey)
		}

		if err := c.Next(); err != nil {
			release()
			return err
		}
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			release()
			return nil
		}

		payload, err := json.Marshal(replay{
			Status:      c.Response().StatusCode(),
			ContentType: string(c.Response().Header.ContentType()),
			Body:        string(c.Response().Body()),
		})
		if err != nil {
			log.Error("encode idempotent response", slog.Any("error", err))
			release()
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency persistence failure")
		}

		persistCtx, persistCancel := context.WithTimeout(context.Background(), cacheOpTimeout)
		defer persistCancel()
		if err := cache.Set(persistCtx, cacheKey, payload, ttl).Err(); err != nil {
			log.Error("persist idempotent response", slog.Any("error", err))
			release()
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency persistence failure")
		}
		return nil
	}
}

func replayStored(c *fiber.Ctx, cache *redis.Client, cacheKey string, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()

	cached, err := cache.Get(ctx, cacheKey).Result()
	if errors.Is(err, redis.Nil) {
		return fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
	}
	if err != nil {
		log.Error("idempotency lookup failed", slog.Any("error", err))
		return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
	}
	if cached == inProgressMarker {
		return fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
	}

	var stored replay
	if err := json.Unmarshal([]byte(cached), &stored); err != nil {
		log.Warn("decode stored idempotent response", slog.Any("error", err))
		return fiber.NewError(fiber.StatusConflict, "duplicate request")
	}
	if stored.ContentType != "" {
		c.Set(fiber.HeaderContentType, stored.ContentType)
	}
	c.Set("Idempotent-Replayed", "true")
	return c.Status(stored.Status).SendString(stored.Body)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName           = "SafeAssets"
	defaultAppEnv            = "development"
	defaultPort              = "8080"
	defaultLogLevel          = "info"
	defaultLogFormat         = "json"
	defaultShutdownDelay     = 10 * time.Second
	defaultIdempotencyTTL    = 24 * time.Hour
	defaultSessionTTL        = 30 * time.Minute
	defaultAnalyticsListKey  = "analytics:events"
	defaultDispatchRateLimit = 120
	idemTTLSecondsEnvVar     = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar         = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar    = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar   = "SHUTDOWN_TIMEOUT"
	sessionTTLEnvVar         = "SESSION_TTL"
	dispatchRateEnvVar       = "DISPATCH_RATE_LIMIT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName           string
	AppEnv            string
	Port              string
	LogLevel          string
	LogFormat         string
	DatabaseURL       string
	RedisURL          string
	SeedFile          string
	SafeAddress       string
	AnalyticsListKey  string
	DispatchRateLimit int
	ShutdownPeriod    time.Duration
	IdempotencyTTL    time.Duration
	SessionTTL        time.Duration
}

// Load reads an optional .env file, then the environment, and populates a
// Config instance. Outside development both DATABASE_URL and REDIS_URL are
// required.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		AppName:           getEnv("APP_NAME", defaultAppName),
		AppEnv:            getEnv("APP_ENV", defaultAppEnv),
		Port:              getEnv("PORT", defaultPort),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		LogFormat:         strings.ToLower(getEnv("LOG_FORMAT", defaultLogFormat)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		SeedFile:          os.Getenv("SEED_FILE"),
		SafeAddress:       os.Getenv("SAFE_ADDRESS"),
		AnalyticsListKey:  getEnv("ANALYTICS_LIST_KEY", defaultAnalyticsListKey),
		DispatchRateLimit: defaultDispatchRateLimit,
		ShutdownPeriod:    defaultShutdownDelay,
		IdempotencyTTL:    defaultIdempotencyTTL,
		SessionTTL:        defaultSessionTTL,
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if v := os.Getenv(sessionTTLEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", sessionTTLEnvVar, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("invalid %s: must be positive", sessionTTLEnvVar)
		}
		cfg.SessionTTL = d
	}
	if v := os.Getenv(dispatchRateEnvVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", dispatchRateEnvVar, err)
		}
		cfg.DispatchRateLimit = n
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return Config{}, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// IsDev reports whether the service runs in a local development mode, where
// PostgreSQL and Redis are optional.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// durationEnv reads a whole-seconds variable first, then a Go duration.
func durationEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port      string `validate:"required"`
	JWTSecret string `validate:"required"`

	PlatformAPIURL     string `validate:"required,url"`
	PlatformAPITimeout time.Duration

	RedisAddr string `validate:"required"`
	CacheTTL  time.Duration

	// CalendarTimezone is the IANA zone used for every calendar-day
	// decision (income windows, claim gating). Defaults to UTC to match
	// the platform's settlement day.
	CalendarTimezone *time.Location

	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "secret-key"),
		PlatformAPIURL: getEnv("PLATFORM_API_URL", "http://localhost:9000/api"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
	}

	timeout, err := time.ParseDuration(getEnv("PLATFORM_API_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PLATFORM_API_TIMEOUT: %w", err)
	}
	cfg.PlatformAPITimeout = timeout

	ttl, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	loc, err := time.LoadLocation(getEnv("CALENDAR_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid CALENDAR_TIMEZONE: %w", err)
	}
	cfg.CalendarTimezone = loc

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	cfg.RateLimitRPS = rps

	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	cfg.RateLimitBurst = burst

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config carries process-level settings, loaded from the environment.
type Config struct {
	Environment string
	ListenAddr  string

	DatabaseDSN string
	RedisAddr   string

	EntitlementCacheTTL time.Duration

	RateLimits RateLimits
}

// RateLimits holds the per-operation fixed-window budgets.
type RateLimits struct {
	Render       Limit
	Validate     Limit
	List         Limit
	Subscription Limit
}

type Limit struct {
	MaxRequests int
	Window      time.Duration
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from the environment. A .env file is honored when
// present so local runs do not need exported variables.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:         getEnv("APP_ENV", "development"),
		ListenAddr:          getEnv("LISTEN_ADDR", ":8080"),
		DatabaseDSN:         getEnv("DATABASE_DSN", "file:invoicegen.db?_pragma=foreign_keys(1)"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		EntitlementCacheTTL: getDuration("ENTITLEMENT_CACHE_TTL", 30*time.Second),
		RateLimits: RateLimits{
			Render:       Limit{getInt("RATE_LIMIT_RENDER", 30), getDuration("RATE_LIMIT_RENDER_WINDOW", time.Minute)},
			Validate:     Limit{getInt("RATE_LIMIT_VALIDATE", 60), getDuration("RATE_LIMIT_VALIDATE_WINDOW", time.Minute)},
			List:         Limit{getInt("RATE_LIMIT_LIST", 60), getDuration("RATE_LIMIT_LIST_WINDOW", time.Minute)},
			Subscription: Limit{getInt("RATE_LIMIT_SUBSCRIPTION", 20), getDuration("RATE_LIMIT_SUBSCRIPTION_WINDOW", time.Minute)},
		},
	}
	return cfg, nil
}

var Module = fx.Module("config",
	fx.Provide(Load),
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

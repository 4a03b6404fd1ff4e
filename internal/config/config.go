package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the shopdash server.
type Config struct {
	Server    ServerConfig
	ShopAPI   ShopAPIConfig
	Refresh   RefreshConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Charts    ChartConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

// ShopAPIConfig points at the shop backend. A zero Timeout means requests
// are never cut short.
type ShopAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RefreshConfig struct {
	DashboardInterval time.Duration
	ForecastInterval  time.Duration
}

// DatabaseConfig is optional; without a URL the run journal is disabled.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsDir   string
}

// RedisConfig is optional; without a URL rate limiting is disabled.
type RedisConfig struct {
	URL string
}

type RateLimitConfig struct {
	PerMinute int
}

type ChartConfig struct {
	AssetsHost string
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("SHOPDASH_PORT", 8080),
			Env:  envString("SHOPDASH_ENV", "development"),
		},
		ShopAPI: ShopAPIConfig{
			BaseURL: strings.TrimRight(os.Getenv("SHOP_API_BASE_URL"), "/"),
			Timeout: envDuration("SHOP_API_TIMEOUT", 0),
		},
		Refresh: RefreshConfig{
			DashboardInterval: envDuration("DASHBOARD_REFRESH_INTERVAL", 5*time.Minute),
			ForecastInterval:  envDuration("FORECAST_REFRESH_INTERVAL", 5*time.Minute),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			MigrationsDir:   envString("DATABASE_MIGRATIONS_DIR", "migrations"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: envInt("RATE_LIMIT_PER_MINUTE", 60),
		},
		Charts: ChartConfig{
			AssetsHost: os.Getenv("ECHARTS_ASSETS_HOST"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ShopAPI.BaseURL == "" {
		return fmt.Errorf("SHOP_API_BASE_URL is required")
	}
	if !strings.HasPrefix(c.ShopAPI.BaseURL, "http://") && !strings.HasPrefix(c.ShopAPI.BaseURL, "https://") {
		return fmt.Errorf("SHOP_API_BASE_URL must start with http:// or https://, got %q", c.ShopAPI.BaseURL)
	}
	if c.ShopAPI.Timeout < 0 {
		return fmt.Errorf("SHOP_API_TIMEOUT must not be negative, got %s", c.ShopAPI.Timeout)
	}

	if c.Refresh.DashboardInterval <= 0 {
		return fmt.Errorf("DASHBOARD_REFRESH_INTERVAL must be positive, got %s", c.Refresh.DashboardInterval)
	}
	if c.Refresh.ForecastInterval <= 0 {
		return fmt.Errorf("FORECAST_REFRESH_INTERVAL must be positive, got %s", c.Refresh.ForecastInterval)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SHOPDASH_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimit.PerMinute)
	}

	return nil
}

// JournalEnabled reports whether a database is configured.
func (c *Config) JournalEnabled() bool {
	return c.Database.URL != ""
}

// RateLimitEnabled reports whether Redis is configured.
func (c *Config) RateLimitEnabled() bool {
	return c.Redis.URL != ""
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type ResponseCacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

type AppConfig struct {
	Port        string
	Environment string

	// Database. "sqlite" for local/dev, "postgres" when DatabaseURL is set.
	DatabaseDriver string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	// Shared rate-limit counters live in redis when set, in-process otherwise.
	RedisAddr string

	MetricsPort  string
	OTLPEndpoint string

	EnforceHTTPS bool

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	CacheEnabled bool
	CacheConfigs map[string]ResponseCacheConfig
}

// Load reads configs/config.yml plus TASKFLOW_* env overrides.
func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.AddConfigPath("configs")
	v.SetEnvPrefix("taskflow")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("environment", "development")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "taskflow.db")
	v.SetDefault("db.migrations", "db/migrations")
	v.SetDefault("metrics.port", "9091")
	v.SetDefault("otlp.endpoint", "localhost:4317")
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("cache.enabled", true)

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; defaults plus env carry a dev setup.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := defaults()
	cfg.Port = v.GetString("port")
	cfg.Environment = v.GetString("environment")
	cfg.DatabaseDriver = v.GetString("db.driver")
	cfg.DatabaseURL = v.GetString("db.url")
	cfg.DatabasePath = v.GetString("db.path")
	cfg.MigrationsPath = v.GetString("db.migrations")
	cfg.RedisAddr = v.GetString("redis.addr")
	cfg.MetricsPort = v.GetString("metrics.port")
	cfg.OTLPEndpoint = v.GetString("otlp.endpoint")
	cfg.RateLimitEnabled = v.GetBool("ratelimit.enabled")
	cfg.CacheEnabled = v.GetBool("cache.enabled")
	cfg.EnforceHTTPS = cfg.Environment == "production"

	if cfg.DatabaseURL != "" {
		cfg.DatabaseDriver = "postgres"
	}

	// The sqlite default DDL does not run on postgres.
	if cfg.DatabaseDriver == "postgres" && cfg.MigrationsPath == "db/migrations" {
		cfg.MigrationsPath = "infra/migrations"
	}

	return cfg, nil
}

func defaults() *AppConfig {
	return &AppConfig{
		Port:             "8080",
		Environment:      "development",
		DatabaseDriver:   "sqlite",
		DatabasePath:     "taskflow.db",
		MigrationsPath:   "db/migrations",
		MetricsPort:      "9091",
		OTLPEndpoint:     "localhost:4317",
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /register": {Requests: 5, Window: time.Minute},
			"POST /login":    {Requests: 10, Window: time.Minute},
			"GET /tasks":     {Requests: 100, Window: time.Minute},
			"POST /tasks":    {Requests: 20, Window: time.Minute},
		},
		CacheEnabled: true,
		CacheConfigs: map[string]ResponseCacheConfig{
			"/tasks": {TTL: 3 * time.Second, Enabled: true},
		},
	}
}

// GetDefaultConfig returns the built-in development configuration.
func GetDefaultConfig() *AppConfig {
	return defaults()
}

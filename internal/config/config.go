package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds configuration for the server.
type Config struct {
	HTTPPort  string `env:"HTTP_PORT" env-default:"8080"`
	JWTSecret string `env:"JWT_SECRET" env-default:"supersecretkey"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`

	Database DatabaseConfig
	Cache    CacheConfig
	Catalog  CatalogConfig
	Redis    RedisConfig
	Events   EventsConfig
	Keys     KeysConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"5m"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" env-default:"1m"`
}

// CacheConfig holds in-process cache settings.
type CacheConfig struct {
	ModelCacheSize int           `env:"CACHE_MODEL_SIZE" env-default:"500"`
	ModelCacheTTL  time.Duration `env:"CACHE_MODEL_TTL" env-default:"15m"`
}

// CatalogConfig holds settings for the remote model catalog.
type CatalogConfig struct {
	BaseURL string        `env:"CATALOG_BASE_URL" env-default:"https://raw.githubusercontent.com/vassovass/aisuite/main"`
	Timeout time.Duration `env:"CATALOG_TIMEOUT" env-default:"10s"`
}

// RedisConfig holds Redis connection settings for the event sink.
type RedisConfig struct {
	Address      string        `env:"REDIS_ADDRESS" env-default:""`
	Password     string        `env:"REDIS_PASSWORD" env-default:""`
	DB           int           `env:"REDIS_DB" env-default:"0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" env-default:"10"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" env-default:"3s"`
}

// EventsConfig controls the Redis-backed event sink buffer.
type EventsConfig struct {
	ListKey   string `env:"EVENTS_LIST_KEY" env-default:"modeldeck:events"`
	MaxEvents int    `env:"EVENTS_MAX_EVENTS" env-default:"10000"`
}

// KeysConfig controls key configuration behavior.
type KeysConfig struct {
	// VerifyOnSave runs a live connection test before persisting a key.
	// When off, saves only stamp last_verified_at.
	VerifyOnSave bool `env:"VERIFY_ON_SAVE" env-default:"false"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return &cfg, nil
}

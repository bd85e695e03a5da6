// Package config loads pokedex configuration from an optional YAML file and
// the environment.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheRedis  = "redis"
	CacheSQLite = "sqlite"
)

// MaxPageSize bounds PageSize and the proxy's pageSize parameter.
const MaxPageSize = 100

type Config struct {
	BaseURL        string        `yaml:"base_url" env:"POKEAPI_BASE_URL" env-default:"https://pokeapi.co/api/v2"`
	UserAgent      string        `yaml:"user_agent" env:"USER_AGENT" env-default:"pokedex/1.0 (+https://github.com/Sternrassler/pokeapi-client)"`
	HTTPTimeout    time.Duration `yaml:"http_timeout" env:"HTTP_TIMEOUT" env-default:"30s"`
	MaxRetries     int           `yaml:"max_retries" env:"MAX_RETRIES" env-default:"0"`
	MaxConcurrency int           `yaml:"max_concurrency" env:"MAX_CONCURRENCY" env-default:"0"`
	PageSize       int           `yaml:"page_size" env:"PAGE_SIZE" env-default:"20"`
	CacheBackend   string        `yaml:"cache_backend" env:"CACHE_BACKEND" env-default:"none"`
	RedisURL       string        `yaml:"redis_url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	SQLitePath     string        `yaml:"sqlite_path" env:"SQLITE_PATH"`
	LogLevel       string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogPretty      bool          `yaml:"log_pretty" env:"LOG_PRETTY" env-default:"false"`
	Port           string        `yaml:"port" env:"PORT" env-default:"8080"`
}

// Load reads configuration from path, then the environment. An empty path
// reads the environment only.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad is Load for main packages.
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.CacheBackend {
	case CacheNone, CacheRedis, CacheSQLite:
	default:
		return fmt.Errorf("cache_backend must be one of none, redis, sqlite (got %q)", c.CacheBackend)
	}
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		return fmt.Errorf("page_size must be between 1 and %d (got %d)", MaxPageSize, c.PageSize)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", c.MaxRetries)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be >= 0 (got %d)", c.MaxConcurrency)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user_agent is required")
	}
	return nil
}

// Usage describes the environment variables.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return text
}

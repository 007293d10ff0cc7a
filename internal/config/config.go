// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"storedesk/internal/core/numerator"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the whole process configuration.
type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Log      LogConfig      `envPrefix:"LOG_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	HTTP     HTTPConfig     `envPrefix:"HTTP_"`

	// StorageDriver selects the backend: postgres or memory.
	StorageDriver string   `env:"STORAGE_DRIVER" envDefault:"postgres"`
	CORSOrigins   []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// AppConfig identifies the running instance.
type AppConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"`
}

// IsDevelopment reports whether the process runs in development mode.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

// LogConfig configures pkg/logger.
type LogConfig struct {
	Level      string `env:"LEVEL" envDefault:"info"`
	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"30"`
	Compress   bool   `env:"COMPRESS" envDefault:"true"`
}

// DatabaseConfig configures the postgres pool.
type DatabaseConfig struct {
	URL             string        `env:"URL"`
	MaxConns        int32         `env:"MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"MIN_CONNS" envDefault:"2"`
	MaxConnLifetime time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"1h"`
	MaxConnIdleTime time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"30m"`
	// Migrate applies embedded migrations at start.
	Migrate bool `env:"MIGRATE" envDefault:"true"`

	// NumberingStrategy is strict (one UPSERT per number) or cached
	// (ranges of NumberingRangeSize reserved per process).
	NumberingStrategy  string `env:"NUMBERING_STRATEGY" envDefault:"strict"`
	NumberingRangeSize int64  `env:"NUMBERING_RANGE_SIZE" envDefault:"50"`
}

// Numbering strategies.
const (
	NumberingStrict = "strict"
	NumberingCached = "cached"
)

// NumberingOptions converts the numbering settings for the postgres numerator.
func (d DatabaseConfig) NumberingOptions() *numerator.Options {
	if d.NumberingStrategy == NumberingCached {
		return &numerator.Options{Strategy: numerator.StrategyCached, RangeSize: d.NumberingRangeSize}
	}
	return numerator.DefaultOptions()
}

// AuthConfig configures bearer token verification. Tokens are issued elsewhere.
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	Issuer    string        `env:"JWT_ISSUER"`
	Leeway    time.Duration `env:"JWT_LEEWAY" envDefault:"30s"`
	// Required refuses to start without a secret.
	Required bool `env:"REQUIRED" envDefault:"false"`
}

// Enabled reports whether API requests must carry a token.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

// HTTPConfig holds server timeouts.
type HTTPConfig struct {
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads the optional dotenv files, then the environment.
// Variables already set in the environment win over the files.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks combinations env tags cannot express.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.Database.NumberingStrategy {
	case "", NumberingStrict, NumberingCached:
	default:
		return fmt.Errorf("unknown DATABASE_NUMBERING_STRATEGY %q", c.Database.NumberingStrategy)
	}
	if c.Database.NumberingStrategy == NumberingCached && c.Database.NumberingRangeSize <= 0 {
		return errors.New("DATABASE_NUMBERING_RANGE_SIZE must be positive for the cached strategy")
	}
	if c.Auth.Required && !c.Auth.Enabled() {
		return errors.New("AUTH_JWT_SECRET is required when AUTH_REQUIRED is set")
	}
	return nil
}

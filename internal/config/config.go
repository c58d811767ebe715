// Package config loads process configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	AnalysisBaseURL  string        `env:"ANALYSIS_BASE_URL"`
	AnalysisTimeout  time.Duration `env:"ANALYSIS_TIMEOUT" envDefault:"30s"`
	AnalysisFallback string        `env:"ANALYSIS_FALLBACK" envDefault:"fail"`

	CheckoutAllowBypass bool `env:"CHECKOUT_ALLOW_BYPASS" envDefault:"false"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`
	PostgresURL   string `env:"POSTGRES_URL"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"bizplan.db"`

	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	SessionSecret string        `env:"SESSION_SECRET"`

	ImproveTargetScore int `env:"IMPROVE_TARGET_SCORE" envDefault:"75"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// Load reads .env when present and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.SessionSecret = secret
		log.Warn().Msg("SESSION_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.StorageDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("POSTGRES_URL is required when STORAGE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER %q must be one of memory, sqlite, postgres", c.StorageDriver))
	}

	fallback := strings.ToLower(strings.TrimSpace(c.AnalysisFallback))
	switch fallback {
	case "fail", "demo":
		c.AnalysisFallback = fallback
	default:
		errs = append(errs, fmt.Errorf("ANALYSIS_FALLBACK %q must be fail or demo", c.AnalysisFallback))
	}
	if c.AnalysisBaseURL == "" && fallback != "demo" {
		errs = append(errs, errors.New("ANALYSIS_BASE_URL is required unless ANALYSIS_FALLBACK=demo"))
	}

	if c.AnalysisTimeout <= 0 {
		errs = append(errs, errors.New("ANALYSIS_TIMEOUT must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.ImproveTargetScore < 1 || c.ImproveTargetScore > 100 {
		errs = append(errs, fmt.Errorf("IMPROVE_TARGET_SCORE %d must be within 1..100", c.ImproveTargetScore))
	}

	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

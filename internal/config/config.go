// Package config loads and validates the application configuration from a
// YAML file, with environment variables overriding the sensitive fields.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/apomeroy/aitrade/pkg/errors"
)

// Environment variables that override file configuration.
const (
	EnvPolygonAPIKey = "POLYGON_API_KEY"
	EnvDatabasePath  = "AITRADE_DB_PATH"
	EnvWebhookURL    = "AITRADE_WEBHOOK_URL"
)

// Config is the full application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Provider ProviderConfig `yaml:"provider"`
	Market   MarketConfig   `yaml:"market"`
	Update   UpdateConfig   `yaml:"update"`
	Webhook  WebhookConfig  `yaml:"webhook"`
}

// DatabaseConfig locates the indicator store.
type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// ProviderConfig configures the market-data provider.
type ProviderConfig struct {
	Type string `yaml:"type" validate:"oneof=polygon"`
	// APIKey is usually supplied via POLYGON_API_KEY rather than the file.
	APIKey string `yaml:"api_key"`
	// PageDelay is the pause between paginated fetch calls.
	PageDelay time.Duration `yaml:"page_delay"`
}

// MarketConfig describes the exchange calendar used to pick fetch end dates.
type MarketConfig struct {
	Timezone     string `yaml:"timezone" validate:"required"`
	CloseHour    int    `yaml:"close_hour" validate:"min=0,max=23"`
	CloseMinute  int    `yaml:"close_minute" validate:"min=0,max=59"`
	GraceMinutes int    `yaml:"grace_minutes" validate:"min=0"`
	// Epoch is the earliest supported bar date, ISO calendar date.
	Epoch string `yaml:"epoch" validate:"required,datetime=2006-01-02"`
}

// UpdateConfig tunes the update run.
type UpdateConfig struct {
	Workers int `yaml:"workers" validate:"min=1"`
}

// WebhookConfig configures optional result delivery.
type WebhookConfig struct {
	URL string `yaml:"url" validate:"omitempty,url"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "stocks.duckdb"},
		Provider: ProviderConfig{Type: "polygon", PageDelay: 15 * time.Second},
		Market: MarketConfig{
			Timezone:     "America/New_York",
			CloseHour:    16,
			CloseMinute:  0,
			GraceMinutes: 30,
			Epoch:        "1980-01-01",
		},
		Update: UpdateConfig{Workers: 1},
	}
}

// Load reads the configuration file at path, layered over DefaultConfig.
// An empty path skips the file entirely. Environment overrides are applied
// after the file and the result is validated.
func Load(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return config, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
		}

		if err := yaml.Unmarshal(raw, &config); err != nil {
			return config, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvPolygonAPIKey); v != "" {
		c.Provider.APIKey = v
	}

	if v := os.Getenv(EnvDatabasePath); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(EnvWebhookURL); v != "" {
		c.Webhook.URL = v
	}
}

// Validate checks the struct-level constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}

// EpochTime parses the configured epoch date as midnight UTC.
func (c *Config) EpochTime() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.Market.Epoch)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid epoch date %q", c.Market.Epoch)
	}

	return t, nil
}

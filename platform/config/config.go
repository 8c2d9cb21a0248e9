// Package config provides console configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// APIConfig provides settings for the lead API client.
type APIConfig interface {
	GetAPIBaseURL() string
	GetAPIToken() string
	GetAPITimeout() time.Duration
	GetAPIRateLimit() float64
}

// ConsoleConfig provides settings for console behaviour.
type ConsoleConfig interface {
	GetActivityPageSize() int
	GetDefaultPhoneRegion() string
}

// Config holds all console configuration.
type Config struct {
	Env string `yaml:"env"`

	APIBaseURL   string        `yaml:"api_base_url" validate:"required,url"`
	APIToken     string        `yaml:"api_token"`
	APITimeout   time.Duration `yaml:"api_timeout" validate:"gt=0"`
	APIRateLimit float64       `yaml:"api_rate_limit" validate:"gt=0"`

	ActivityPageSize   int    `yaml:"activity_page_size" validate:"gt=0,lte=200"`
	DefaultPhoneRegion string `yaml:"default_phone_region" validate:"len=2"`
}

// Load reads configuration from the environment (with .env support) and,
// when LEADCONSOLE_CONFIG points at a YAML file, from that file first.
// Environment variables override file values.
func Load() (*Config, error) {
	// .env is optional; ignore absence.
	_ = godotenv.Load()

	cfg := &Config{
		Env:                getEnv("CONSOLE_ENV", "development"),
		APITimeout:         15 * time.Second,
		APIRateLimit:       10,
		ActivityPageSize:   50,
		DefaultPhoneRegion: "NL",
	}

	if path := os.Getenv("LEADCONSOLE_CONFIG"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.APIBaseURL = getEnv("LEAD_API_BASE_URL", cfg.APIBaseURL)
	cfg.APIToken = getEnv("LEAD_API_TOKEN", cfg.APIToken)
	if v := os.Getenv("LEAD_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LEAD_API_TIMEOUT: %w", err)
		}
		cfg.APITimeout = d
	}
	if v := os.Getenv("LEAD_API_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid LEAD_API_RATE_LIMIT: %w", err)
		}
		cfg.APIRateLimit = f
	}
	if v := os.Getenv("ACTIVITY_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ACTIVITY_PAGE_SIZE: %w", err)
		}
		cfg.ActivityPageSize = n
	}
	cfg.DefaultPhoneRegion = getEnv("DEFAULT_PHONE_REGION", cfg.DefaultPhoneRegion)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Interface implementations.

func (c *Config) GetAPIBaseURL() string         { return c.APIBaseURL }
func (c *Config) GetAPIToken() string           { return c.APIToken }
func (c *Config) GetAPITimeout() time.Duration  { return c.APITimeout }
func (c *Config) GetAPIRateLimit() float64      { return c.APIRateLimit }
func (c *Config) GetActivityPageSize() int      { return c.ActivityPageSize }
func (c *Config) GetDefaultPhoneRegion() string { return c.DefaultPhoneRegion }

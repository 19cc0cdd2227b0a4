// Package config loads OxiAdmin settings from an optional YAML file,
// overridden by OXIADMIN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr         string        `yaml:"http_addr"`
	APIBaseURL       string        `yaml:"api_base_url"`
	SessionSecret    string        `yaml:"session_secret"`
	StateDB          string        `yaml:"state_db"`
	GelfAddr         string        `yaml:"gelf_addr"`
	LogLevel         string        `yaml:"log_level"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	WorkspaceIdleTTL time.Duration `yaml:"workspace_idle_ttl"`
	UploadMaxBytes   int64         `yaml:"upload_max_bytes"`
	RefetchPolicy    string        `yaml:"refetch_policy"`
	CookieSecure     bool          `yaml:"cookie_secure"`
}

const devSecret = "oxiadmin-dev-secret-change-me"

func Default() *Config {
	return &Config{
		HTTPAddr:         ":8090",
		APIBaseURL:       "http://127.0.0.1:8080/api/v1",
		SessionSecret:    devSecret,
		StateDB:          "oxiadmin-state.db",
		LogLevel:         "info",
		RequestTimeout:   30 * time.Second,
		WorkspaceIdleTTL: 12 * time.Hour,
		UploadMaxBytes:   12 << 20,
		RefetchPolicy:    "all",
	}
}

// Load reads path (skipped when empty) over the defaults, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.HTTPAddr = getEnv("OXIADMIN_ADDR", c.HTTPAddr)
	c.APIBaseURL = getEnv("OXIADMIN_API_URL", c.APIBaseURL)
	c.SessionSecret = getEnv("OXIADMIN_SESSION_SECRET", c.SessionSecret)
	c.StateDB = getEnv("OXIADMIN_STATE_DB", c.StateDB)
	c.GelfAddr = getEnv("OXIADMIN_GELF_ADDR", c.GelfAddr)
	c.LogLevel = getEnv("OXIADMIN_LOG_LEVEL", c.LogLevel)
	c.RequestTimeout = getEnvDuration("OXIADMIN_REQUEST_TIMEOUT", c.RequestTimeout)
	c.WorkspaceIdleTTL = getEnvDuration("OXIADMIN_IDLE_TTL", c.WorkspaceIdleTTL)
	c.UploadMaxBytes = int64(getEnvInt("OXIADMIN_UPLOAD_MAX_BYTES", int(c.UploadMaxBytes)))
	c.RefetchPolicy = getEnv("OXIADMIN_REFETCH_POLICY", c.RefetchPolicy)
	c.CookieSecure = getEnv("OXIADMIN_COOKIE_SECURE", strconv.FormatBool(c.CookieSecure)) == "true"
}

func (c *Config) Validate() error {
	var errs []error
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("api_base_url is required"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("session_secret is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	switch c.RefetchPolicy {
	case "all", "keep-dirty":
	default:
		errs = append(errs, fmt.Errorf("refetch_policy %q: want all or keep-dirty", c.RefetchPolicy))
	}
	return errors.Join(errs...)
}

// DevSecret reports whether the built-in development secret is in use.
func (c *Config) DevSecret() bool { return c.SessionSecret == devSecret }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Recognized output formats for the record sink.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatBoth = "both"
)

func ParseConfig(byteConfig []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(byteConfig, &cfg); err != nil {
		return nil, err
	}
	if cfg.Chromedp.UserDataDir != "" {
		absPath, err := filepath.Abs(cfg.Chromedp.UserDataDir)
		if err != nil {
			return nil, err
		}
		cfg.Chromedp.UserDataDir = absPath
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Scrape.OutputFormat == "" {
		cfg.Scrape.OutputFormat = FormatBoth
	}
	if cfg.Scrape.OutputDir == "" {
		cfg.Scrape.OutputDir = "data"
	}
	if cfg.Scrape.PageLoadTimeoutSeconds <= 0 {
		cfg.Scrape.PageLoadTimeoutSeconds = 30
	}
	if cfg.Scrape.ModalTimeoutSeconds <= 0 {
		cfg.Scrape.ModalTimeoutSeconds = 10
	}
	if cfg.Scrape.RetryMaxAttempts <= 0 {
		cfg.Scrape.RetryMaxAttempts = 3
	}
	if cfg.Scrape.RetryBaseDelayMs <= 0 {
		cfg.Scrape.RetryBaseDelayMs = 500
	}
	if cfg.Scrape.RetryBackoffFactor <= 0 {
		cfg.Scrape.RetryBackoffFactor = 2.0
	}
}

func validate(cfg *Config) error {
	switch cfg.Scrape.OutputFormat {
	case FormatCSV, FormatJSON, FormatBoth:
	default:
		return fmt.Errorf("unknown output format %q", cfg.Scrape.OutputFormat)
	}
	return nil
}

// ApplyEnv overlays LEYES_* environment variables onto the parsed config.
// Unset variables leave the config untouched; malformed values are an error
// rather than a silent fallback.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("LEYES_MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEYES_MAX_PAGES: %w", err)
		}
		cfg.Scrape.MaxPages = n
	}
	if v := os.Getenv("LEYES_OUTPUT_FORMAT"); v != "" {
		cfg.Scrape.OutputFormat = v
	}
	if v := os.Getenv("LEYES_OUTPUT_DIR"); v != "" {
		cfg.Scrape.OutputDir = v
	}
	if v := os.Getenv("LEYES_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LEYES_HEADLESS: %w", err)
		}
		cfg.Rod.Headless = b
		cfg.Chromedp.Headless = b
	}
	if v := os.Getenv("LEYES_DELAY_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEYES_DELAY_SECONDS: %w", err)
		}
		cfg.Scrape.DelaySeconds = n
	}
	if v := os.Getenv("LEYES_API_ENDPOINT"); v != "" {
		cfg.Api.Endpoint = v
	}
	if v := os.Getenv("LEYES_API_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEYES_API_LIMIT: %w", err)
		}
		cfg.Api.Limit = n
	}
	return validate(cfg)
}

package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvOCREndpoint        = "SENTINEL_OCR_ENDPOINT"
	EnvOCRTimeout         = "SENTINEL_OCR_TIMEOUT"
	EnvOCRDefaultLanguage = "SENTINEL_OCR_DEFAULT_LANGUAGE"
)

// OCRConfig holds parameters for the OCR extraction service.
type OCRConfig struct {
	Endpoint        string `toml:"endpoint"`
	Timeout         string `toml:"timeout"`
	DefaultLanguage string `toml:"default_language"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *OCRConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *OCRConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *OCRConfig) Merge(overlay *OCRConfig) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.DefaultLanguage != "" {
		c.DefaultLanguage = overlay.DefaultLanguage
	}
}

func (c *OCRConfig) loadDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "http://localhost:8081"
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = "eng"
	}
}

func (c *OCRConfig) loadEnv() {
	if v := os.Getenv(EnvOCREndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvOCRTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvOCRDefaultLanguage); v != "" {
		c.DefaultLanguage = v
	}
}

func (c *OCRConfig) validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}

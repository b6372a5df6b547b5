package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvTranslationPrimaryEndpoint = "SENTINEL_TRANSLATION_PRIMARY_ENDPOINT"
	EnvTranslationPrimaryCap      = "SENTINEL_TRANSLATION_PRIMARY_CAP"
	EnvTranslationTimeout         = "SENTINEL_TRANSLATION_TIMEOUT"

	EnvTranslationFallbackEndpoint = "SENTINEL_TRANSLATION_FALLBACK_ENDPOINT"
	EnvTranslationFallbackAPIKey   = "SENTINEL_TRANSLATION_FALLBACK_API_KEY"
	EnvTranslationFallbackModel    = "SENTINEL_TRANSLATION_FALLBACK_MODEL"
	EnvTranslationFallbackCap      = "SENTINEL_TRANSLATION_FALLBACK_CAP"
)

// TranslationConfig holds parameters for the translation chain: a primary
// translation model with a chat-completion fallback.
type TranslationConfig struct {
	PrimaryEndpoint string `toml:"primary_endpoint"`
	// PrimaryCap is the maximum number of characters sent to the primary model.
	PrimaryCap int    `toml:"primary_cap"`
	Timeout    string `toml:"timeout"`

	FallbackEndpoint string `toml:"fallback_endpoint"`
	FallbackAPIKey   string `toml:"fallback_api_key"`
	FallbackModel    string `toml:"fallback_model"`
	// FallbackCap is the maximum number of characters sent to the fallback model.
	FallbackCap int `toml:"fallback_cap"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *TranslationConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *TranslationConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *TranslationConfig) Merge(overlay *TranslationConfig) {
	if overlay.PrimaryEndpoint != "" {
		c.PrimaryEndpoint = overlay.PrimaryEndpoint
	}
	if overlay.PrimaryCap != 0 {
		c.PrimaryCap = overlay.PrimaryCap
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.FallbackEndpoint != "" {
		c.FallbackEndpoint = overlay.FallbackEndpoint
	}
	if overlay.FallbackAPIKey != "" {
		c.FallbackAPIKey = overlay.FallbackAPIKey
	}
	if overlay.FallbackModel != "" {
		c.FallbackModel = overlay.FallbackModel
	}
	if overlay.FallbackCap != 0 {
		c.FallbackCap = overlay.FallbackCap
	}
}

func (c *TranslationConfig) loadDefaults() {
	if c.PrimaryEndpoint == "" {
		c.PrimaryEndpoint = "http://localhost:8082"
	}
	if c.PrimaryCap == 0 {
		c.PrimaryCap = 1000
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
	if c.FallbackEndpoint == "" {
		c.FallbackEndpoint = "https://api.groq.com/openai/v1"
	}
	if c.FallbackModel == "" {
		c.FallbackModel = "llama-3.3-70b-versatile"
	}
	if c.FallbackCap == 0 {
		c.FallbackCap = 1500
	}
}

func (c *TranslationConfig) loadEnv() {
	if v := os.Getenv(EnvTranslationPrimaryEndpoint); v != "" {
		c.PrimaryEndpoint = v
	}
	if v := os.Getenv(EnvTranslationPrimaryCap); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PrimaryCap = n
		}
	}
	if v := os.Getenv(EnvTranslationTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvTranslationFallbackEndpoint); v != "" {
		c.FallbackEndpoint = v
	}
	if v := os.Getenv(EnvTranslationFallbackAPIKey); v != "" {
		c.FallbackAPIKey = v
	}
	if v := os.Getenv(EnvTranslationFallbackModel); v != "" {
		c.FallbackModel = v
	}
	if v := os.Getenv(EnvTranslationFallbackCap); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.FallbackCap = n
		}
	}
}

func (c *TranslationConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.PrimaryCap < 1 {
		return fmt.Errorf("invalid primary_cap: %d", c.PrimaryCap)
	}
	if c.FallbackCap < 1 {
		return fmt.Errorf("invalid fallback_cap: %d", c.FallbackCap)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvLanguageDefaultCode  = "SENTINEL_LANGUAGE_DEFAULT_CODE"
	EnvLanguageOverrideCode = "SENTINEL_LANGUAGE_OVERRIDE_CODE"
	EnvLanguageDetectWindow = "SENTINEL_LANGUAGE_DETECT_WINDOW"
	EnvLanguageMinLength    = "SENTINEL_LANGUAGE_MIN_LENGTH"
)

// LanguageConfig holds language detection parameters.
type LanguageConfig struct {
	// DefaultCode is assumed for content too short to detect reliably.
	DefaultCode string `toml:"default_code"`
	// OverrideCode replaces a default-language result when Indic script
	// characters are present in the detection window.
	OverrideCode string `toml:"override_code"`
	// DetectWindow is the number of leading characters fed to the detector.
	DetectWindow int `toml:"detect_window"`
	// MinLength is the minimum content length required to attempt detection.
	MinLength int `toml:"min_length"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *LanguageConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *LanguageConfig) Merge(overlay *LanguageConfig) {
	if overlay.DefaultCode != "" {
		c.DefaultCode = overlay.DefaultCode
	}
	if overlay.OverrideCode != "" {
		c.OverrideCode = overlay.OverrideCode
	}
	if overlay.DetectWindow != 0 {
		c.DetectWindow = overlay.DetectWindow
	}
	if overlay.MinLength != 0 {
		c.MinLength = overlay.MinLength
	}
}

func (c *LanguageConfig) loadDefaults() {
	if c.DefaultCode == "" {
		c.DefaultCode = "en"
	}
	if c.OverrideCode == "" {
		c.OverrideCode = "hi"
	}
	if c.DetectWindow == 0 {
		c.DetectWindow = 500
	}
	if c.MinLength == 0 {
		c.MinLength = 10
	}
}

func (c *LanguageConfig) loadEnv() {
	if v := os.Getenv(EnvLanguageDefaultCode); v != "" {
		c.DefaultCode = v
	}
	if v := os.Getenv(EnvLanguageOverrideCode); v != "" {
		c.OverrideCode = v
	}
	if v := os.Getenv(EnvLanguageDetectWindow); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.DetectWindow = n
		}
	}
	if v := os.Getenv(EnvLanguageMinLength); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MinLength = n
		}
	}
}

func (c *LanguageConfig) validate() error {
	if c.DetectWindow < 1 {
		return fmt.Errorf("invalid detect_window: %d", c.DetectWindow)
	}
	if c.MinLength < 1 {
		return fmt.Errorf("invalid min_length: %d", c.MinLength)
	}
	return nil
}

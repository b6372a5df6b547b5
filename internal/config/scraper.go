package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvScraperUserAgent        = "SENTINEL_SCRAPER_USER_AGENT"
	EnvScraperTimeout          = "SENTINEL_SCRAPER_TIMEOUT"
	EnvScraperMinContentLength = "SENTINEL_SCRAPER_MIN_CONTENT_LENGTH"
)

// ScraperConfig holds web scraping parameters for URL submissions.
type ScraperConfig struct {
	UserAgent        string `toml:"user_agent"`
	Timeout          string `toml:"timeout"`
	MinContentLength int    `toml:"min_content_length"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *ScraperConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ScraperConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ScraperConfig) Merge(overlay *ScraperConfig) {
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MinContentLength != 0 {
		c.MinContentLength = overlay.MinContentLength
	}
}

func (c *ScraperConfig) loadDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (compatible; SentinelBot/1.0)"
	}
	if c.Timeout == "" {
		c.Timeout = "15s"
	}
	if c.MinContentLength == 0 {
		c.MinContentLength = 100
	}
}

func (c *ScraperConfig) loadEnv() {
	if v := os.Getenv(EnvScraperUserAgent); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv(EnvScraperTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvScraperMinContentLength); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MinContentLength = n
		}
	}
}

func (c *ScraperConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.MinContentLength < 1 {
		return fmt.Errorf("invalid min_content_length: %d", c.MinContentLength)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvFeedsMaxEntries  = "SENTINEL_FEEDS_MAX_ENTRIES"
	EnvFeedsConcurrency = "SENTINEL_FEEDS_CONCURRENCY"
)

// FeedsConfig bounds RSS feed ingestion.
type FeedsConfig struct {
	// MaxEntries caps how many feed entries are ingested per submission.
	MaxEntries int `toml:"max_entries"`
	// Concurrency bounds how many entries are processed in parallel.
	Concurrency int `toml:"concurrency"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *FeedsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *FeedsConfig) Merge(overlay *FeedsConfig) {
	if overlay.MaxEntries != 0 {
		c.MaxEntries = overlay.MaxEntries
	}
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
}

func (c *FeedsConfig) loadDefaults() {
	if c.MaxEntries == 0 {
		c.MaxEntries = 10
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
}

func (c *FeedsConfig) loadEnv() {
	if v := os.Getenv(EnvFeedsMaxEntries); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxEntries = n
		}
	}
	if v := os.Getenv(EnvFeedsConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Concurrency = n
		}
	}
}

func (c *FeedsConfig) validate() error {
	if c.MaxEntries < 1 {
		return fmt.Errorf("invalid max_entries: %d", c.MaxEntries)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency: %d", c.Concurrency)
	}
	return nil
}

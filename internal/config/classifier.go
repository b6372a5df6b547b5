package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvClassifierSentimentEndpoint  = "SENTINEL_CLASSIFIER_SENTIMENT_ENDPOINT"
	EnvClassifierDepartmentEndpoint = "SENTINEL_CLASSIFIER_DEPARTMENT_ENDPOINT"
	EnvClassifierSentimentLabels    = "SENTINEL_CLASSIFIER_SENTIMENT_LABELS"
	EnvClassifierDepartmentLabels   = "SENTINEL_CLASSIFIER_DEPARTMENT_LABELS"
	EnvClassifierTruncateLength     = "SENTINEL_CLASSIFIER_TRUNCATE_LENGTH"
	EnvClassifierTimeout            = "SENTINEL_CLASSIFIER_TIMEOUT"
)

// ClassifierConfig holds parameters for the sentiment and department
// classification services.
type ClassifierConfig struct {
	SentimentEndpoint  string `toml:"sentiment_endpoint"`
	DepartmentEndpoint string `toml:"department_endpoint"`
	// SentimentLabels is the label vocabulary in index order, used to decode
	// LABEL_<n> responses.
	SentimentLabels []string `toml:"sentiment_labels"`
	// DepartmentLabels is the label vocabulary in index order.
	DepartmentLabels []string `toml:"department_labels"`
	// TruncateLength is the maximum number of characters sent per request.
	TruncateLength int    `toml:"truncate_length"`
	Timeout        string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *ClassifierConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ClassifierConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ClassifierConfig) Merge(overlay *ClassifierConfig) {
	if overlay.SentimentEndpoint != "" {
		c.SentimentEndpoint = overlay.SentimentEndpoint
	}
	if overlay.DepartmentEndpoint != "" {
		c.DepartmentEndpoint = overlay.DepartmentEndpoint
	}
	if len(overlay.SentimentLabels) > 0 {
		c.SentimentLabels = overlay.SentimentLabels
	}
	if len(overlay.DepartmentLabels) > 0 {
		c.DepartmentLabels = overlay.DepartmentLabels
	}
	if overlay.TruncateLength != 0 {
		c.TruncateLength = overlay.TruncateLength
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *ClassifierConfig) loadDefaults() {
	if c.SentimentEndpoint == "" {
		c.SentimentEndpoint = "http://localhost:8083/sentiment"
	}
	if c.DepartmentEndpoint == "" {
		c.DepartmentEndpoint = "http://localhost:8083/department"
	}
	if len(c.SentimentLabels) == 0 {
		c.SentimentLabels = []string{"negative", "neutral", "positive"}
	}
	if len(c.DepartmentLabels) == 0 {
		c.DepartmentLabels = []string{
			"education", "health", "infrastructure",
			"law_enforcement", "revenue", "welfare",
		}
	}
	if c.TruncateLength == 0 {
		c.TruncateLength = 512
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *ClassifierConfig) loadEnv() {
	if v := os.Getenv(EnvClassifierSentimentEndpoint); v != "" {
		c.SentimentEndpoint = v
	}
	if v := os.Getenv(EnvClassifierDepartmentEndpoint); v != "" {
		c.DepartmentEndpoint = v
	}
	if v := os.Getenv(EnvClassifierSentimentLabels); v != "" {
		c.SentimentLabels = splitLabels(v)
	}
	if v := os.Getenv(EnvClassifierDepartmentLabels); v != "" {
		c.DepartmentLabels = splitLabels(v)
	}
	if v := os.Getenv(EnvClassifierTruncateLength); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TruncateLength = n
		}
	}
	if v := os.Getenv(EnvClassifierTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *ClassifierConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.TruncateLength < 1 {
		return fmt.Errorf("invalid truncate_length: %d", c.TruncateLength)
	}
	return nil
}

func splitLabels(v string) []string {
	parts := strings.Split(v, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			labels = append(labels, trimmed)
		}
	}
	return labels
}

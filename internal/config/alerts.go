package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	EnvAlertsEnabled        = "SENTINEL_ALERTS_ENABLED"
	EnvAlertsSMTPHost       = "SENTINEL_ALERTS_SMTP_HOST"
	EnvAlertsSMTPPort       = "SENTINEL_ALERTS_SMTP_PORT"
	EnvAlertsSMTPUsername   = "SENTINEL_ALERTS_SMTP_USERNAME"
	EnvAlertsSMTPPassword   = "SENTINEL_ALERTS_SMTP_PASSWORD"
	EnvAlertsFrom           = "SENTINEL_ALERTS_FROM"
	EnvAlertsRecipients     = "SENTINEL_ALERTS_RECIPIENTS"
	EnvAlertsNegativeLabels = "SENTINEL_ALERTS_NEGATIVE_LABELS"
)

// AlertsConfig holds SMTP delivery parameters and the sentiment labels
// that trigger a negative-news alert.
type AlertsConfig struct {
	Enabled      bool     `toml:"enabled"`
	SMTPHost     string   `toml:"smtp_host"`
	SMTPPort     int      `toml:"smtp_port"`
	SMTPUsername string   `toml:"smtp_username"`
	SMTPPassword string   `toml:"smtp_password"`
	From         string   `toml:"from"`
	Recipients   []string `toml:"recipients"`
	// NegativeLabels are matched case-insensitively against sentiment labels.
	NegativeLabels []string `toml:"negative_labels"`
}

// IsNegative reports whether the given sentiment label triggers an alert.
func (c *AlertsConfig) IsNegative(sentiment string) bool {
	for _, label := range c.NegativeLabels {
		if strings.EqualFold(label, sentiment) {
			return true
		}
	}
	return false
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AlertsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AlertsConfig) Merge(overlay *AlertsConfig) {
	if overlay.Enabled {
		c.Enabled = overlay.Enabled
	}
	if overlay.SMTPHost != "" {
		c.SMTPHost = overlay.SMTPHost
	}
	if overlay.SMTPPort != 0 {
		c.SMTPPort = overlay.SMTPPort
	}
	if overlay.SMTPUsername != "" {
		c.SMTPUsername = overlay.SMTPUsername
	}
	if overlay.SMTPPassword != "" {
		c.SMTPPassword = overlay.SMTPPassword
	}
	if overlay.From != "" {
		c.From = overlay.From
	}
	if len(overlay.Recipients) > 0 {
		c.Recipients = overlay.Recipients
	}
	if len(overlay.NegativeLabels) > 0 {
		c.NegativeLabels = overlay.NegativeLabels
	}
}

func (c *AlertsConfig) loadDefaults() {
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
	if len(c.NegativeLabels) == 0 {
		c.NegativeLabels = []string{"negative", "neg"}
	}
}

func (c *AlertsConfig) loadEnv() {
	if v := os.Getenv(EnvAlertsEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvAlertsSMTPHost); v != "" {
		c.SMTPHost = v
	}
	if v := os.Getenv(EnvAlertsSMTPPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTPPort = port
		}
	}
	if v := os.Getenv(EnvAlertsSMTPUsername); v != "" {
		c.SMTPUsername = v
	}
	if v := os.Getenv(EnvAlertsSMTPPassword); v != "" {
		c.SMTPPassword = v
	}
	if v := os.Getenv(EnvAlertsFrom); v != "" {
		c.From = v
	}
	if v := os.Getenv(EnvAlertsRecipients); v != "" {
		c.Recipients = splitLabels(v)
	}
	if v := os.Getenv(EnvAlertsNegativeLabels); v != "" {
		c.NegativeLabels = splitLabels(v)
	}
}

func (c *AlertsConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.SMTPHost == "" {
		return fmt.Errorf("smtp_host required when alerts enabled")
	}
	if c.From == "" {
		return fmt.Errorf("from required when alerts enabled")
	}
	if len(c.Recipients) == 0 {
		return fmt.Errorf("recipients required when alerts enabled")
	}
	return nil
}

package config_test

import (
	"testing"

	"github.com/sentinel-news/sentinel/internal/config"
)

func TestAlertsIsNegative(t *testing.T) {
	cfg := &config.AlertsConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	tests := []struct {
		sentiment string
		want      bool
	}{
		{"negative", true},
		{"NEGATIVE", true},
		{"Neg", true},
		{"neutral", false},
		{"positive", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.sentiment, func(t *testing.T) {
			if got := cfg.IsNegative(tt.sentiment); got != tt.want {
				t.Errorf("IsNegative(%q) = %v, want %v", tt.sentiment, got, tt.want)
			}
		})
	}
}

func TestAlertsValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.AlertsConfig
		wantErr bool
	}{
		{
			name: "disabled skips validation",
			cfg:  config.AlertsConfig{},
		},
		{
			name:    "enabled without host",
			cfg:     config.AlertsConfig{Enabled: true, From: "alerts@example.com", Recipients: []string{"ops@example.com"}},
			wantErr: true,
		},
		{
			name:    "enabled without recipients",
			cfg:     config.AlertsConfig{Enabled: true, SMTPHost: "smtp.example.com", From: "alerts@example.com"},
			wantErr: true,
		},
		{
			name: "enabled fully configured",
			cfg: config.AlertsConfig{
				Enabled:    true,
				SMTPHost:   "smtp.example.com",
				From:       "alerts@example.com",
				Recipients: []string{"ops@example.com"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize()
			if tt.wantErr && err == nil {
				t.Error("Finalize() expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Finalize() error: %v", err)
			}
		})
	}
}

func TestAlertsDefaults(t *testing.T) {
	cfg := &config.AlertsConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if cfg.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want 587", cfg.SMTPPort)
	}
	if len(cfg.NegativeLabels) == 0 {
		t.Error("NegativeLabels defaulted empty")
	}
}

func TestAlertsMerge(t *testing.T) {
	base := config.AlertsConfig{
		SMTPHost: "smtp.base.example.com",
		SMTPPort: 587,
		From:     "alerts@example.com",
	}

	base.Merge(&config.AlertsConfig{
		SMTPHost:   "smtp.prod.example.com",
		Recipients: []string{"oncall@example.com"},
	})

	if base.SMTPHost != "smtp.prod.example.com" {
		t.Errorf("SMTPHost = %q, overlay not applied", base.SMTPHost)
	}
	if base.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, zero overlay field clobbered base", base.SMTPPort)
	}
	if base.From != "alerts@example.com" {
		t.Errorf("From = %q, zero overlay field clobbered base", base.From)
	}
	if len(base.Recipients) != 1 {
		t.Errorf("Recipients = %v", base.Recipients)
	}
}

func TestFeedsDefaults(t *testing.T) {
	cfg := &config.FeedsConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if cfg.MaxEntries != 10 {
		t.Errorf("MaxEntries = %d, want 10", cfg.MaxEntries)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Concurrency)
	}
}

func TestLanguageDefaults(t *testing.T) {
	cfg := &config.LanguageConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if cfg.DefaultCode != "en" {
		t.Errorf("DefaultCode = %q, want en", cfg.DefaultCode)
	}
	if cfg.OverrideCode != "hi" {
		t.Errorf("OverrideCode = %q, want hi", cfg.OverrideCode)
	}
	if cfg.DetectWindow != 500 {
		t.Errorf("DetectWindow = %d, want 500", cfg.DetectWindow)
	}
	if cfg.MinLength != 10 {
		t.Errorf("MinLength = %d, want 10", cfg.MinLength)
	}
}

func TestClassifierDefaults(t *testing.T) {
	cfg := &config.ClassifierConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if len(cfg.SentimentLabels) != 3 {
		t.Errorf("SentimentLabels = %v", cfg.SentimentLabels)
	}
	if len(cfg.DepartmentLabels) != 6 {
		t.Errorf("DepartmentLabels = %v", cfg.DepartmentLabels)
	}
	if cfg.TruncateLength != 512 {
		t.Errorf("TruncateLength = %d, want 512", cfg.TruncateLength)
	}
}

func TestServerAddr(t *testing.T) {
	cfg := &config.ServerConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if got := cfg.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8080", got)
	}
}

package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Port != "8081" {
		t.Errorf("expected default port 8081, got %s", cfg.App.Port)
	}
	if cfg.Cache.ProfileTTL != 5*time.Minute {
		t.Errorf("expected profile staleness of 5m, got %v", cfg.Cache.ProfileTTL)
	}
	if !cfg.Booking.HomeVisitFee.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected home visit fee 100, got %s", cfg.Booking.HomeVisitFee)
	}
	if cfg.Booking.AdminPageSize != 10 {
		t.Errorf("expected page size 10, got %d", cfg.Booking.AdminPageSize)
	}
	if cfg.Session.Secret == "" {
		t.Error("expected a development session secret")
	}
	if cfg.RedisEnabled() {
		t.Error("expected redis to be disabled without REDIS_HOST")
	}
}

func TestLoadConfig_TrimsBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://lab.example.com/api/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://lab.example.com/api" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.API.BaseURL)
	}
}

func TestLoadConfig_InvalidFee(t *testing.T) {
	t.Setenv("BOOKING_HOME_VISIT_FEE", "a lot")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for a non-numeric fee")
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:     AppConfig{Env: "production", Timezone: "UTC"},
			API:     APIConfig{BaseURL: "http://api"},
			Session: SessionConfig{Secret: "0123456789abcdef0123456789abcdef"},
			Booking: BookingConfig{HomeVisitFee: decimal.NewFromInt(100)},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing secret", func(c *Config) { c.Session.Secret = "" }, true},
		{"short secret in production", func(c *Config) { c.Session.Secret = "short" }, true},
		{"short secret in development", func(c *Config) { c.App.Env = "development"; c.Session.Secret = "short" }, false},
		{"missing api", func(c *Config) { c.API.BaseURL = "" }, true},
		{"negative fee", func(c *Config) { c.Booking.HomeVisitFee = decimal.NewFromInt(-1) }, true},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Olympus" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	Cache   CacheConfig
	Booking BookingConfig
}

type AppConfig struct {
	Port        string
	Env         string
	LogLevel    string
	Timezone    string
	CORSOrigins []string
}

// APIConfig points at the external lab REST API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

type CacheConfig struct {
	ProfileTTL        time.Duration
	CollectionTTL     time.Duration
	EventsPollTimeout time.Duration
}

type BookingConfig struct {
	HomeVisitFee  decimal.Decimal
	AdminPageSize int
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8081")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("API_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("API_TIMEOUT", "15s")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_COOKIE_NAME", "lab_session")
	v.SetDefault("CACHE_PROFILE_TTL", "5m")
	v.SetDefault("CACHE_COLLECTION_TTL", "30s")
	v.SetDefault("EVENTS_POLL_TIMEOUT", "25s")
	v.SetDefault("BOOKING_HOME_VISIT_FEE", "100")
	v.SetDefault("ADMIN_PAGE_SIZE", 10)

	// A missing .env is fine, the environment alone is enough
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	fee, err := decimal.NewFromString(v.GetString("BOOKING_HOME_VISIT_FEE"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_HOME_VISIT_FEE: %w", err)
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			Timezone:    v.GetString("APP_TIMEZONE"),
			CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			Timeout: durationOr(v.GetString("API_TIMEOUT"), 15*time.Second),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret:       v.GetString("SESSION_SECRET"),
			TTL:          durationOr(v.GetString("SESSION_TTL"), 24*time.Hour),
			CookieName:   v.GetString("SESSION_COOKIE_NAME"),
			CookieSecure: v.GetBool("SESSION_COOKIE_SECURE"),
		},
		Cache: CacheConfig{
			ProfileTTL:        durationOr(v.GetString("CACHE_PROFILE_TTL"), 5*time.Minute),
			CollectionTTL:     durationOr(v.GetString("CACHE_COLLECTION_TTL"), 30*time.Second),
			EventsPollTimeout: durationOr(v.GetString("EVENTS_POLL_TIMEOUT"), 25*time.Second),
		},
		Booking: BookingConfig{
			HomeVisitFee:  fee,
			AdminPageSize: v.GetInt("ADMIN_PAGE_SIZE"),
		},
	}

	if config.Booking.AdminPageSize <= 0 {
		config.Booking.AdminPageSize = 10
	}

	// Development gets a throwaway signing secret so a bare checkout starts
	if config.Session.Secret == "" && config.IsDev() {
		config.Session.Secret = "development-only-session-secret"
	}

	return config, nil
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET is required outside development")
	}
	if !c.IsDev() && len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters, got %d", len(c.Session.Secret))
	}
	if c.Booking.HomeVisitFee.IsNegative() {
		return errors.New("BOOKING_HOME_VISIT_FEE must not be negative")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.App.Env == "development"
}

// Location returns the configured time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RedisEnabled reports whether a Redis host is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// AuditEnabled reports whether the audit database is configured.
func (c *Config) AuditEnabled() bool {
	return c.DB.Host != ""
}

func durationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

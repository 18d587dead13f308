package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	Auth   AuthConfig
	Email  EmailConfig
	Sweep  SweepConfig
	Queue  QueueConfig
	Log    LogConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port string
}

// MongoConfig contains database settings.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration // per-operation timeout
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret string
}

// EmailConfig selects and configures the outbound mailer.
type EmailConfig struct {
	Provider      string // "postmark", "sendgrid" or "log"
	PostmarkToken string
	SendGridKey   string
	Sender        string
}

// SweepConfig controls the daily Delivered Pending sweep.
type SweepConfig struct {
	At       string // HH:MM
	Timezone string
	Grace    time.Duration
}

// QueueConfig sizes the notification job queue.
type QueueConfig struct {
	Capacity int
	Workers  int
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string
	Env   string
}

// Load loads configuration from environment variables with defaults and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", ""),
			Database: getEnv("MONGO_DATABASE", "logistics"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Email: EmailConfig{
			Provider:      getEnv("EMAIL_PROVIDER", "log"),
			PostmarkToken: getEnv("POSTMARK_API_TOKEN", ""),
			SendGridKey:   getEnv("SENDGRID_API_KEY", ""),
			Sender:        getEnv("EMAIL_SENDER", "no-reply@logistics.local"),
		},
		Sweep: SweepConfig{
			At:       getEnv("SWEEP_AT", "00:00"),
			Timezone: getEnv("SWEEP_TIMEZONE", "UTC"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Env:   getEnv("APP_ENV", "production"),
		},
	}

	var err error
	if cfg.Mongo.Timeout, err = getEnvDuration("MONGO_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Sweep.Grace, err = getEnvDuration("SWEEP_GRACE", 72*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Queue.Capacity, err = getEnvInt("QUEUE_CAPACITY", 256); err != nil {
		return nil, err
	}
	if cfg.Queue.Workers, err = getEnvInt("QUEUE_WORKERS", 4); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI environment variable is not set")
	}
	if _, err := ParseTimeOfDay(c.Sweep.At); err != nil {
		return fmt.Errorf("invalid SWEEP_AT: %w", err)
	}
	if _, err := time.LoadLocation(c.Sweep.Timezone); err != nil {
		return fmt.Errorf("invalid SWEEP_TIMEZONE: %w", err)
	}
	switch c.Email.Provider {
	case "log":
	case "postmark":
		if c.Email.PostmarkToken == "" {
			return fmt.Errorf("POSTMARK_API_TOKEN is required for the postmark provider")
		}
	case "sendgrid":
		if c.Email.SendGridKey == "" {
			return fmt.Errorf("SENDGRID_API_KEY is required for the sendgrid provider")
		}
	default:
		return fmt.Errorf("unknown EMAIL_PROVIDER %q", c.Email.Provider)
	}
	if c.Queue.Capacity <= 0 || c.Queue.Workers <= 0 {
		return fmt.Errorf("QUEUE_CAPACITY and QUEUE_WORKERS must be positive")
	}
	return nil
}

// ParseTimeOfDay parses "HH:MM" into an offset from midnight.
func ParseTimeOfDay(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, Mongo: %s/%s, Email: %s, Sweep: %s %s, Auth: *** (masked) ***}",
		c.Server.Port, maskURI(c.Mongo.URI), c.Mongo.Database, c.Email.Provider, c.Sweep.At, c.Sweep.Timezone)
}

// maskURI hides credentials in a mongodb:// URI.
func maskURI(uri string) string {
	scheme := strings.Index(uri, "://")
	at := strings.LastIndex(uri, "@")
	if scheme < 0 || at < scheme {
		return uri
	}
	return uri[:scheme+3] + "***" + uri[at:]
}

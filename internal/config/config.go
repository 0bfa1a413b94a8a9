// Package config loads the application configuration from environment
// variables. envconfig maps the variables onto the Config struct; main loads
// a .env file first so local runs work without exporting anything.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting of the application.
type Config struct {
	// --- HTTP ---
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"`
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// --- Database ---
	// Empty DB_HOST switches storage to the in-memory implementation,
	// which is what the tests and DB-less dev runs use.
	DBHost     string `envconfig:"DB_HOST" default:""`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"voxpop"`
	DBPassword string `envconfig:"DB_PASSWORD" default:""`
	DBName     string `envconfig:"DB_NAME" default:"voxpop"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// --- Redis ---
	RedisAddr     string `envconfig:"REDIS_ADDR" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// --- Workflow ---
	// AwardThreshold is the number of feedback records that triggers the
	// one-time evaluation of a response.
	AwardThreshold int `envconfig:"AWARD_THRESHOLD" default:"3"`
	// MinimumRating is the average rating a response must reach to be
	// evaluated as accepted.
	MinimumRating float64 `envconfig:"MINIMUM_RATING" default:"3.0"`
	// RatingMin/RatingMax bound a single feedback rating.
	RatingMin float64 `envconfig:"RATING_MIN" default:"1"`
	RatingMax float64 `envconfig:"RATING_MAX" default:"5"`
	// DefaultSignatureThreshold is used when a petition is created without
	// an explicit threshold.
	DefaultSignatureThreshold int `envconfig:"DEFAULT_SIGNATURE_THRESHOLD" default:"1"`

	// --- Outbound mail ---
	SMTPHost string `envconfig:"SMTP_HOST" default:""`
	SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPFrom string `envconfig:"SMTP_FROM" default:"no-reply@voxpop.local"`

	// --- Telegram ops alerts (optional) ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" default:""`
	TelegramOpsChat  int64  `envconfig:"TELEGRAM_OPS_CHAT" default:"0"`

	// --- Application ---
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"info"`
}

// DatabaseDSN returns the PostgreSQL connection string, or "" when no DB
// host is configured.
func (c *Config) DatabaseDSN() string {
	if c.DBHost == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// Validate rejects configurations the workflow cannot run with.
func (c *Config) Validate() error {
	if c.AwardThreshold < 1 {
		return fmt.Errorf("AWARD_THRESHOLD must be >= 1, got %d", c.AwardThreshold)
	}
	if c.RatingMin > c.RatingMax {
		return fmt.Errorf("RATING_MIN %v exceeds RATING_MAX %v", c.RatingMin, c.RatingMax)
	}
	if c.MinimumRating < c.RatingMin || c.MinimumRating > c.RatingMax {
		return fmt.Errorf("MINIMUM_RATING %v outside rating bounds [%v, %v]",
			c.MinimumRating, c.RatingMin, c.RatingMax)
	}
	if c.DefaultSignatureThreshold < 1 {
		return fmt.Errorf("DEFAULT_SIGNATURE_THRESHOLD must be >= 1, got %d", c.DefaultSignatureThreshold)
	}
	if c.TelegramBotToken != "" && c.TelegramOpsChat == 0 {
		return fmt.Errorf("TELEGRAM_OPS_CHAT required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}

// Load reads the environment and fills the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

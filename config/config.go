package config

import (
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	// Database configuration
	DBDriver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBPath     string `env:"DB_PATH" envDefault:"feedback.db"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"feedback"`
	DBSSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`

	// Redis holds pending challenges and submit rate limits when set.
	RedisURL string `env:"REDIS_URL"`

	// Session configuration
	SessionSecret string        `env:"SESSION_SECRET"`
	ChallengeTTL  time.Duration `env:"CHALLENGE_TTL" envDefault:"1h"`

	// Listing and submission
	FeedbackPerPage  int           `env:"FEEDBACK_PER_PAGE" envDefault:"30"`
	SubmitRateLimit  int           `env:"SUBMIT_RATE_LIMIT" envDefault:"10"`
	SubmitRateWindow time.Duration `env:"SUBMIT_RATE_WINDOW" envDefault:"1m"`

	// Export archive
	S3BucketName string `env:"S3_BUCKET_NAME"`
	S3Prefix     string `env:"S3_PREFIX" envDefault:"exports/"`
	AWSRegion    string `env:"AWS_REGION"`
}

// LoadConfig reads .env (if present), the process environment and Docker
// secrets, in that order of precedence for unset values.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside of local development
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parsing environment")
	}
	cfg.Environment = GetEnvironment()

	loadSecrets(cfg)

	if cfg.SessionSecret == "" && !cfg.Environment.IsProduction() {
		cfg.SessionSecret = hex.EncodeToString(securecookie.GenerateRandomKey(32))
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

// loadSecrets fills sensitive values that were not set in the environment
func loadSecrets(cfg *Config) {
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = readSecret("session_secret")
	}
	if cfg.DBPassword == "" {
		cfg.DBPassword = readSecret("db_password")
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = readSecret("redis_url")
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
		)
	}
	return c.DBPath
}

// DatabaseLabel describes the database without credentials, for logs and
// the admin commands.
func (c *Config) DatabaseLabel() string {
	if c.DBDriver == DriverPostgres {
		return fmt.Sprintf("postgres://%s@%s/%s", c.DBUser, net.JoinHostPort(c.DBHost, c.DBPort), c.DBName)
	}
	return "sqlite://" + c.DBPath
}

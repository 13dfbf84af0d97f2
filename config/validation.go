package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration is usable in its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{"DB_PATH", "required for the sqlite driver"})
		}
	case DriverPostgres:
		if cfg.DBHost == "" {
			errs = append(errs, ValidationError{"DB_HOST", "required for the postgres driver"})
		}
		if cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_NAME", "required for the postgres driver"})
		}
		if cfg.DBUser == "" {
			errs = append(errs, ValidationError{"DB_USER", "required for the postgres driver"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.FeedbackPerPage < 1 {
		errs = append(errs, ValidationError{"FEEDBACK_PER_PAGE", "must be positive"})
	}
	if cfg.ChallengeTTL <= 0 {
		errs = append(errs, ValidationError{"CHALLENGE_TTL", "must be positive"})
	}
	if cfg.SubmitRateLimit < 0 {
		errs = append(errs, ValidationError{"SUBMIT_RATE_LIMIT", "must not be negative"})
	}
	if cfg.SubmitRateLimit > 0 && cfg.SubmitRateWindow <= 0 {
		errs = append(errs, ValidationError{"SUBMIT_RATE_WINDOW", "must be positive when rate limiting is enabled"})
	}

	// Production sessions must survive restarts, so the secret has to be stable
	if cfg.Environment.IsProduction() && cfg.SessionSecret == "" {
		errs = append(errs, ValidationError{"SESSION_SECRET", "session_secret secret is required in production"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

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

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	// RequirePostgres rejects the sqlite driver.
	RequirePostgres bool
	// RequireDBPassword applies to the postgres driver only.
	RequireDBPassword bool
	MinJWTSecretLen   int
}

var requirements = map[Environment]ConfigRequirements{
	Development: {MinJWTSecretLen: 1},
	Test:        {MinJWTSecretLen: 1},
	CI:          {RequireDBPassword: true, MinJWTSecretLen: 1},
	Production:  {RequirePostgres: true, RequireDBPassword: true, MinJWTSecretLen: 32},
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	reqs := requirements[cfg.Env]

	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	switch cfg.DBDriver {
	case "postgres":
		if reqs.RequireDBPassword && cfg.DBPassword == "" {
			add("DB_PASSWORD", "is required")
		}
	case "sqlite":
		if reqs.RequirePostgres {
			add("DB_DRIVER", "sqlite is not allowed in "+string(cfg.Env))
		}
		if cfg.DBPath == "" {
			add("DB_PATH", "is required for sqlite")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if len(cfg.JWTSecret) < reqs.MinJWTSecretLen {
		add("JWT_SECRET", fmt.Sprintf("must be at least %d characters", reqs.MinJWTSecretLen))
	}
	if cfg.AdminGroup == "" {
		add("ADMIN_GROUP", "must not be empty")
	}
	if cfg.S3Bucket == "" {
		add("S3_BUCKET_NAME", "must not be empty")
	}
	if (cfg.S3AccessKey == "") != (cfg.S3SecretKey == "") {
		add("S3_ACCESS_KEY", "S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}
	if cfg.S3URLExpiry < 0 {
		add("S3_URL_EXPIRY", "must not be negative")
	}
	if cfg.RateLimitPerHour < 0 {
		add("RATE_LIMIT_PER_HOUR", "must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}

	return nil
}

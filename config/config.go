package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort         string
	ServerHost         string
	CORSAllowedOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	JWTIssuer string

	// Authorization
	AdminGroup string

	// Object storage configuration
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string
	S3UsePathStyle bool
	S3URLExpiry    time.Duration

	// Rate limiting, requests per client per hour; 0 disables
	RateLimitPerHour int

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	if env.loadsDotEnv() {
		// A missing .env is fine, the process environment still applies.
		_ = godotenv.Load()
	}

	cfg := &Config{Env: env}
	if err := load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func load(cfg *Config) error {
	cfg.ServerPort = value("SERVER_PORT", "8080")
	cfg.ServerHost = value("SERVER_HOST", "0.0.0.0")
	cfg.CORSAllowedOrigins = splitList(value("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	cfg.DBDriver = strings.ToLower(value("DB_DRIVER", "postgres"))
	cfg.DBHost = value("DB_HOST", "localhost")
	cfg.DBPort = value("DB_PORT", "5432")
	cfg.DBUser = value("DB_USER", "postgres")
	cfg.DBPassword = value("DB_PASSWORD", "")
	cfg.DBName = value("DB_NAME", "userprofile")
	cfg.DBSSLMode = value("DB_SSL_MODE", "disable")
	cfg.DBPath = value("DB_PATH", "userprofile.db")

	cfg.RedisHost = value("REDIS_HOST", "")
	cfg.RedisPort = value("REDIS_PORT", "6379")
	cfg.RedisPassword = value("REDIS_PASSWORD", "")
	cfg.RedisURL = value("REDIS_URL", "")
	cfg.RedisDB = 0 // This is a constant, not a secret

	cfg.JWTSecret = value("JWT_SECRET", "")
	cfg.JWTIssuer = value("JWT_ISSUER", "")
	cfg.AdminGroup = value("ADMIN_GROUP", "admin")

	cfg.S3Bucket = value("S3_BUCKET_NAME", "userprofile-avatars")
	cfg.S3Region = value("AWS_REGION", "us-east-1")
	cfg.S3Endpoint = value("S3_ENDPOINT", "")
	cfg.S3AccessKey = value("S3_ACCESS_KEY", "")
	cfg.S3SecretKey = value("S3_SECRET_KEY", "")
	cfg.S3PublicURL = strings.TrimRight(value("S3_PUBLIC_URL", ""), "/")
	cfg.LogLevel = value("LOG_LEVEL", "info")
	cfg.LogFormat = value("LOG_FORMAT", "json")

	var err error
	if cfg.S3UsePathStyle, err = strconv.ParseBool(value("S3_USE_PATH_STYLE", "false")); err != nil {
		return ValidationError{Field: "S3_USE_PATH_STYLE", Message: err.Error()}
	}
	if cfg.S3URLExpiry, err = time.ParseDuration(value("S3_URL_EXPIRY", "0s")); err != nil {
		return ValidationError{Field: "S3_URL_EXPIRY", Message: err.Error()}
	}
	if cfg.RateLimitPerHour, err = strconv.Atoi(value("RATE_LIMIT_PER_HOUR", "60")); err != nil {
		return ValidationError{Field: "RATE_LIMIT_PER_HOUR", Message: err.Error()}
	}

	if cfg.S3PublicURL == "" {
		cfg.S3PublicURL = defaultPublicURL(cfg)
	}

	return nil
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// RedisEnabled reports whether a Redis server has been configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

func defaultPublicURL(cfg *Config) string {
	if cfg.S3Endpoint != "" {
		return strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
}

// value resolves a setting from the environment, then from the Docker secret
// named after the lower-cased key, then the fallback.
func value(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := readSecret(strings.ToLower(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverS3     = "s3"
	DriverMinio  = "minio"
	DriverMemory = "memory"
)

// Config holds all runtime configuration for the service. It is read once at
// startup and never mutated afterwards.
type Config struct {
	Port        string   `env:"APP_PORT" validate:"required,numeric"`
	AppEnv      string   `env:"APP_ENV"`
	LogLevel    string   `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS"`

	Storage StorageConfig
	Auth    AuthConfig
}

// StorageConfig describes the S3-compatible object store (AWS S3, MinIO, ...).
type StorageConfig struct {
	Driver    string `env:"STORAGE_DRIVER" validate:"required,oneof=s3 minio memory"`
	Region    string `env:"AWS_REGION" validate:"required"`
	Endpoint  string `env:"S3_ENDPOINT" validate:"required_if=Driver minio"` // e.g. "http://localhost:9000"
	Bucket    string `env:"S3_BUCKET_NAME" validate:"required"`
	AccessKey string `env:"AWS_ACCESS_KEY_ID" validate:"required_unless=Driver memory"`
	SecretKey string `env:"AWS_SECRET_ACCESS_KEY" validate:"required_unless=Driver memory"`
}

// AuthConfig holds the single login credential and the token signing settings.
type AuthConfig struct {
	Email     string        `env:"EMAIL" validate:"required"`
	Password  string        `env:"PASSWORD" validate:"required"`
	Secret    string        `env:"JWT_SECRET" validate:"required"`
	ExpiresIn time.Duration `env:"JWT_EXPIRES_IN"`
}

// Load reads configuration from a .env file (if present) and environment
// variables and validates that every required value is set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, reading from environment")
	}

	appEnv := getEnv("APP_ENV", "development")
	defaultLevel := "debug"
	if appEnv == "production" {
		defaultLevel = "info"
	}

	expiresIn, err := ParseExpiry(getEnv("JWT_EXPIRES_IN", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("APP_PORT", "3000"),
		AppEnv:      appEnv,
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", defaultLevel)),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		Storage: StorageConfig{
			Driver:    strings.ToLower(getEnv("STORAGE_DRIVER", DriverS3)),
			Region:    getEnv("AWS_REGION", ""),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Bucket:    getEnv("S3_BUCKET_NAME", ""),
			AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},

		Auth: AuthConfig{
			Email:     getEnv("EMAIL", ""),
			Password:  getEnv("PASSWORD", ""),
			Secret:    getEnv("JWT_SECRET", ""),
			ExpiresIn: expiresIn,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate reports every missing or malformed value by its env var name.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("env")
	})

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing, invalid []string
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "required_if", "required_unless":
			missing = append(missing, fe.Field())
		default:
			invalid = append(invalid, fmt.Sprintf("%s=%q", fe.Field(), fe.Value()))
		}
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(invalid, ", "))
	}
	return errors.New(strings.Join(parts, "; "))
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ParseExpiry parses a token lifetime. It accepts Go durations ("90m", "1h"),
// a day suffix ("7d") and bare seconds ("3600").
func ParseExpiry(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("empty duration")
	}

	var d time.Duration
	switch {
	case strings.HasSuffix(raw, "d"):
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil {
			return 0, fmt.Errorf("parse days %q: %w", raw, err)
		}
		d = time.Duration(days) * 24 * time.Hour
	default:
		if secs, err := strconv.Atoi(raw); err == nil {
			d = time.Duration(secs) * time.Second
			break
		}
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return 0, err
		}
		d = parsed
	}

	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", raw)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

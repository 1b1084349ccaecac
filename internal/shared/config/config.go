package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Store backends for user preferences.
const (
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	Env               string   `env:"ENV" envDefault:"dev" validate:"oneof=dev local staging production"`
	Port              string   `env:"PORT" envDefault:"8080"`
	AdminAddr         string   `env:"ADMIN_ADDR"`
	LogLevel          string   `env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	ErrorDetails      bool     `env:"ERROR_DETAILS" envDefault:"true"`
	StagePrefixes     []string `env:"STAGE_PREFIXES" envDefault:"dev,prod,staging"`
	IdentityClaim     string   `env:"IDENTITY_CLAIM" envDefault:"sub" validate:"required"`
	DevIdentityHeader string   `env:"DEV_IDENTITY_HEADER" envDefault:"X-User-Id"`

	AWSRegion        string `env:"AWS_REGION" envDefault:"us-east-1"`
	PreferencesStore string `env:"PREFERENCES_STORE" envDefault:"dynamodb" validate:"oneof=dynamodb postgres memory"`
	PreferencesTable string `env:"PREFERENCES_TABLE_NAME"`
	DynamoDBEndpoint string `env:"DYNAMODB_ENDPOINT" validate:"omitempty,url"`
	DatabaseURL      string `env:"DATABASE_URL"`

	S3Bucket          string `env:"S3_BUCKET_NAME"`
	S3Endpoint        string `env:"S3_ENDPOINT" validate:"omitempty,url"`
	PresignExpiration int    `env:"PRESIGN_EXPIRATION_SECONDS" envDefault:"3600" validate:"min=1,max=604800"`
}

// Load reads configuration from environment variables and validates it.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// IsDevLike reports whether the config targets a developer machine.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

// PresignTTL is the lifetime of issued upload and download grants.
func (c Config) PresignTTL() time.Duration {
	return time.Duration(c.PresignExpiration) * time.Second
}

// IsLambdaRuntime reports whether the current process is running in AWS Lambda.
func IsLambdaRuntime() bool {
	return strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != ""
}

func (c *Config) normalize() {
	c.Env = normalizeEnv(c.Env)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.PreferencesStore = strings.ToLower(strings.TrimSpace(c.PreferencesStore))
	c.PreferencesTable = strings.TrimSpace(c.PreferencesTable)
	c.S3Bucket = strings.TrimSpace(c.S3Bucket)
	c.DevIdentityHeader = strings.TrimSpace(c.DevIdentityHeader)
	c.StagePrefixes = splitAndTrim(c.StagePrefixes)
	if strings.TrimSpace(c.AWSRegion) == "" {
		c.AWSRegion = "us-east-1"
	}
}

func splitAndTrim(parts []string) []string {
	var out []string
	for _, p := range parts {
		if trimmed := strings.Trim(strings.TrimSpace(p), "/"); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

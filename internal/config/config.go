package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// GitHub-backed document store
	GitHubToken     string        `envconfig:"GITHUB_TOKEN" required:"true"`
	GitHubRepoOwner string        `envconfig:"GITHUB_REPO_OWNER" required:"true"`
	GitHubRepoName  string        `envconfig:"GITHUB_REPO_NAME" required:"true"`
	GitHubBranch    string        `envconfig:"GITHUB_BRANCH" default:"main"`
	GitHubBaseURL   string        `envconfig:"GITHUB_BASE_URL" default:""`
	StoreTimeout    time.Duration `envconfig:"STORE_TIMEOUT" default:"30s"`
	StoreMaxRetries int           `envconfig:"STORE_MAX_RETRIES" default:"3"`

	// Encryption at rest: either an explicit Fernet key or a passphrase to
	// derive one from
	EncryptionKey      string `envconfig:"ENCRYPTION_KEY" default:""`
	EncryptionPassword string `envconfig:"ENCRYPTION_PASSWORD" default:""`

	// Bootstrap passcode for the reserved admin identity
	AdminPasscode string `envconfig:"ADMIN_PASSCODE" default:"change_me"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// HTTP server
	ServerPort int `envconfig:"SERVER_PORT" default:"8080"`

	// Leaderboard
	ScoreCurrentWeek bool `envconfig:"SCORE_CURRENT_WEEK" default:"false"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.EncryptionKey == "" && c.EncryptionPassword == "" {
		return fmt.Errorf("either ENCRYPTION_KEY or ENCRYPTION_PASSWORD is required")
	}

	if c.AdminPasscode == "change_me" && c.AppEnv == "production" {
		return fmt.Errorf("ADMIN_PASSCODE must be changed in production")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

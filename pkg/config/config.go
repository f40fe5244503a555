package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration for civicode-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"development"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Azure blob storage for comment/violation attachments
	Storage StorageConfig `yaml:"storage"`

	// Transactional email via SendGrid
	Email EmailConfig `yaml:"email"`

	// Browser push (Web Push / VAPID)
	Push PushConfig `yaml:"push"`

	// OpenAI assistant chat proxy
	Assistant AssistantConfig `yaml:"assistant"`

	// Anthropic vision image analysis
	Vision VisionConfig `yaml:"vision"`

	// Weekday digest job
	Digest DigestConfig `yaml:"digest"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"civicode"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"civicode_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`

	// Pool recycling. Azure Database for PostgreSQL drops idle connections
	// after 30 minutes, so the idle cap must stay under that.
	MaxConnLifetimeMinutes int `yaml:"max_conn_lifetime_minutes" env:"PGMAX_CONN_LIFETIME_MINUTES" env-default:"60"`
	MaxConnIdleMinutes     int `yaml:"max_conn_idle_minutes" env:"PGMAX_CONN_IDLE_MINUTES" env-default:"25"`
}

// AuthConfig holds token signing configuration.
type AuthConfig struct {
	// JWTSecret signs access tokens (HS256). The default matches the legacy
	// deployment so existing tokens keep verifying; override it in production.
	JWTSecret string `yaml:"-" env:"JWT_SECRET" env-default:"trpdds2020"`

	// TokenExpireMinutes is the access token lifetime.
	TokenExpireMinutes int `yaml:"token_expire_minutes" env:"ACCESS_TOKEN_EXPIRE_MINUTES" env-default:"1440"`
}

// StorageConfig holds Azure blob storage settings.
type StorageConfig struct {
	AccountName string `yaml:"account_name" env:"AZURE_STORAGE_ACCOUNT" env-default:""`
	AccountKey  string `yaml:"-" env:"AZURE_STORAGE_KEY"` // Secret - not in YAML
	Container   string `yaml:"container" env:"AZURE_STORAGE_CONTAINER" env-default:"civicode"`

	// SASTTLMinutes controls how long signed photo URLs stay valid.
	SASTTLMinutes int `yaml:"sas_ttl_minutes" env:"AZURE_SAS_TTL_MINUTES" env-default:"60"`
	// SASSkewMinutes backdates SAS start times to tolerate clock drift.
	SASSkewMinutes int `yaml:"sas_skew_minutes" env:"AZURE_SAS_SKEW_MINUTES" env-default:"5"`
}

// IsConfigured reports whether blob storage credentials are present.
func (c *StorageConfig) IsConfigured() bool {
	return c.AccountName != "" && c.AccountKey != ""
}

// EmailConfig holds SendGrid settings.
type EmailConfig struct {
	APIKey          string `yaml:"-" env:"SENDGRID_API_KEY"` // Secret - not in YAML
	Enabled         bool   `yaml:"enabled" env:"EMAIL_ENABLED" env-default:"false"`
	From            string `yaml:"from" env:"EMAIL_FROM" env-default:"no-reply@civicode.local"`
	FrontendBaseURL string `yaml:"frontend_base_url" env:"FRONTEND_BASE_URL" env-default:""`
}

// PushConfig holds Web Push (VAPID) settings.
type PushConfig struct {
	VAPIDPublicKey  string `yaml:"vapid_public_key" env:"VAPID_PUBLIC_KEY" env-default:""`
	VAPIDPrivateKey string `yaml:"-" env:"VAPID_PRIVATE_KEY"` // Secret - not in YAML
	Subject         string `yaml:"subject" env:"VAPID_SUBJECT" env-default:"mailto:no-reply@civicode.local"`
}

// IsConfigured reports whether push keys are present.
func (c *PushConfig) IsConfigured() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

// AssistantConfig holds OpenAI assistant settings.
type AssistantConfig struct {
	APIKey      string `yaml:"-" env:"OPENAI_API_KEY"` // Secret - not in YAML
	AssistantID string `yaml:"assistant_id" env:"OPENAI_ASSISTANT_ID" env-default:""`

	// PollIntervalMS is the run status poll interval in milliseconds.
	PollIntervalMS int `yaml:"poll_interval_ms" env:"ASSISTANT_POLL_INTERVAL_MS" env-default:"750"`
	// TimeoutSeconds bounds the total wait for a run to complete.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"ASSISTANT_TIMEOUT_SECONDS" env-default:"30"`
}

// IsConfigured reports whether the assistant proxy can run.
func (c *AssistantConfig) IsConfigured() bool {
	return c.APIKey != "" && c.AssistantID != ""
}

// VisionConfig holds Anthropic image analysis settings.
type VisionConfig struct {
	APIKey string `yaml:"-" env:"ANTHROPIC_API_KEY"` // Secret - not in YAML
	Model  string `yaml:"model" env:"VISION_MODEL" env-default:"claude-3-5-sonnet-20241022"`
}

// IsConfigured reports whether vision calls can be made.
func (c *VisionConfig) IsConfigured() bool {
	return c.APIKey != ""
}

// DigestConfig holds the weekday digest schedule.
type DigestConfig struct {
	Enabled bool `yaml:"enabled" env:"DIGEST_ENABLED" env-default:"false"`
	// CronSpec defaults to 07:00 Monday through Friday.
	CronSpec string `yaml:"cron_spec" env:"DIGEST_CRON" env-default:"0 7 * * 1-5"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// A .env file, if present, is loaded into the environment first so local
// development matches the deployed container. The version parameter is
// injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	// Missing .env is fine; environment may already be populated.
	_ = godotenv.Load()

	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		// No config.yaml: fall back to env vars and defaults only.
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment config: %w", err)
		}
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Auth     AuthConfig
	WeChat   WeChatConfig
	Snapshot SnapshotConfig
	Sheets   SheetsConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// AuthConfig contains token issuance settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// WeChatConfig contains credentials for the WeChat mini-program login API.
type WeChatConfig struct {
	AppID     string
	AppSecret string
	BaseURL   string
}

// SnapshotConfig holds the nightly stats snapshot schedule.
type SnapshotConfig struct {
	CronSchedule string
}

// SheetsConfig contains optional Google Sheets export settings. When either
// field is empty the sheets export is disabled and snapshots only go to
// MongoDB.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	tokenTTL, err := parseDurationWithDefault("JWT_EXPIRES_IN", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "fabstash"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  tokenTTL,
		},
		WeChat: WeChatConfig{
			AppID:     os.Getenv("WX_APP_ID"),
			AppSecret: os.Getenv("WX_APP_SECRET"),
			BaseURL:   getenvWithDefault("WX_BASE_URL", "https://api.weixin.qq.com"),
		},
		Snapshot: SnapshotConfig{
			CronSchedule: getenvWithDefault("SNAPSHOT_CRON_SCHEDULE", "0 2 * * *"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Metrics: MetricsConfig{
			Enabled: getenvWithDefault("METRICS_ENABLED", "true") == "true",
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("JWT_EXPIRES_IN must be a positive duration")
	}

	switch {
	case c.WeChat.AppID == "":
		return errors.New("WX_APP_ID must be provided")
	case c.WeChat.AppSecret == "":
		return errors.New("WX_APP_SECRET must be provided")
	case c.WeChat.BaseURL == "":
		return errors.New("WX_BASE_URL must not be empty")
	}

	if c.Snapshot.CronSchedule == "" {
		return errors.New("SNAPSHOT_CRON_SCHEDULE must be provided")
	}

	// Sheets export is optional, but half-configured is a mistake worth
	// surfacing at startup.
	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must both be set to enable sheets export")
	}

	return nil
}

// SheetsEnabled reports whether snapshot rows should also be appended to a
// Google Sheet.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseDurationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s: %w", key, err)
	}
	return d, nil
}

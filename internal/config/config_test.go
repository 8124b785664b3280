package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("WX_APP_ID", "wx-app")
	t.Setenv("WX_APP_SECRET", "wx-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	require.Equal(t, "fabstash", cfg.MongoDB.DBName)
	require.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, "https://api.weixin.qq.com", cfg.WeChat.BaseURL)
	require.Equal(t, "0 2 * * *", cfg.Snapshot.CronSchedule)
	require.True(t, cfg.Metrics.Enabled)
	require.False(t, cfg.SheetsEnabled())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_EXPIRES_IN", "72h")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL)
	require.False(t, cfg.Metrics.Enabled)
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("WX_APP_ID", "wx-app")
	t.Setenv("WX_APP_SECRET", "wx-secret")

	_, err := Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_EXPIRES_IN", "soon")

	_, err := Load("")
	require.Error(t, err)
}

func TestValidateRejectsHalfConfiguredSheets(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: "8080"},
		MongoDB:  MongoDBConfig{URI: "mongodb://localhost:27017", DBName: "db"},
		Auth:     AuthConfig{JWTSecret: "s", TokenTTL: time.Hour},
		WeChat:   WeChatConfig{AppID: "a", AppSecret: "b", BaseURL: "c"},
		Snapshot: SnapshotConfig{CronSchedule: "0 2 * * *"},
		Sheets:   SheetsConfig{CredentialsPath: "creds.json"},
	}

	err := cfg.Validate()
	require.Error(t, err)
}

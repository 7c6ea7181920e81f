package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", cfg.Timezone)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "03:00", cfg.Tracker.DailyAt)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
timezone: UTC
logging:
  level: debug
tracker:
  daily_at: "04:30"
storage:
  path: /tmp/test.db
  busy_timeout: 2s
web:
  enabled: true
  addr: ":9999"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "04:30", cfg.Tracker.DailyAt)
	assert.Equal(t, "/tmp/test.db", cfg.Storage.Path)
	assert.Equal(t, ":9999", cfg.Web.Addr)
	// untouched sections keep defaults
	assert.Equal(t, 3, cfg.Telegram.RatePerSec)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "timzone: UTC\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	path := writeConfig(t, "timezone: Mars/Olympus\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "storage:\n  busy_timeout: five seconds\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverlay(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.Telegram.Enabled)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, int64(-100200300), cfg.Telegram.ChatID)
}

func TestParseDurationOrDefault(t *testing.T) {
	d, err := ParseDurationOrDefault("x", "", 7*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, d)

	d, err = ParseDurationOrDefault("x", "250ms", 7*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)
}

func TestLocation(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "UTC"
	assert.Equal(t, time.UTC, cfg.Location())
}

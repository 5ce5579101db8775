package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
server:
  addr: ":9090"
database:
  path: `+filepath.Join(dir, "data", "meetroom.db")+`
redis:
  address: "localhost:6379"
  cache_ttl_seconds: 120
reminders:
  enabled: true
  schedule: "*/10 * * * *"
  window_hours: 48
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 120*time.Second, cfg.CacheTTL())
	assert.True(t, cfg.Reminders.Enabled)
	assert.Equal(t, 48*time.Hour, cfg.ReminderWindow())
	assert.DirExists(t, filepath.Join(dir, "data"), "database directory is created")
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
database:
  path: `+filepath.Join(dir, "meetroom.db")+`
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL())
	assert.Equal(t, 24*time.Hour, cfg.ReminderWindow())
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("MEETROOM_TEST_TOKEN", "secret-token")
	dir := t.TempDir()
	path := writeConfig(t, `
database:
  path: `+filepath.Join(dir, "meetroom.db")+`
notifications:
  telegram:
    bot_token: "${MEETROOM_TEST_TOKEN}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.Notifications.Telegram.BotToken)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

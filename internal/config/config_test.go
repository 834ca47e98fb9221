package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	uploads := filepath.Join(dir, "uploads")
	writeConfig(t, dir, `
database:
  driver: postgres
  host: localhost
jwt:
  secret: dev-secret
storage:
  local_path: `+uploads+`
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "gpt-4o-mini", cfg.Moderation.Model)
	assert.Equal(t, 5*time.Second, cfg.Moderation.Timeout())
	assert.Equal(t, 8, cfg.Notification.BroadcastConcurrency)
	assert.Equal(t, 600, cfg.RateLimit.MaxRequests)

	// 本地存储目录自动创建
	_, err = os.Stat(uploads)
	assert.NoError(t, err)
}

func TestLoadConfigRejectsInvalidSettings(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
server:
  mode: release
database:
  driver: mysql
jwt:
  secret: short
storage:
  type: minio
`)
	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "JWT secret is too short")

	writeConfig(t, dir, `
database:
  driver: sqlite
storage:
  type: minio
`)
	_, err = LoadConfig(dir)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestModerationTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, ModerationConfig{}.Timeout())
	assert.Equal(t, 2*time.Second, ModerationConfig{TimeoutSeconds: 2}.Timeout())
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eljasus/guardian/internal/setup/config"
)

// writeConfig places a guardian.toml where LoadConfig searches first.
// t.Chdir means these tests cannot run in parallel.
func writeConfig(t *testing.T, content string) {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.Mkdir(filepath.Join(dir, ".eljasus"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".eljasus", "guardian.toml"),
		[]byte(content), 0o644))
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, path, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, path)

	assert.Equal(t, config.CurrentVersion, cfg.Version)
	assert.Equal(t, 2, cfg.Moderation.WarnLimit)
	assert.Equal(t, 3, cfg.Moderation.PermBanThreshold)
	assert.Equal(t, 7*24*time.Hour, cfg.Moderation.BanDuration())
	assert.Equal(t, 30*time.Second, cfg.Moderation.PollInterval())
	assert.Equal(t, config.StoreClientRueidis, cfg.Store.Client)
	assert.Equal(t, "127.0.0.1", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
}

func TestLoadConfigOverrides(t *testing.T) {
	writeConfig(t, `
version = 1

[debug]
log_level = "debug"

[store]
client = "goredis"

[moderation]
warn_limit = 3
ban_duration_ms = 3600000
`)

	cfg, path, err := config.LoadConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, path)

	assert.Equal(t, "debug", cfg.Debug.LogLevel)
	assert.Equal(t, config.StoreClientGoRedis, cfg.Store.Client)
	assert.Equal(t, 3, cfg.Moderation.WarnLimit)
	assert.Equal(t, time.Hour, cfg.Moderation.BanDuration())

	// Unset keys keep their defaults
	assert.Equal(t, 3, cfg.Moderation.PermBanThreshold)
	assert.Equal(t, 6379, cfg.Redis.Port)
}

func TestLoadConfigVersionMissing(t *testing.T) {
	writeConfig(t, `
[moderation]
warn_limit = 3
`)

	_, _, err := config.LoadConfig()
	require.ErrorIs(t, err, config.ErrConfigVersionMissing)
}

func TestLoadConfigVersionMismatch(t *testing.T) {
	writeConfig(t, `version = 99`)

	_, _, err := config.LoadConfig()
	require.ErrorIs(t, err, config.ErrConfigVersionMismatch)
}

func TestLoadConfigUnknownStoreClient(t *testing.T) {
	writeConfig(t, `
version = 1

[store]
client = "memcached"
`)

	_, _, err := config.LoadConfig()
	require.ErrorIs(t, err, config.ErrUnknownStoreClient)
}

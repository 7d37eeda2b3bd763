package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// t.Setenv registers the restore; unset so the defaults apply
	t.Setenv("NEWSROOM_API_URL", "")
	require.NoError(t, os.Unsetenv("NEWSROOM_API_URL"))
	t.Setenv("NEWSROOM_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("NEWSROOM_LOG_LEVEL"))
	t.Setenv("NEWSROOM_STATE_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEWSROOM_API_URL", "https://news.example.com")
	t.Setenv("NEWSROOM_STATE_DIR", dir)
	t.Setenv("NEWSROOM_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://news.example.com", cfg.APIBaseURL)
	assert.Equal(t, dir, cfg.StateDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFileOverlayWinsOverEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEWSROOM_API_URL", "https://env.example.com")
	t.Setenv("NEWSROOM_STATE_DIR", dir)

	yaml := "api_url: https://file.example.com\nlog_level: warn\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com", cfg.APIBaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestPartialOverlayKeepsOtherValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEWSROOM_API_URL", "https://env.example.com")
	t.Setenv("NEWSROOM_STATE_DIR", dir)
	t.Setenv("NEWSROOM_LOG_LEVEL", "debug")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log_level: error\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.APIBaseURL, "keys absent from the file keep their env value")
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestMalformedOverlayFails(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEWSROOM_STATE_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log_level: [unclosed"), 0o600))

	_, err := Load()
	assert.Error(t, err)
}

func TestStatePaths(t *testing.T) {
	cfg := &Config{StateDir: "/tmp/newsroom-test"}

	assert.Equal(t, filepath.Join("/tmp/newsroom-test", "credentials.json"), cfg.CredentialsPath())
	assert.Equal(t, filepath.Join("/tmp/newsroom-test", "newsroom.log"), cfg.LogPath())
	assert.Equal(t, filepath.Join("/tmp/newsroom-test", "2fa-qr.png"), cfg.QRCodePath())
}

func TestEnsureStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	cfg := &Config{StateDir: dir}

	require.NoError(t, cfg.EnsureStateDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

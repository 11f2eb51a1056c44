package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GHCARDS_TITLE", "GHCARDS_FORM", "GITHUB_API_URL", "GITHUB_TOKEN", "GHCARDS_ADDR", "GHCARDS_CACHE", "GHCARDS_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	timeout, err := cfg.GetGitHubTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	path := filepath.Join(t.TempDir(), "githubcards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: My Cards
form:
  variant: value
github:
  timeout: "0"
cache:
  enabled: true
  path: /tmp/cards.db
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "My Cards", cfg.Title)
	assert.Equal(t, "value", cfg.Form.Variant)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "/tmp/cards.db", cfg.Cache.Path)

	timeout, err := cfg.GetGitHubTimeout()
	require.NoError(t, err)
	assert.Zero(t, timeout)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	t.Run("env beats defaults", func(t *testing.T) {
		t.Setenv("GHCARDS_TITLE", "Env Title")
		t.Setenv("GITHUB_TOKEN", "tok")
		t.Setenv("GHCARDS_ADDR", ":9090")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "Env Title", cfg.Title)
		assert.Equal(t, "tok", cfg.GitHub.Token)
		assert.Equal(t, ":9090", cfg.Server.Addr)
	})

	t.Run("cache path enables cache", func(t *testing.T) {
		t.Setenv("GHCARDS_CACHE", "/tmp/x.db")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.True(t, cfg.Cache.Enabled)
		assert.Equal(t, "/tmp/x.db", cfg.Cache.Path)
	})

	t.Run("dotenv file", func(t *testing.T) {
		dir := t.TempDir()
		chdir(t, dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GHCARDS_FORM=value\n"), 0644))
		// godotenv never overrides variables that are already set
		require.NoError(t, os.Unsetenv("GHCARDS_FORM"))
		t.Cleanup(func() { _ = os.Unsetenv("GHCARDS_FORM") })

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "value", cfg.Form.Variant)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown variant", func(c *Config) { c.Form.Variant = "hooks" }},
		{"bad base url", func(c *Config) { c.GitHub.BaseURL = "not a url" }},
		{"empty title", func(c *Config) { c.Title = "" }},
		{"bad timeout", func(c *Config) { c.GitHub.Timeout = "soon" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	path := filepath.Join(t.TempDir(), "nested", "githubcards.yaml")
	cfg := DefaultConfig()
	cfg.Title = "Saved"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

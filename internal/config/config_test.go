package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 10, cfg.GitHub.RateLimit)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 100, cfg.Mining.Limit)
	assert.Equal(t, "results", cfg.Mining.ResultsDir)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := writeConfig(t, `
github:
  rate_limit: 3
mining:
  limit: 25
  results_dir: out
cache:
  enabled: false
`)

	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.GitHub.RateLimit)
	assert.Equal(t, 25, cfg.Mining.Limit)
	assert.Equal(t, "out", cfg.Mining.ResultsDir)
	assert.False(t, cfg.Cache.Enabled)
	// Untouched keys keep their defaults.
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
}

func TestLoadEnvWinsForSecrets(t *testing.T) {
	dir := writeConfig(t, `
github:
  token: from-file
`)
	t.Setenv("GITHUB_TOKEN", "from-env")
	t.Setenv("GEMINI_API_KEY", "gemini-env")

	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.GitHub.Token)
	assert.Equal(t, "gemini-env", cfg.Gemini.APIKey)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if content != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	}
	return dir
}

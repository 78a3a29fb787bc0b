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
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 4*time.Hour, cfg.MinInterval())
	assert.Equal(t, 5*time.Hour, cfg.MaxInterval())
	assert.Equal(t, 3*time.Second, cfg.ClassifierTimeout())
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
scheduler:
  enabled: true
  min_interval_minutes: 60
  max_interval_minutes: 90
filter:
  classifier_enabled: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.MinInterval())
	assert.Equal(t, 90*time.Minute, cfg.MaxInterval())
	assert.True(t, cfg.Filter.ClassifierEnabled)
	assert.Equal(t, 3*time.Second, cfg.ClassifierTimeout(), "unset fields keep defaults")
}

func TestLoadConfigRejectsInvalidIntervalBand(t *testing.T) {
	path := writeConfig(t, `
scheduler:
  min_interval_minutes: 120
  max_interval_minutes: 60
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGeminiAPIKeyEnvFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg := Default()
	assert.Equal(t, "from-env", cfg.GeminiAPIKey())

	cfg.Gemini.APIKey = "from-file"
	assert.Equal(t, "from-file", cfg.GeminiAPIKey(), "explicit config wins over environment")
}

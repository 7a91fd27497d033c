package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, Default().Server.BaseURL, cfg.Server.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 10, cfg.Quiz.TotalQuestions)
	assert.Equal(t, "default_user", cfg.UserID)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "quizpath"), 0o755))
	yaml := `
server:
  base_url: https://quiz.example.com/
  timeout: 5s
quiz:
  total_questions: 5
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quizpath", "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("QUIZPATH_USER_ID", "learner-7")
	t.Setenv("QUIZPATH_API_KEY", "k-123")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "https://quiz.example.com", cfg.Server.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 5, cfg.Quiz.TotalQuestions)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "learner-7", cfg.UserID)
	assert.Equal(t, "k-123", cfg.Server.APIKey)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.Server.BaseURL = "localhost:8000" }},
		{"bad scheme", func(c *Config) { c.Server.BaseURL = "ftp://x" }},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }},
		{"no questions", func(c *Config) { c.Quiz.TotalQuestions = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"negative burst", func(c *Config) { c.Mock.Burst = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

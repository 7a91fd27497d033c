package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/quizpath/internal/config"
)

func TestNewWritesJSONFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "test.log")
	cfg := config.Default().Log
	cfg.File = file
	var console bytes.Buffer

	logger, err := New(cfg, &console)
	require.NoError(t, err)
	logger.Info("session started", zap.String("session_id", "s1"))
	logger.Debug("hidden at info level")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "session started", entry["msg"])
	assert.Equal(t, "s1", entry["session_id"])
	assert.Equal(t, "INFO", entry["level"])

	assert.Contains(t, console.String(), "session started")
}

func TestNewRejectsBadLevel(t *testing.T) {
	cfg := config.Default().Log
	cfg.Level = "loud"
	cfg.File = filepath.Join(t.TempDir(), "x.log")
	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestDefaultFileUsesStateHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	p, err := DefaultFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "quizpath", "quizpath.log"), p)
}

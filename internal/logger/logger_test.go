package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/akaun/internal/config"
)

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "akaun.log")
	log, err := New(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1}, Options{})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("drill complete")
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "drill complete", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "akaun.log")
	log, err := New(config.LogConfig{Level: "debug", File: path}, Options{Console: true, Stderr: &buf})
	require.NoError(t, err)

	log.Debug("serving")
	log.Sync()
	assert.Contains(t, buf.String(), "serving")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud", File: filepath.Join(t.TempDir(), "x.log")}, Options{})
	assert.Error(t, err)
}

func TestDefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	p, err := DefaultFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "akaun", "akaun.log"), p)
}

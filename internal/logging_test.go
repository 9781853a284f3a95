package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	logger, err := NewLogger(dir, false)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("video saved")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"video saved"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewLoggerDebug(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, true)
	require.NoError(t, err)
	logger.Debug("resolved video")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "resolved video")
}

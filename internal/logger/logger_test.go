package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_CreatesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	t.Cleanup(func() { Logger = nil })

	require.NoError(t, Init(Config{Dir: dir}))
	require.NotNil(t, Logger)

	Info("storage fallback", "path", "/tmp/x.json")

	data, err := os.ReadFile(filepath.Join(dir, "st8.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "storage fallback")
	assert.Contains(t, string(data), "path=/tmp/x.json")
}

func TestInit_DebugLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { Logger = nil })

	require.NoError(t, Init(Config{Dir: dir}))
	Debug("hidden detail")
	Warn("visible warning")

	data, err := os.ReadFile(filepath.Join(dir, "st8.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden detail")
	assert.Contains(t, string(data), "visible warning")
}

func TestHelpers_NoopWithoutLogger(t *testing.T) {
	Logger = nil
	assert.NotPanics(t, func() {
		Debug("a")
		Info("b")
		Warn("c")
		Error("d")
	})
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { Logger = nil })

	Error("write failed", "err", "disk full")
	assert.Contains(t, buf.String(), "write failed")
	assert.Contains(t, buf.String(), "disk full")
}

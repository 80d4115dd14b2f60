package log

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogging(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "test.log")

	logger, err := New(Config{
		Level:    "debug",
		FilePath: logPath,
	})
	require.NoError(t, err)

	SetDefaultLogger(logger)
	t.Cleanup(func() { SetDefaultLogger(nil) })

	Debug("Debug message", "test", true)
	Info("Info message", "test", true)
	Warn("Warning message", "test", true)
	Error("Error message", "error", fmt.Errorf("test error"))
	Trace("Trace message")
	logger.With("run_id", "abc").Info("Scoped message")

	logger.Close()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	contentStr := string(content)
	assert.Contains(t, contentStr, "Debug message")
	assert.Contains(t, contentStr, "Info message")
	assert.Contains(t, contentStr, "Warning message")
	assert.Contains(t, contentStr, "Error message")
	assert.Contains(t, contentStr, "test error")
	assert.Contains(t, contentStr, `"run_id":"abc"`)
	// Trace is only written when the level is trace
	assert.NotContains(t, contentStr, "Trace message")
}

func TestTraceLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "trace.log")

	logger, err := New(Config{Level: "TRACE", FilePath: logPath})
	require.NoError(t, err)
	SetDefaultLogger(logger)
	t.Cleanup(func() { SetDefaultLogger(nil) })

	Trace("request sent", "id", 1)
	logger.Close()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "TRACE: request sent")
}

func TestLoggerWithoutFileDiscards(t *testing.T) {
	logger, err := New(Config{Level: "info"})
	require.NoError(t, err)

	logger.Info("goes nowhere")
	logger.Close()
}

func TestPackageFunctionsWithoutDefaultLogger(t *testing.T) {
	SetDefaultLogger(nil)
	assert.NotPanics(t, func() {
		Info("no logger set")
		Trace("no logger set")
		With("run_id", "abc").Info("no logger set")
	})
}

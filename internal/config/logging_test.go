package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Barneybot002/monad-testbot/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  config.LogLevel
	}{
		{"off", config.LogLevelOff},
		{"none", config.LogLevelOff},
		{"error", config.LogLevelError},
		{"info", config.LogLevelInfo},
		{"DEBUG", config.LogLevelDebug},
		{" debug ", config.LogLevelDebug},
		{"garbage", config.LogLevelInfo},
		{"", config.LogLevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, config.ParseLogLevel(tt.input), "input %q", tt.input)
	}
}

func TestLogger_WritesToFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "bot.log")

	logger, err := config.NewLogger(config.LogLevelDebug, logPath)
	require.NoError(t, err)

	logger.Info("dispatching event for user %s", "u1")
	logger.Debug("session state %s", "BUY_AMOUNT")
	logger.Error("swap failed: %s", "reverted")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logPath) // #nosec G304 -- test temp path
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[INFO] dispatching event for user u1")
	assert.Contains(t, content, "[DEBUG] session state BUY_AMOUNT")
	assert.Contains(t, content, "[ERROR] swap failed: reverted")
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "bot.log")

	logger, err := config.NewLogger(config.LogLevelError, logPath)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Error("visible")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logPath) // #nosec G304 -- test temp path
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}

func TestNullLogger(t *testing.T) {
	t.Parallel()

	logger := config.NullLogger()
	// Must not panic with no sink configured.
	logger.Info("ignored")
	logger.Error("ignored")
	assert.Equal(t, config.LogLevelOff, logger.Level())
	assert.NoError(t, logger.Close())
}

func TestLogger_SetLevel(t *testing.T) {
	t.Parallel()

	logger := config.NullLogger()
	logger.SetLevel(config.LogLevelDebug)
	assert.Equal(t, config.LogLevelDebug, logger.Level())
}

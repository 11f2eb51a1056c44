package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marcusziade/githubcards/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "warn", Format: "json"}, false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = New(config.LoggingConfig{Level: "warn", Format: "console"}, true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.log")
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json", File: path}, false)
	require.NoError(t, err)

	logger.Info("Profile added")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Profile added")
}

package logger

import (
	"path/filepath"
	"testing"

	"github.com/love-prep/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()
	log, err := New(config.ServerConfig{
		Mode:     "release",
		LogLevel: "warn",
		LogFile:  filepath.Join(dir, "app.log"),
	})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	assert.True(t, log.Core().Enabled(zap.WarnLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.ServerConfig{Mode: "release", LogLevel: "chatty"})
	assert.Error(t, err)
}

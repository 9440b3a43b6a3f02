package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestInit(t *testing.T) {
	z, err := Init("warn", "console")
	require.NoError(t, err)
	assert.False(t, z.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, z.Core().Enabled(zapcore.WarnLevel))
	assert.Same(t, z, Zap())

	named := Named("Test")
	named.Info("dropped below warn")
	named.Warn("kept", "key", "value")

	Nop().Error("discarded")
}

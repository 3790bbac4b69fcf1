package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		logger, err := NewLogger(tt.level, "json", "owl-withings")
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(tt.want), "level=%q", tt.level)
		if tt.want > zapcore.DebugLevel {
			assert.False(t, logger.Core().Enabled(tt.want-1), "level=%q", tt.level)
		}
	}
}

func TestNewLogger_Console(t *testing.T) {
	logger, err := NewLogger("info", "console", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

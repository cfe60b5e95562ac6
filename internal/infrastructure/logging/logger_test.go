package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/ersonp/revmod/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LogConfig
		level zapcore.Level
	}{
		{"console debug", config.LogConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{"json warn", config.LogConfig{Level: "warn", Format: "json"}, zapcore.WarnLevel},
		{"empty level defaults to info", config.LogConfig{}, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.level))
			if tt.level > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.level-1))
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing log level")
}

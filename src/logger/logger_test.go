package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARNING"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("ERROR"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("INFO"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNamedAndNop(t *testing.T) {
	l := Nop().Named("Cache")
	assert.Equal(t, "Cache", l.name)

	// Nop discards without panicking
	l.Debug("debug %d", 1)
	l.Info("info %s", "x")
	l.Warning("warn")
	l.Error("error %v", nil)
	assert.NoError(t, l.Sync())
}

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPrintfHelpersWriteThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	Info("deposit %s approved", "dep-1")
	Warn("retrying %d", 2)
	Error("failed: %v", "boom")

	entries := logs.All()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, "deposit dep-1 approved", entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Equal(t, "failed: boom", entries[2].Message)
	}
}

func TestConfigureRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Configure("loud", "production"))
	assert.NoError(t, Configure("info", "production"))
}

package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamed(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := Set(zap.New(core))
	defer restore()

	Named("widget").Info("status loaded", zap.Int64("telegram_id", 42))
	Named("widget").Debug("below level")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "widget", entries[0].LoggerName)
	assert.Equal(t, "status loaded", entries[0].Message)
	assert.Equal(t, int64(42), entries[0].ContextMap()["telegram_id"])
}

func TestSetRestores(t *testing.T) {
	before := Logger()

	restore := Set(zap.NewExample())
	assert.NotSame(t, before, Logger())

	restore()
	assert.Same(t, before, Logger())
}

func TestInitialize(t *testing.T) {
	restore := Set(Logger())
	defer restore()

	require.Error(t, Initialize("loud", "missions-backend"))

	require.NoError(t, Initialize("debug", "missions-backend"))
	assert.True(t, Logger().Core().Enabled(zap.DebugLevel))
}

package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_ErrorAttachesCause(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Error("insert failed", errors.New("duplicate key"), zap.String("collection", "users"))
	l.Error("no cause", nil)

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "duplicate key", entries[0].ContextMap()["error"])
	assert.Equal(t, "users", entries[0].ContextMap()["collection"])
	_, hasErr := entries[1].ContextMap()["error"]
	assert.False(t, hasErr)
}

func TestZapLogger_WithKeepsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewFromZap(zap.New(core)).With(zap.String("request_id", "abc"))

	l.Debug("dropped below level")
	l.Info("hello")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].ContextMap()["request_id"])
}

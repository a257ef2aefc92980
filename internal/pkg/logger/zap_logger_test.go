package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_PromotesSessionID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Info("SUPERVISOR", "Action chosen", map[string]interface{}{"session_id": "s1", "action": "score_candidates"})
	l.Debug("TOOL", "no details", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "SUPERVISOR", fields["module"])
	assert.Equal(t, "s1", fields["session_id"])
	assert.Equal(t, "Action chosen", entries[0].Message)

	_, hasSession := entries[1].ContextMap()["session_id"]
	assert.False(t, hasSession)
}

func TestZapLogger_ErrorRef(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Error("TOOL", "Similarity search failed", map[string]interface{}{"error": errors.New("timeout").Error()})
	l.Warn("TOOL", "fallback", map[string]interface{}{"purpose": "card_rationale"})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "timeout", entries[0].ContextMap()["error_ref"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"fatal": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestFromContext verifies the context helpers scope the logger correctly.
func TestFromContext(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	scoped := zap.New(core).Sugar()

	ctx := ToContext(context.Background(), scoped)
	ctx = WithName(ctx, "updater")
	ctx = WithKV(ctx, "tag", "v1.2.0")

	InfoKV(ctx, "hello", "key", "value")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "hello", entries[0].Message)
	require.Equal(t, "updater", entries[0].LoggerName)

	fields := entries[0].ContextMap()
	require.Equal(t, "v1.2.0", fields["tag"])
	require.Equal(t, "value", fields["key"])
}

// TestFromContext_Fallback ensures a bare context yields the global logger.
func TestFromContext_Fallback(t *testing.T) {
	t.Parallel()

	require.Equal(t, Logger(), FromContext(context.Background()))
}

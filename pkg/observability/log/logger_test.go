package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return FromZap(zap.New(core), level), logs
}

func TestLoggerLevelFiltering(t *testing.T) {
	l, logs := newObserved(LevelWarn)

	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept")
	l.Error("kept too")

	assert.Equal(t, 2, logs.Len())

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())
	l.Debug("now visible")
	assert.Equal(t, 3, logs.Len())

	l.SetLevel(LevelSilent)
	l.Error("silenced")
	assert.Equal(t, 3, logs.Len())
	assert.Equal(t, LevelSilent, l.GetLevel())
}

func TestLoggerFields(t *testing.T) {
	l, logs := newObserved(LevelDebug)
	child := l.With(String("component", "registry"))

	child.Info("loaded",
		Int("count", 3),
		Uint64("entity", 7),
		Bool("ok", true),
		Duration("took", time.Millisecond),
		Strings("names", []string{"a", "b"}),
		Error(errors.New("boom")),
		Error(nil),
	)

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "registry", ctx["component"])
	assert.Equal(t, int64(3), ctx["count"])
	assert.Equal(t, uint64(7), ctx["entity"])
	assert.Equal(t, true, ctx["ok"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestWithSharesLevel(t *testing.T) {
	l, logs := newObserved(LevelInfo)
	child := l.Named("ecs")

	l.SetLevel(LevelError)
	child.Warn("filtered")
	assert.Equal(t, 0, logs.Len())
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"off":     LevelSilent,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewRejectsUnknownEncoding(t *testing.T) {
	_, err := New(Options{Encoding: "xml"})
	assert.Error(t, err)
}

func TestNopDiscards(t *testing.T) {
	l := NewNop()
	l.Error("nothing happens")
	assert.Equal(t, LevelSilent, l.GetLevel())
}

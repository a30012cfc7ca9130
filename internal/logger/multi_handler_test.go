package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHandler struct{ err error }

func (h failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h failingHandler) Handle(context.Context, slog.Record) error { return h.err }
func (h failingHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h failingHandler) WithGroup(string) slog.Handler             { return h }

func TestMultiHandler_FansOut(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&a, nil),
		nil,
		slog.NewJSONHandler(&b, nil),
	)
	slog.New(h).With("module", "bot").Info("routed")

	assert.Contains(t, a.String(), `"module":"bot"`)
	assert.Contains(t, b.String(), `"msg":"routed"`)
}

func TestMultiHandler_RespectsLevels(t *testing.T) {
	t.Parallel()

	var verbose, quiet bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&verbose, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
	slog.New(h).Debug("trace")

	assert.NotEmpty(t, verbose.String())
	assert.Empty(t, quiet.String())
}

func TestMultiHandler_JoinsErrors(t *testing.T) {
	t.Parallel()

	errA := errors.New("a failed")
	errB := errors.New("b failed")
	h := NewMultiHandler(failingHandler{errA}, failingHandler{errB})

	err := h.Handle(context.Background(), slog.Record{Level: slog.LevelInfo})
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestMultiHandler_Empty(t *testing.T) {
	t.Parallel()

	h := NewMultiHandler()
	assert.False(t, h.Enabled(context.Background(), slog.LevelError))
	assert.NoError(t, h.Handle(context.Background(), slog.Record{}))
}

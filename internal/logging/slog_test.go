package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_ConsoleAndFile(t *testing.T) {
	consoleBuf := captureConsole(t)

	var fileBuf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&fileBuf, "info", nil)
	m.Logger().Info("hello both")

	assert.Contains(t, fileBuf.String(), "hello both", "log should appear in file")
	assert.Contains(t, consoleBuf.String(), "hello both", "log should appear on console")
	// file records are JSON
	assert.Contains(t, fileBuf.String(), `"msg":"hello both"`)
}

func TestSetup_NoFile_WritesToConsole(t *testing.T) {
	consoleBuf := captureConsole(t)

	m := NewSlogManager()
	m.Setup(nil, "info", nil)
	m.Logger().Info("hello console")

	assert.Contains(t, consoleBuf.String(), "hello console")
}

func TestSetup_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "debug", nil)

	m.Logger().Debug("debug msg")
	m.Logger().Info("info msg")

	output := buf.String()
	assert.Contains(t, output, "debug msg")
	assert.Contains(t, output, "info msg")
}

func TestSetup_InfoLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil)

	m.Logger().Debug("should be filtered")
	m.Logger().Info("should appear")

	output := buf.String()
	assert.NotContains(t, output, "should be filtered")
	assert.Contains(t, output, "should appear")
}

func TestSetup_ReplacesLogger(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	m := NewSlogManager()

	m.Setup(&buf1, "info", nil)
	m.Logger().Info("first")

	m.Setup(&buf2, "info", nil)
	m.Logger().Info("second")

	assert.Contains(t, buf1.String(), "first")
	assert.NotContains(t, buf1.String(), "second", "old file should not receive new logs")
	assert.Contains(t, buf2.String(), "second")
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	logger := m.Logger()
	assert.Equal(t, slog.Default(), logger)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestMultiHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("console and file both get the record", func(t *testing.T) {
		var console, file bytes.Buffer
		m := NewMultiHandler(
			slog.NewTextHandler(&console, nil),
			nil,
			slog.NewJSONHandler(&file, nil),
		)
		require.Len(t, m.handlers, 2)

		slog.New(m).Info("leg computed", "bearing", 270)
		assert.Contains(t, console.String(), "bearing=270")
		assert.Contains(t, file.String(), `"bearing":270`)
	})

	t.Run("level gate per handler", func(t *testing.T) {
		var quiet, verbose bytes.Buffer
		m := NewMultiHandler(
			slog.NewTextHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelWarn}),
			slog.NewTextHandler(&verbose, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
		assert.True(t, m.Enabled(ctx, slog.LevelDebug))

		slog.New(m).Debug("zone sampled")
		assert.Empty(t, quiet.String())
		assert.Contains(t, verbose.String(), "zone sampled")
	})

	t.Run("no handlers", func(t *testing.T) {
		m := NewMultiHandler()
		assert.False(t, m.Enabled(ctx, slog.LevelError))
		assert.NoError(t, m.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelError, "dropped", 0)))
	})

	t.Run("attrs and groups reach every handler", func(t *testing.T) {
		var a, b bytes.Buffer
		m := NewMultiHandler(slog.NewTextHandler(&a, nil), slog.NewTextHandler(&b, nil))

		logger := slog.New(m.WithAttrs([]slog.Attr{slog.String("crs", "EPSG:3857")}).WithGroup("zone"))
		logger.Info("generated", "points", 65)
		for _, out := range []string{a.String(), b.String()} {
			assert.Contains(t, out, "crs=EPSG:3857")
			assert.Contains(t, out, "zone.points=65")
		}

		assert.Same(t, m, m.WithGroup(""))
	})
}

// errorHandler is a slog.Handler that always returns an error from Handle.
type errorHandler struct {
	slog.Handler
}

func (h *errorHandler) Handle(_ context.Context, _ slog.Record) error {
	return errors.New("handler error")
}

func (h *errorHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func TestMultiHandler_HandleError(t *testing.T) {
	var buf bytes.Buffer
	spy := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	// First handler errors, second (spy) should still receive the record.
	multi := NewMultiHandler(&errorHandler{}, spy)
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "should reach spy", 0)
	err := multi.Handle(context.Background(), r)

	assert.EqualError(t, err, "handler error")
	assert.Contains(t, buf.String(), "should reach spy")
}

func TestWithContextAttrs(t *testing.T) {
	captureConsole(t)

	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil)

	ctx := WithContextAttrs(context.Background(), slog.String("task", "lasham.tsk"))
	ctx = WithContextAttrs(ctx, slog.Int("point", 2))
	m.Logger().InfoContext(ctx, "zone generated")
	m.Logger().Info("no context")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"task":"lasham.tsk"`)
	assert.Contains(t, lines[0], `"point":2`)
	assert.NotContains(t, lines[1], "lasham.tsk")
}

func TestSetup_ContextProvider(t *testing.T) {
	captureConsole(t)

	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", func() []slog.Attr {
		return []slog.Attr{slog.String("run", "abc123")}
	})
	m.Logger().Info("tagged")

	assert.Contains(t, buf.String(), `"run":"abc123"`)
}

func TestContextHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, nil)
	h := NewContextHandler(inner, func() []slog.Attr {
		return []slog.Attr{slog.Int("n", 7)}
	})

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("component", "render")}))
	logger.Info("first")
	assert.Contains(t, buf.String(), "component=render")
	assert.Contains(t, buf.String(), "n=7")

	assert.Equal(t, h, h.WithGroup(""))
	slog.New(h.WithGroup("grp")).Info("second", "k", "v")
	assert.Contains(t, buf.String(), "grp.k=v")
}

func TestClose(t *testing.T) {
	captureConsole(t)

	f := &closeSpy{}
	m := NewSlogManager()
	m.Setup(f, "info", nil)
	require.NoError(t, m.Close())
	assert.True(t, f.closed)

	// second close is a no-op
	require.NoError(t, m.Close())

	// plain writers are left alone
	m.Setup(&bytes.Buffer{}, "info", nil)
	assert.NoError(t, m.Close())
}

type closeSpy struct {
	bytes.Buffer
	closed bool
}

func (c *closeSpy) Close() error {
	c.closed = true
	return nil
}

// captureConsole redirects console output to a buffer for the duration of
// the test.
func captureConsole(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	orig := console
	console = &buf
	t.Cleanup(func() { console = orig })
	return &buf
}

func TestSetup_TimeFormats(t *testing.T) {
	console := captureConsole(t)

	var file bytes.Buffer
	m := NewSlogManager()
	m.Setup(&file, "info", nil)
	m.Logger().Info("stamped")

	assert.NotContains(t, console.String(), "time=")
	assert.Regexp(t, `"time":"\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z"`, file.String())
}

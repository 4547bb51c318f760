package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// console is where log records go besides the optional file. Standard
// output is reserved for command results.
var console io.Writer = os.Stderr

// SlogManager manages slog-based logging to the console and an optional file.
type SlogManager struct {
	logger *slog.Logger

	// closed on Close when it implements io.Closer
	file io.Writer
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system. file may be nil for console-only
// output. provider, if set, adds attributes to every record; attributes
// attached with WithContextAttrs are added to records logged with that
// context.
func (m *SlogManager) Setup(file io.Writer, level string, provider ContextProvider) {
	lvl := parseLevel(level)
	m.file = file

	// Console lines omit the time.
	consoleOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}
	handlers := []slog.Handler{slog.NewTextHandler(console, consoleOpts)}

	// File records are JSON with UTC RFC3339 times.
	if file != nil {
		fileOpts := &slog.HandlerOptions{
			Level: lvl,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if t, ok := a.Value.Any().(time.Time); ok && a.Key == slog.TimeKey {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
				return a
			},
		}
		handlers = append(handlers, slog.NewJSONHandler(file, fileOpts))
	}

	m.logger = slog.New(NewContextHandler(NewMultiHandler(handlers...), provider))
	m.logger.Debug("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}

// Close releases the log file, if any.
func (m *SlogManager) Close() error {
	if c, ok := m.file.(io.Closer); ok {
		m.file = nil
		return c.Close()
	}
	return nil
}

// Package cli implements the design-canvas command-line interface.
//
// The root command starts the editor window; `config` prints the effective
// configuration and `snapshot` renders a scene, a drag and its guides and
// rulers to a PNG without opening a window. Every command supports
// --verbose (-v) for debug logging.
package cli

import (
	"context"
	"io"
	"log/slog"

	"design-canvas/internal/logging"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// installLogger routes the editor packages and the gg rasterizer through l.
func installLogger(l *log.Logger) {
	sl := slog.New(l)
	logging.SetLogger(sl)
	gg.SetLogger(sl)
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// Package cli implements the seesaw command-line interface.
//
// Commands drop objects onto the plank, reset it, show and render the
// current balance, run an interactive terminal view and serve the HTTP API.
// The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - drop: place an object at a plank coordinate
//   - reset: clear the plank
//   - status: table of objects and per-side totals
//   - render: SVG, JSON or text drawing of the plank
//   - play: interactive terminal seesaw
//   - serve: HTTP API with websocket push
//   - store: inspect or clear saved state
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context and injected into the controller.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
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

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

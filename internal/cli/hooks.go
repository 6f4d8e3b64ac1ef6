package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports simulation and store events to the CLI logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnPlace(_ context.Context, weight, distance, angle float64) {
	h.logger.Debug("place", "weight", weight, "distance", distance, "angle", angle)
}

func (h *logHooks) OnReject(_ context.Context, x float64, err error) {
	h.logger.Debug("reject", "x", x, "err", err)
}

func (h *logHooks) OnReset(context.Context) {
	h.logger.Debug("reset")
}

func (h *logHooks) OnRestore(_ context.Context, objects int, found bool, err error) {
	h.logger.Debug("restore", "objects", objects, "found", found, "err", err)
}

func (h *logHooks) OnLoad(_ context.Context, backend string, found bool, d time.Duration, err error) {
	h.logger.Debug("store load", "backend", backend, "found", found, "took", d.Round(time.Microsecond), "err", err)
}

func (h *logHooks) OnSave(_ context.Context, backend string, size int, d time.Duration, err error) {
	h.logger.Debug("store save", "backend", backend, "bytes", size, "took", d.Round(time.Microsecond), "err", err)
}

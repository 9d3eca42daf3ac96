package device

import (
	"context"
	"log/slog"

	"github.com/sarchlab/mataccel/mmio"
)

// Trace logs msg at the trace level shared with the bus traces.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), mmio.LevelTrace, msg, args...)
}

package mmio

import (
	"context"
	"log/slog"
)

// LevelTrace is the slog level of per-access bus traces. It sits below
// Debug, so handlers at the default Info level drop traces.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Trace logs msg at LevelTrace.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// TracedBus logs every access made through the wrapped Bus.
type TracedBus struct {
	Name string
	Bus  Bus
}

// Read32 reads from the wrapped bus and traces the access.
func (b TracedBus) Read32(offset uint32) uint32 {
	v := b.Bus.Read32(offset)
	Trace("Bus",
		"Behavior", "Read",
		"Window", b.Name,
		"Offset", offset,
		"Data", v,
	)

	return v
}

// Write32 traces the access and writes to the wrapped bus.
func (b TracedBus) Write32(offset uint32, value uint32) {
	Trace("Bus",
		"Behavior", "Write",
		"Window", b.Name,
		"Offset", offset,
		"Data", value,
	)
	b.Bus.Write32(offset, value)
}

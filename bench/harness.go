// Package bench runs the software and accelerator paths on the same operands
// and compares their results and cycle counts.
package bench

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sarchlab/mataccel/matrix"
	"github.com/sarchlab/mataccel/mmio"
	"github.com/sarchlab/mataccel/timer"
	"github.com/sarchlab/mataccel/verify"
)

// SoftwareEngine computes results on the host.
type SoftwareEngine interface {
	Compute(a, b matrix.Matrix16) matrix.Results
}

// Accelerator computes results on the peripheral.
type Accelerator interface {
	Compute(a, b matrix.Matrix16) (matrix.Results, error)
}

// Timer measures the cycles spent between Start and StopAndRead.
type Timer interface {
	Start()
	StopAndRead() timer.CycleCount
	Wrapped() bool
}

// Harness benchmarks the software engine against the accelerator. It holds
// no locks; a Harness and the handles it was built with must be used by one
// caller at a time.
type Harness struct {
	software    SoftwareEngine
	accelerator Accelerator
	timer       Timer
}

// Run times both paths on a and b and returns the comparison. Both operands
// must respect matrix.SafeInputMax.
func (h *Harness) Run(a, b matrix.Matrix16) (*Report, error) {
	r := &Report{A: a, B: b}

	h.timer.Start()
	r.Software = h.software.Compute(a, b)
	r.SoftwareCycles = h.timer.StopAndRead()
	r.SoftwareWrapped = h.timer.Wrapped()

	Trace("Benchmark",
		"Path", "Software",
		"Cycles", r.SoftwareCycles,
	)

	h.timer.Start()
	hw, err := h.accelerator.Compute(a, b)
	r.HardwareCycles = h.timer.StopAndRead()
	r.HardwareWrapped = h.timer.Wrapped()

	if err != nil {
		return nil, fmt.Errorf("accelerator run failed: %w", err)
	}

	r.Hardware = hw

	Trace("Benchmark",
		"Path", "Hardware",
		"Cycles", r.HardwareCycles,
	)

	if r.SoftwareWrapped || r.HardwareWrapped {
		slog.Warn("timer wrapped during measurement, cycle counts are unreliable",
			"SoftwareWrapped", r.SoftwareWrapped,
			"HardwareWrapped", r.HardwareWrapped,
		)
	}

	r.Speedup, r.SpeedupClamped = Speedup(r.SoftwareCycles, r.HardwareCycles)
	r.Issues = verify.CrossCheck(r.Software, r.Hardware)

	if len(r.Issues) > 0 {
		slog.Warn("software and hardware results differ",
			"Mismatches", len(r.Issues),
			"First", r.Issues[0].Message(),
		)
	}

	return r, nil
}

// Speedup returns software/hardware using integer division. A zero hardware
// count is clamped to one cycle, in which case clamped is true.
func Speedup(software, hardware timer.CycleCount) (speedup uint32, clamped bool) {
	if hardware == 0 {
		hardware = 1
		clamped = true
	}

	return uint32(software / hardware), clamped
}

// Trace logs msg at the bus trace level.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), mmio.LevelTrace, msg, args...)
}

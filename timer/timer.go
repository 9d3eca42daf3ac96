// Package timer measures elapsed cycles with a down-counting interval timer.
package timer

import "github.com/sarchlab/mataccel/mmio"

// Register map of the interval timer, in words from the timer base. Every
// register carries 16 significant bits.
const (
	StatusOffset     uint32 = 0
	ControlOffset    uint32 = 1
	PeriodLowOffset  uint32 = 2
	PeriodHighOffset uint32 = 3
	SnapLowOffset    uint32 = 4
	SnapHighOffset   uint32 = 5

	// RegisterWords is the size of the timer register set.
	RegisterWords = 6
)

// Status and control bits.
const (
	StatusTimeoutBit uint = 0
	StatusRunBit     uint = 1

	ControlCont  uint32 = 1 << 1
	ControlStart uint32 = 1 << 2
	ControlStop  uint32 = 1 << 3
)

const halfMask = 0xFFFF

// CycleCount is the number of timer ticks elapsed during one measurement.
type CycleCount uint32

// CycleTimer drives the interval timer. Start and StopAndRead must be called
// in pairs; overlapping measurements are not supported.
type CycleTimer struct {
	status     mmio.Register
	control    mmio.Register
	periodLow  mmio.Register
	periodHigh mmio.Register
	snapLow    mmio.Register
	snapHigh   mmio.Register
}

// New creates a CycleTimer on the timer register window.
func New(bus mmio.Bus) *CycleTimer {
	return &CycleTimer{
		status:     mmio.NewRegister(bus, StatusOffset),
		control:    mmio.NewRegister(bus, ControlOffset),
		periodLow:  mmio.NewRegister(bus, PeriodLowOffset),
		periodHigh: mmio.NewRegister(bus, PeriodHighOffset),
		snapLow:    mmio.NewRegister(bus, SnapLowOffset),
		snapHigh:   mmio.NewRegister(bus, SnapHighOffset),
	}
}

// Start arms the largest countdown window and starts counting down.
func (t *CycleTimer) Start() {
	t.status.Store(0)
	t.periodLow.Store(halfMask)
	t.periodHigh.Store(halfMask)
	t.control.Store(ControlStart)
}

// StopAndRead stops the counter, latches it and returns the distance it
// travelled from the all-ones period.
//
// The result is only meaningful if the counter did not reach zero during the
// measurement; check Wrapped.
func (t *CycleTimer) StopAndRead() CycleCount {
	t.control.Store(ControlStop)
	t.snapLow.Store(1)

	count := (t.snapHigh.Load()&halfMask)<<16 | t.snapLow.Load()&halfMask

	return CycleCount(0xFFFFFFFF - count)
}

// Wrapped reports whether the counter reached zero since the last Start.
func (t *CycleTimer) Wrapped() bool {
	return t.status.BitSet(StatusTimeoutBit)
}

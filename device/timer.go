package device

import (
	"fmt"

	"github.com/sarchlab/mataccel/timer"
)

const halfMask = 0xFFFF

// IntervalTimer models a 32-bit down-counting interval timer with 16-bit
// registers. The counter is evaluated lazily from a Clock whenever a
// register is accessed.
type IntervalTimer struct {
	name  string
	clock Clock

	period   uint32
	counter  uint32
	snapshot uint32
	control  uint32
	running  bool
	timeout  bool
	since    uint64
}

// Name returns the name of the timer.
func (t *IntervalTimer) Name() string {
	return t.name
}

// Read32 reads a timer register.
func (t *IntervalTimer) Read32(offset uint32) uint32 {
	t.settle()

	switch offset {
	case timer.StatusOffset:
		var v uint32
		if t.timeout {
			v |= 1 << timer.StatusTimeoutBit
		}
		if t.running {
			v |= 1 << timer.StatusRunBit
		}
		return v
	case timer.ControlOffset:
		return t.control
	case timer.PeriodLowOffset:
		return t.period & halfMask
	case timer.PeriodHighOffset:
		return t.period >> 16
	case timer.SnapLowOffset:
		return t.snapshot & halfMask
	case timer.SnapHighOffset:
		return t.snapshot >> 16
	default:
		panic(fmt.Sprintf("%s: register offset %d out of range",
			t.name, offset))
	}
}

// Write32 writes a timer register.
func (t *IntervalTimer) Write32(offset uint32, value uint32) {
	t.settle()

	switch offset {
	case timer.StatusOffset:
		t.timeout = false
	case timer.ControlOffset:
		t.writeControl(value & 0xF)
	case timer.PeriodLowOffset:
		t.loadPeriod(t.period&^halfMask | value&halfMask)
	case timer.PeriodHighOffset:
		t.loadPeriod(t.period&halfMask | (value&halfMask)<<16)
	case timer.SnapLowOffset, timer.SnapHighOffset:
		t.snapshot = t.counter
	default:
		panic(fmt.Sprintf("%s: register offset %d out of range",
			t.name, offset))
	}
}

func (t *IntervalTimer) writeControl(value uint32) {
	t.control = value

	switch {
	case value&timer.ControlStop != 0:
		t.running = false
	case value&timer.ControlStart != 0 && !t.running:
		t.running = true
		t.since = t.clock.Now()
	}
}

// loadPeriod stops the counter and reloads it with the new period.
func (t *IntervalTimer) loadPeriod(period uint32) {
	t.period = period
	t.counter = period
	t.running = false
}

func (t *IntervalTimer) settle() {
	if !t.running {
		return
	}

	now := t.clock.Now()
	elapsed := now - t.since
	t.since = now

	t.advance(elapsed)
}

// advance counts down by elapsed ticks. The tick after zero reloads the
// period and raises the timeout flag; without continuous mode the counter
// then stops.
func (t *IntervalTimer) advance(elapsed uint64) {
	if elapsed <= uint64(t.counter) {
		t.counter -= uint32(elapsed)
		return
	}

	elapsed -= uint64(t.counter) + 1
	t.counter = t.period
	t.timeout = true

	if t.control&timer.ControlCont == 0 {
		t.running = false
		return
	}

	elapsed %= uint64(t.period) + 1
	t.counter -= uint32(elapsed)
}

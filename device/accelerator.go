// Package device provides simulated models of the peripherals that the
// benchmark drives: the matrix accelerator and the interval timer.
package device

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/mataccel/api"
	"github.com/sarchlab/mataccel/matrix"
)

// Pipeline stages of one computation. Stages after stageProduct+Size are
// idle cycles that model extra device latency.
const (
	stageLatch   = 0
	stageAddSub  = 1
	stageProduct = 2
)

// Accelerator is a cycle-level model of the matrix accelerator. Its register
// file is accessed through Read32 and Write32, so it can be mounted directly
// on a bus window.
type Accelerator struct {
	*sim.TickingComponent

	regs    [api.RegisterFileWords]uint32
	latency int
	stuck   bool

	state accelState
}

type accelState struct {
	busy    bool
	stage   int
	a, b    matrix.Matrix16
	pending matrix.Results
}

// Read32 reads a register.
func (d *Accelerator) Read32(offset uint32) uint32 {
	d.mustBeInRange(offset)
	return d.regs[offset]
}

// Write32 writes a register. Writes to the result regions and to the status
// register are ignored.
func (d *Accelerator) Write32(offset uint32, value uint32) {
	d.mustBeInRange(offset)

	switch {
	case offset < api.SumOffset:
		d.regs[offset] = value
	case offset == api.ControlOffset:
		d.regs[offset] = value
		if value&api.ControlStart != 0 {
			d.start()
		}
	default:
		Trace("Accelerator",
			"Behavior", "IgnoredWrite",
			"Name", d.Name(),
			"Offset", offset,
			"Data", value,
		)
	}
}

func (d *Accelerator) mustBeInRange(offset uint32) {
	if offset >= api.RegisterFileWords {
		panic(fmt.Sprintf("%s: register offset %d out of range",
			d.Name(), offset))
	}
}

func (d *Accelerator) start() {
	if d.state.busy {
		Trace("Accelerator",
			"Behavior", "StartWhileBusy",
			"Name", d.Name(),
		)
		return
	}

	d.state = accelState{busy: true}
	d.regs[api.StatusOffset] = 1 << api.StatusBusyBit

	Trace("Accelerator",
		"Behavior", "Start",
		"Name", d.Name(),
		"Time", float64(d.Engine.CurrentTime()*1e9),
	)

	d.TickLater()
}

// Busy reports whether a computation is in flight.
func (d *Accelerator) Busy() bool {
	return d.state.busy
}

// Tick advances the pipeline by one stage.
func (d *Accelerator) Tick() (madeProgress bool) {
	if !d.state.busy || d.stuck {
		return false
	}

	s := &d.state
	switch {
	case s.stage == stageLatch:
		d.latchOperands()
	case s.stage == stageAddSub:
		s.pending.Sum = matrix.Add(s.a, s.b)
		s.pending.Diff = matrix.Sub(s.a, s.b)
	case s.stage < stageProduct+matrix.Size:
		d.computeProductRow(s.stage - stageProduct)
	case s.stage >= stageProduct+matrix.Size+d.latency:
		d.commit()
		return true
	}

	s.stage++

	return true
}

func (d *Accelerator) latchOperands() {
	for i := 0; i < matrix.NumElements; i++ {
		d.state.a[i] = int16(d.regs[api.OperandAOffset+uint32(i)])
		d.state.b[i] = int16(d.regs[api.OperandBOffset+uint32(i)])
	}
}

func (d *Accelerator) computeProductRow(row int) {
	s := &d.state
	for col := 0; col < matrix.Size; col++ {
		var acc int32
		for k := 0; k < matrix.Size; k++ {
			acc += int32(s.a.At(row, k)) * int32(s.b.At(k, col))
		}
		s.pending.Product[matrix.Index(row, col)] = acc
	}
}

// commit publishes the results and raises the done bit in one step, so no
// reader can observe partial results while done is set.
func (d *Accelerator) commit() {
	s := &d.state
	for i := 0; i < matrix.NumElements; i++ {
		d.regs[api.SumOffset+uint32(i)] = uint32(s.pending.Sum[i])
		d.regs[api.DiffOffset+uint32(i)] = uint32(s.pending.Diff[i])
		d.regs[api.ProductOffset+uint32(i)] = uint32(s.pending.Product[i])
	}

	d.regs[api.StatusOffset] = 1 << api.StatusDoneBit
	s.busy = false

	Trace("Accelerator",
		"Behavior", "Done",
		"Name", d.Name(),
		"Time", float64(d.Engine.CurrentTime()*1e9),
	)
}

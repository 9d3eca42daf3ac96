// Package api defines the driver of the matrix accelerator peripheral.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/mataccel/matrix"
	"github.com/sarchlab/mataccel/mmio"
)

// Register map of the accelerator, in words from the peripheral base.
const (
	OperandAOffset uint32 = 0
	OperandBOffset uint32 = 16
	SumOffset      uint32 = 32
	DiffOffset     uint32 = 48
	ProductOffset  uint32 = 64
	ControlOffset  uint32 = 80
	StatusOffset   uint32 = 81

	// RegisterFileWords is the size of the register file.
	RegisterFileWords = 82
)

// Control and status bits. All other control bits are reserved.
const (
	ControlStart uint32 = 1 << 0

	StatusDoneBit uint = 0
	StatusBusyBit uint = 1
)

// ErrDeviceTimeout is returned by a driver built with a poll bound when the
// device does not raise its done bit in time.
var ErrDeviceTimeout = errors.New("accelerator did not report done")

// Driver provides the interface to control an accelerator.
type Driver interface {
	// Compute writes both operands to the device, starts it, waits for the
	// done bit and reads back the sum, difference and product.
	//
	// Without a poll bound the wait never gives up: a device that never
	// finishes hangs the caller.
	Compute(a, b matrix.Matrix16) (matrix.Results, error)

	// PollCount returns the number of status reads made by the last Compute.
	PollCount() int
}

// registerFile is the typed view of the accelerator registers.
type registerFile struct {
	operandA mmio.Region
	operandB mmio.Region
	sum      mmio.Region
	diff     mmio.Region
	product  mmio.Region
	control  mmio.Register
	status   mmio.Register
}

// newRegisterFile carves the bus into the accelerator regions. Every data
// region holds exactly one matrix.
func newRegisterFile(bus mmio.Bus) registerFile {
	return registerFile{
		operandA: mmio.NewRegion(bus, OperandAOffset, matrix.NumElements),
		operandB: mmio.NewRegion(bus, OperandBOffset, matrix.NumElements),
		sum:      mmio.NewRegion(bus, SumOffset, matrix.NumElements),
		diff:     mmio.NewRegion(bus, DiffOffset, matrix.NumElements),
		product:  mmio.NewRegion(bus, ProductOffset, matrix.NumElements),
		control:  mmio.NewRegister(bus, ControlOffset),
		status:   mmio.NewRegister(bus, StatusOffset),
	}
}

type driverImpl struct {
	name     string
	regs     registerFile
	maxPolls int
	polls    int
}

// Compute runs one accelerator computation.
func (d *driverImpl) Compute(
	a, b matrix.Matrix16,
) (matrix.Results, error) {
	d.writeOperand(d.regs.operandA, a)
	d.writeOperand(d.regs.operandB, b)

	d.regs.control.Store(ControlStart)
	Trace("Accelerator",
		"Behavior", "Start",
		"Driver", d.name,
		"Control", d.regs.control.Offset(),
	)

	if err := d.waitDone(); err != nil {
		return matrix.Results{}, err
	}

	Trace("Accelerator",
		"Behavior", "Done",
		"Driver", d.name,
		"Polls", d.polls,
	)

	return matrix.Results{
		Sum:     d.readResult(d.regs.sum),
		Diff:    d.readResult(d.regs.diff),
		Product: d.readResult(d.regs.product),
	}, nil
}

// PollCount returns the number of status reads of the last Compute.
func (d *driverImpl) PollCount() int {
	return d.polls
}

func (d *driverImpl) writeOperand(region mmio.Region, m matrix.Matrix16) {
	for i := 0; i < region.Len(); i++ {
		region.StoreInt16(i, m[i])
	}

	Trace("Accelerator",
		"Behavior", "WriteOperand",
		"Driver", d.name,
		"Offset", region.Offset(),
	)
}

// waitDone spins on the status register. It never yields.
func (d *driverImpl) waitDone() error {
	d.polls = 0

	for {
		d.polls++
		if d.regs.status.BitSet(StatusDoneBit) {
			return nil
		}

		if d.maxPolls > 0 && d.polls >= d.maxPolls {
			slog.Warn("accelerator poll bound reached",
				"Driver", d.name,
				"Status", d.regs.status.Offset(),
				"Polls", d.polls,
			)

			return fmt.Errorf("%s: %w after %d status reads",
				d.name, ErrDeviceTimeout, d.polls)
		}
	}
}

func (d *driverImpl) readResult(region mmio.Region) matrix.Result32 {
	var r matrix.Result32
	for i := 0; i < region.Len(); i++ {
		r[i] = region.LoadInt32(i)
	}

	return r
}

// LevelTrace is the slog level used for driver traces.
const LevelTrace = mmio.LevelTrace

// Trace logs msg at LevelTrace.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

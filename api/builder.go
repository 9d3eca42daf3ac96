package api

import "github.com/sarchlab/mataccel/mmio"

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	bus      mmio.Bus
	maxPolls int
}

// WithBus sets the register window of the accelerator.
func (b DriverBuilder) WithBus(bus mmio.Bus) DriverBuilder {
	b.bus = bus
	return b
}

// WithMaxPolls bounds the number of status reads per computation. Zero, the
// default, waits forever. A bounded driver returns ErrDeviceTimeout instead
// of hanging on a dead device.
func (b DriverBuilder) WithMaxPolls(n int) DriverBuilder {
	b.maxPolls = n
	return b
}

// Build creates a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.bus == nil {
		panic("accelerator driver requires a bus")
	}

	return &driverImpl{
		name:     name,
		regs:     newRegisterFile(b.bus),
		maxPolls: b.maxPolls,
	}
}

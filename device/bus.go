package device

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/mataccel/mmio"
)

// Bus is the CPU side of the simulated system bus. Each access is dispatched
// to its target device and then costs one bus cycle of simulated time, during
// which the engine runs every event the access triggered.
type Bus struct {
	*sim.TickingComponent

	accesses uint64
}

// Tick accounts for one bus cycle.
func (b *Bus) Tick() (madeProgress bool) {
	b.accesses++
	return false
}

// Accesses returns the number of bus cycles spent so far.
func (b *Bus) Accesses() uint64 {
	return b.accesses
}

// Window exposes a device register file through the bus.
func (b *Bus) Window(target mmio.Bus) mmio.Bus {
	return &window{bus: b, target: target}
}

func (b *Bus) cycle() {
	b.TickLater()

	if err := b.Engine.Run(); err != nil {
		panic(err)
	}
}

type window struct {
	bus    *Bus
	target mmio.Bus
}

func (w *window) Read32(offset uint32) uint32 {
	v := w.target.Read32(offset)
	w.bus.cycle()

	return v
}

func (w *window) Write32(offset uint32, value uint32) {
	w.target.Write32(offset, value)
	w.bus.cycle()
}

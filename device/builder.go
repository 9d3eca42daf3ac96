package device

import (
	"github.com/sarchlab/akita/v4/sim"
)

// AcceleratorBuilder can create accelerator models.
type AcceleratorBuilder struct {
	engine  sim.Engine
	freq    sim.Freq
	latency int
	stuck   bool
}

// WithEngine sets the engine.
func (b AcceleratorBuilder) WithEngine(engine sim.Engine) AcceleratorBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the accelerator.
func (b AcceleratorBuilder) WithFreq(freq sim.Freq) AcceleratorBuilder {
	b.freq = freq
	return b
}

// WithLatency adds idle cycles between the last pipeline stage and done.
func (b AcceleratorBuilder) WithLatency(cycles int) AcceleratorBuilder {
	if cycles < 0 {
		panic("latency cannot be negative")
	}
	b.latency = cycles
	return b
}

// WithStuck makes the accelerator accept a start and never finish.
func (b AcceleratorBuilder) WithStuck(stuck bool) AcceleratorBuilder {
	b.stuck = stuck
	return b
}

// Build creates an accelerator.
func (b AcceleratorBuilder) Build(name string) *Accelerator {
	d := &Accelerator{
		latency: b.latency,
		stuck:   b.stuck,
	}
	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)

	return d
}

// TimerBuilder can create interval timer models.
type TimerBuilder struct {
	clock Clock
}

// WithClock sets the clock the timer counts.
func (b TimerBuilder) WithClock(clock Clock) TimerBuilder {
	b.clock = clock
	return b
}

// Build creates an interval timer.
func (b TimerBuilder) Build(name string) *IntervalTimer {
	if b.clock == nil {
		panic("interval timer requires a clock")
	}

	return &IntervalTimer{
		name:  name,
		clock: b.clock,
	}
}

// BusBuilder can create simulated buses.
type BusBuilder struct {
	engine sim.Engine
	freq   sim.Freq
}

// WithEngine sets the engine.
func (b BusBuilder) WithEngine(engine sim.Engine) BusBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the bus frequency.
func (b BusBuilder) WithFreq(freq sim.Freq) BusBuilder {
	b.freq = freq
	return b
}

// Build creates a bus.
func (b BusBuilder) Build(name string) *Bus {
	bus := &Bus{}
	bus.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, bus)

	return bus
}

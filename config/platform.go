package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/mataccel/api"
	"github.com/sarchlab/mataccel/bench"
	"github.com/sarchlab/mataccel/device"
	"github.com/sarchlab/mataccel/mmio"
	"github.com/sarchlab/mataccel/timer"
)

// Platform holds the long-lived handles to the two peripherals. There is
// exactly one of each; pass them explicitly to whoever needs them.
type Platform struct {
	Config PlatformConfig

	// Engine and Accelerator are set for simulated platforms only.
	Engine      sim.Engine
	Accelerator *device.Accelerator
	Bus         *device.Bus

	AccelBus mmio.Bus
	TimerBus mmio.Bus

	closers []io.Closer
}

// Driver creates the accelerator driver of the platform.
func (p *Platform) Driver() api.Driver {
	return api.DriverBuilder{}.
		WithBus(p.AccelBus).
		WithMaxPolls(p.Config.MaxPolls).
		Build("Driver")
}

// Timer creates the cycle timer of the platform.
func (p *Platform) Timer() *timer.CycleTimer {
	return timer.New(p.TimerBus)
}

// Harness wires the software engine, the driver and the timer together.
func (p *Platform) Harness() *bench.Harness {
	return bench.HarnessBuilder{}.
		WithAccelerator(p.Driver()).
		WithTimer(p.Timer()).
		Build()
}

// Close releases the register mappings of a devmem platform.
func (p *Platform) Close() error {
	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c.Close())
	}
	p.closers = nil

	return errors.Join(errs...)
}

// PlatformBuilder can build platforms.
type PlatformBuilder struct {
	config  PlatformConfig
	monitor *monitoring.Monitor
}

// MakeBuilder creates a builder with the default configuration.
func MakeBuilder() PlatformBuilder {
	return PlatformBuilder{config: DefaultPlatformConfig()}
}

// WithConfig sets the platform configuration.
func (b PlatformBuilder) WithConfig(cfg PlatformConfig) PlatformBuilder {
	b.config = cfg
	return b
}

// WithMonitor registers the simulated engine and components to a monitor.
func (b PlatformBuilder) WithMonitor(monitor *monitoring.Monitor) PlatformBuilder {
	b.monitor = monitor
	return b
}

// Build creates the platform.
func (b PlatformBuilder) Build() (*Platform, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	var (
		p   *Platform
		err error
	)

	switch b.config.Backend {
	case BackendSim:
		p = b.buildSim()
	case BackendDevMem:
		p, err = b.buildDevMem()
		if err != nil {
			return nil, err
		}
	}

	if b.config.Trace {
		p.AccelBus = mmio.TracedBus{Name: "Accelerator", Bus: p.AccelBus}
		p.TimerBus = mmio.TracedBus{Name: "Timer", Bus: p.TimerBus}
	}

	return p, nil
}

func (b PlatformBuilder) buildSim() *Platform {
	cfg := b.config
	engine := sim.NewSerialEngine()
	freq := sim.Freq(cfg.FreqMHz) * sim.MHz

	bus := device.BusBuilder{}.
		WithEngine(engine).
		WithFreq(freq).
		Build("Bus")

	accel := device.AcceleratorBuilder{}.
		WithEngine(engine).
		WithFreq(freq).
		WithLatency(cfg.ComputeLatency).
		WithStuck(cfg.Stuck).
		Build("Accelerator")

	var clock device.Clock = device.EngineClock{Engine: engine, Freq: freq}
	if cfg.Clock == ClockHost {
		clock = device.NewHostClock(cfg.FreqMHz * 1e6)
	}

	intervalTimer := device.TimerBuilder{}.
		WithClock(clock).
		Build("Timer")

	if b.monitor != nil {
		b.monitor.RegisterEngine(engine)
		b.monitor.RegisterComponent(bus)
		b.monitor.RegisterComponent(accel)
	}

	return &Platform{
		Config:      cfg,
		Engine:      engine,
		Accelerator: accel,
		Bus:         bus,
		AccelBus:    bus.Window(accel),
		TimerBus:    bus.Window(intervalTimer),
	}
}

func (b PlatformBuilder) buildDevMem() (*Platform, error) {
	cfg := b.config

	accelMem, err := mmio.OpenDevMem(uintptr(cfg.AccelBase), api.RegisterFileWords)
	if err != nil {
		return nil, fmt.Errorf("accelerator: %w", err)
	}

	timerMem, err := mmio.OpenDevMem(uintptr(cfg.TimerBase), timer.RegisterWords)
	if err != nil {
		accelMem.Close()
		return nil, fmt.Errorf("timer: %w", err)
	}

	return &Platform{
		Config:   cfg,
		AccelBus: accelMem,
		TimerBus: timerMem,
		closers:  []io.Closer{accelMem, timerMem},
	}, nil
}

// Package config assembles the platform the benchmark runs on: either a
// simulated system with akita device models or the real peripherals mapped
// through /dev/mem.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backends.
const (
	BackendSim    = "sim"
	BackendDevMem = "devmem"
)

// Clocks the simulated timer can count.
const (
	ClockEngine = "engine"
	ClockHost   = "host"
)

// Base addresses of the peripherals on the reference board.
const (
	DefaultAccelBase = 0x04000400
	DefaultTimerBase = 0xFF202000
)

// ErrUnknownBackend is returned for a backend other than sim or devmem.
var ErrUnknownBackend = errors.New("unknown backend")

// ErrUnknownClock is returned for a clock other than engine or host.
var ErrUnknownClock = errors.New("unknown clock")

// PlatformConfig describes a platform.
type PlatformConfig struct {
	Backend   string  `yaml:"backend"`
	AccelBase uint64  `yaml:"accel_base"`
	TimerBase uint64  `yaml:"timer_base"`
	FreqMHz   float64 `yaml:"freq_mhz"`

	// Simulation only.
	Clock          string `yaml:"clock"`
	ComputeLatency int    `yaml:"compute_latency"`
	Stuck          bool   `yaml:"stuck"`

	// MaxPolls bounds the accelerator status wait; zero waits forever.
	MaxPolls int  `yaml:"max_polls"`
	Trace    bool `yaml:"trace"`
}

// DefaultPlatformConfig returns the simulated reference board.
func DefaultPlatformConfig() PlatformConfig {
	return PlatformConfig{
		Backend:        BackendSim,
		AccelBase:      DefaultAccelBase,
		TimerBase:      DefaultTimerBase,
		FreqMHz:        100,
		Clock:          ClockEngine,
		ComputeLatency: 0,
	}
}

// LoadPlatformConfig reads a YAML platform file. Keys missing from the file
// keep their default values.
func LoadPlatformConfig(path string) (PlatformConfig, error) {
	cfg := DefaultPlatformConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read platform config: %w", err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse platform config: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration for values Build cannot use.
func (c PlatformConfig) Validate() error {
	switch c.Backend {
	case BackendSim:
		if c.Clock != ClockEngine && c.Clock != ClockHost {
			return fmt.Errorf("%w: %q", ErrUnknownClock, c.Clock)
		}
	case BackendDevMem:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	if c.FreqMHz <= 0 {
		return fmt.Errorf("frequency must be positive, got %v MHz", c.FreqMHz)
	}

	if c.ComputeLatency < 0 {
		return fmt.Errorf("compute latency cannot be negative, got %d",
			c.ComputeLatency)
	}

	if c.MaxPolls < 0 {
		return fmt.Errorf("max polls cannot be negative, got %d", c.MaxPolls)
	}

	return nil
}

package bench

import "github.com/sarchlab/mataccel/matrix"

// HarnessBuilder creates a Harness.
type HarnessBuilder struct {
	software    SoftwareEngine
	accelerator Accelerator
	timer       Timer
}

// WithSoftwareEngine sets the host engine. The default is
// matrix.SoftwareEngine.
func (b HarnessBuilder) WithSoftwareEngine(e SoftwareEngine) HarnessBuilder {
	b.software = e
	return b
}

// WithAccelerator sets the accelerator driver.
func (b HarnessBuilder) WithAccelerator(a Accelerator) HarnessBuilder {
	b.accelerator = a
	return b
}

// WithTimer sets the timer used for both measurements.
func (b HarnessBuilder) WithTimer(t Timer) HarnessBuilder {
	b.timer = t
	return b
}

// Build creates the harness.
func (b HarnessBuilder) Build() *Harness {
	if b.accelerator == nil || b.timer == nil {
		panic("harness requires an accelerator and a timer")
	}

	h := &Harness{
		software:    b.software,
		accelerator: b.accelerator,
		timer:       b.timer,
	}

	if h.software == nil {
		h.software = matrix.SoftwareEngine{}
	}

	return h
}

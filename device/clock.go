package device

import (
	"math"
	"time"

	"github.com/sarchlab/akita/v4/sim"
)

// Clock reports the number of cycles elapsed since an arbitrary origin.
type Clock interface {
	Now() uint64
}

type timeTeller interface {
	CurrentTime() sim.VTimeInSec
}

// EngineClock derives cycles from the simulated time of an akita engine.
type EngineClock struct {
	Engine timeTeller
	Freq   sim.Freq
}

// Now returns the current simulated time in cycles of c.Freq.
func (c EngineClock) Now() uint64 {
	return uint64(math.Round(float64(c.Engine.CurrentTime()) * float64(c.Freq)))
}

// HostClock derives cycles from the host monotonic clock.
type HostClock struct {
	origin time.Time
	hz     float64
}

// NewHostClock creates a clock that ticks at hz cycles per host second.
func NewHostClock(hz float64) *HostClock {
	return &HostClock{origin: time.Now(), hz: hz}
}

// Now returns the host time since creation in cycles.
func (c *HostClock) Now() uint64 {
	return uint64(time.Since(c.origin).Seconds() * c.hz)
}

package sim

import "time"

// Clock is a core.Sleeper backed by virtual time. Sleep advances the
// scheduler instead of blocking, optionally pacing against the wall clock.
type Clock struct {
	Scheduler

	// Speedup paces Sleep at d/Speedup of real time. Zero runs unpaced.
	Speedup float64

	wallSleep func(time.Duration)
}

// NewClock creates a clock at virtual time zero
func NewClock(speedup float64) *Clock {
	return &Clock{Speedup: speedup, wallSleep: time.Sleep}
}

// Sleep advances virtual time by d and dispatches every event in between
func (c *Clock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	c.AdvanceTo(c.Now() + d)
	if c.Speedup > 0 && c.wallSleep != nil {
		c.wallSleep(time.Duration(float64(d) / c.Speedup))
	}
}

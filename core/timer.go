package core

import "time"

// Sleeper blocks the foreground loop for a fixed duration.
// Implementations must not return early and offer no cancellation.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SystemSleeper sleeps on the runtime clock.
type SystemSleeper struct{}

// Sleep blocks for d
func (SystemSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}

// TickRate derives the capture timer rate in ticks per second
// from the timer input clock and its prescaler
func TickRate(timerClockHz, prescaler uint32) (uint32, error) {
	if prescaler == 0 {
		return 0, ErrZeroPrescaler
	}
	rate := timerClockHz / prescaler
	if rate == 0 {
		return 0, ErrTickRateZero
	}
	return rate, nil
}

// TicksToDuration converts a tick count at the given rate to wall-clock time
func TicksToDuration(ticks, rate uint32) time.Duration {
	if rate == 0 {
		return 0
	}
	return time.Duration(uint64(ticks) * uint64(time.Second) / uint64(rate))
}

// DurationToTicks converts wall-clock time to ticks at the given rate, truncating
func DurationToTicks(d time.Duration, rate uint32) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d) * uint64(rate) / uint64(time.Second)
}

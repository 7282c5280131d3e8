package core

// StalePolicy selects what the estimator does with ElapsedTicks after reading it
type StalePolicy uint8

const (
	// ResetAfterConsume clears ElapsedTicks on every read, so a stalled
	// motor reads as 0 on the next sample
	ResetAfterConsume StalePolicy = iota

	// HoldLastReading leaves ElapsedTicks untouched; a stalled motor keeps
	// showing the last speed measured before it stopped
	HoldLastReading
)

func (p StalePolicy) String() string {
	switch p {
	case ResetAfterConsume:
		return "reset-after-consume"
	case HoldLastReading:
		return "hold-last-reading"
	default:
		return "unknown"
	}
}

// Valid reports whether p is a known policy
func (p StalePolicy) Valid() bool {
	return p == ResetAfterConsume || p == HoldLastReading
}

// Speed converts one period in ticks into revolutions per second.
// A zero period means no edge was observed and yields 0.
// Integer division truncates toward zero.
func Speed(tickRate, ticks uint32) uint32 {
	if ticks == 0 {
		return 0
	}
	return tickRate / ticks
}

// SpeedEstimator samples ElapsedTicks from the foreground loop
type SpeedEstimator struct {
	tickRate uint32
	policy   StalePolicy
	cell     *ElapsedTicks
}

// NewSpeedEstimator creates an estimator reading from cell
func NewSpeedEstimator(tickRate uint32, policy StalePolicy, cell *ElapsedTicks) (*SpeedEstimator, error) {
	if tickRate == 0 {
		return nil, ErrTickRateZero
	}
	if !policy.Valid() {
		return nil, ErrUnknownPolicy
	}
	return &SpeedEstimator{tickRate: tickRate, policy: policy, cell: cell}, nil
}

// Sample reads the latest period and returns the speed with the ticks it was
// computed from. Under ResetAfterConsume the period is cleared atomically.
func (s *SpeedEstimator) Sample() (rps uint32, ticks uint32) {
	if s.policy == ResetAfterConsume {
		ticks = s.cell.Take()
	} else {
		ticks = s.cell.Load()
	}
	return Speed(s.tickRate, ticks), ticks
}

// TickRate returns the timer rate the estimator divides by
func (s *SpeedEstimator) TickRate() uint32 {
	return s.tickRate
}

// Policy returns the configured stale policy
func (s *SpeedEstimator) Policy() StalePolicy {
	return s.policy
}

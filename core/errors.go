package core

import "errors"

var (
	ErrEmptyDutyTable    = errors.New("duty table is empty")
	ErrDutyExceedsPeriod = errors.New("duty value exceeds period register")
	ErrZeroPeriod        = errors.New("period register is zero")
	ErrPeriodMismatch    = errors.New("duty table period differs from profile period")
	ErrZeroPrescaler     = errors.New("prescaler is zero")
	ErrTickRateZero      = errors.New("timer tick rate is zero")
	ErrDwellCount        = errors.New("dwell count must be positive")
	ErrDwellDelay        = errors.New("dwell delay must be positive")
	ErrCaptureWidth      = errors.New("capture width must be 1..32 bits")
	ErrUnknownTraversal  = errors.New("unknown table traversal")
	ErrUnknownPolicy     = errors.New("unknown stale reading policy")
	ErrNoCaptureDriver   = errors.New("capture driver not set")
	ErrNoPWMDriver       = errors.New("PWM driver not set")
	ErrNoEstimator       = errors.New("speed estimator not set")
	ErrNoSleeper         = errors.New("sleeper not set")
)

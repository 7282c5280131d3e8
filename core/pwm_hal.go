package core

// PWMDriver is the abstract PWM interface that core code uses.
// Platform-specific implementations handle actual hardware control.
//
// The comparator value is expressed in period-register counts, so a value
// equal to PeriodRegister() means 100% duty.
type PWMDriver interface {
	// SetDutyRegister writes the comparator register
	// value: 0 (fully off) to PeriodRegister() (fully on)
	SetDutyRegister(value uint32) error

	// PeriodRegister returns the configured PWM period register
	PeriodRegister() uint32
}

// Global singleton used by core code.
var pwmDriver PWMDriver

// SetPWMDriver is called by target-specific code to register its driver.
func SetPWMDriver(d PWMDriver) {
	pwmDriver = d
}

// MustPWM returns the configured driver or panics if missing.
func MustPWM() PWMDriver {
	if pwmDriver == nil {
		panic("PWM driver not configured")
	}
	return pwmDriver
}

// clampDuty bounds a comparator value to [0, period]
func clampDuty(value, period uint32) uint32 {
	if value > period {
		return period
	}
	return value
}

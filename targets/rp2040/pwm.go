//go:build rp2040 || rp2350

package main

import (
	"log/slog"
	"machine"

	"dcmotor/core"
)

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// motorPWM drives the motor transistor from one PWM channel. Duty values are
// expressed in period-register counts and scaled to the slice's Top().
type motorPWM struct {
	pwm     pwmPeripheral
	channel uint8
	period  uint32
}

func newMotorPWM(pin machine.Pin, frequencyHz uint64, period uint32) (*motorPWM, error) {
	if period == 0 {
		return nil, core.ErrZeroPeriod
	}

	// RP2040: GPIO pin N maps to slice (N >> 1) & 0x7, channel N & 1
	pwm := getPWMPeripheral(uint8((uint32(pin) >> 1) & 0x7))
	if err := pwm.Configure(machine.PWMConfig{
		Period: 1e9 / frequencyHz,
	}); err != nil {
		return nil, err
	}
	channel, err := pwm.Channel(pin)
	if err != nil {
		return nil, err
	}

	// Motor off until the first step
	pwm.Set(channel, 0)
	return &motorPWM{pwm: pwm, channel: channel, period: period}, nil
}

// SetDutyRegister implements core.PWMDriver
func (d *motorPWM) SetDutyRegister(value uint32) error {
	if value > d.period {
		logger.Warn("pwm:duty rejected",
			slog.Uint64("value", uint64(value)),
			slog.Uint64("period", uint64(d.period)))
		return core.ErrDutyExceedsPeriod
	}
	top := uint64(d.pwm.Top())
	d.pwm.Set(d.channel, uint32(uint64(value)*top/uint64(d.period)))
	return nil
}

// PeriodRegister implements core.PWMDriver
func (d *motorPWM) PeriodRegister() uint32 {
	return d.period
}

// getPWMPeripheral returns the PWM peripheral for a given slice number
func getPWMPeripheral(sliceNum uint8) pwmPeripheral {
	switch sliceNum {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		// Should never happen with proper masking
		return machine.PWM0
	}
}

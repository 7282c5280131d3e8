//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"

	"dcmotor/core"
)

var errTickRate = errors.New("capture tick rate must divide the 1 MHz timer")

// gpioCapture emulates a timer-capture channel: a rising edge on the
// interrupter pin latches the microsecond timer, divided down to the
// profile's tick rate and truncated to the capture width.
//
// The RP2040 has no capture unit on its timer, so a count that outgrew the
// width is reported as an overflow right before the edge that observed it.
type gpioCapture struct {
	pin       machine.Pin
	usPerTick uint64
	mask      uint64

	edge     core.CaptureHandler
	overflow core.CaptureHandler

	base    uint64 // Timer value at the last reset
	edgeAt  uint64 // Timer value at the last edge
	latched uint32
	pending bool
}

func newGPIOCapture(pin machine.Pin, tickRate uint32, bits uint8) (*gpioCapture, error) {
	if tickRate == 0 || timerHz%tickRate != 0 {
		return nil, errTickRate
	}
	if bits == 0 || bits > 32 {
		return nil, core.ErrCaptureWidth
	}
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	now := hardwareUptime()
	return &gpioCapture{
		pin:       pin,
		usPerTick: uint64(timerHz / tickRate),
		mask:      uint64(1)<<bits - 1,
		base:      now,
		edgeAt:    now,
	}, nil
}

// OnCaptureEdge implements core.CaptureDriver
func (c *gpioCapture) OnCaptureEdge(handler core.CaptureHandler) error {
	c.edge = handler
	return c.pin.SetInterrupt(machine.PinRising, c.onEdge)
}

// OnTimerOverflow implements core.OverflowSource
func (c *gpioCapture) OnTimerOverflow(handler core.CaptureHandler) error {
	c.overflow = handler
	return nil
}

// ClearCaptureFlag implements core.CaptureDriver
func (c *gpioCapture) ClearCaptureFlag() {
	c.pending = false
}

// ResetTimer implements core.CaptureDriver. The count restarts at the edge.
func (c *gpioCapture) ResetTimer() {
	c.base = c.edgeAt
}

// ReadCapturedCount implements core.CaptureDriver
func (c *gpioCapture) ReadCapturedCount() uint32 {
	return c.latched
}

// onEdge runs in interrupt context
func (c *gpioCapture) onEdge(machine.Pin) {
	now := hardwareUptime()
	ticks := (now - c.base) / c.usPerTick
	if ticks > c.mask && c.overflow != nil {
		c.overflow()
	}

	c.edgeAt = now
	c.latched = uint32(ticks & c.mask)
	c.pending = true
	if c.edge != nil {
		c.edge()
	}
}

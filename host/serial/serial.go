// Package serial opens the telemetry port of the motor firmware.
package serial

import (
	"io"
	"time"
)

// Port represents a serial port interface
type Port interface {
	io.ReadWriteCloser

	// Flush discards data received but not read
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC ignores this)
	Baud int

	// ReadTimeout bounds a single Read so callers can observe cancellation.
	// Zero blocks.
	ReadTimeout time.Duration
}

// DefaultConfig returns the configuration used for the firmware's USB CDC port
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}

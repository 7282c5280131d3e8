//go:build rp2040 || rp2350

package main

import (
	"machine"

	"dcmotor/protocol"
)

// newTelemetry streams profile and sample frames over USB CDC
func newTelemetry() *protocol.Reporter {
	return protocol.NewReporter(protocol.NewEncoder(machine.Serial))
}

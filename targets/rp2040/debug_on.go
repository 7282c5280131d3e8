//go:build (rp2040 || rp2350) && motor_debug

package main

import "log/slog"

// Build with -tags motor_debug to trace the sequencer on UART0
const (
	logLevel  = slog.LevelDebug
	coreDebug = true
)

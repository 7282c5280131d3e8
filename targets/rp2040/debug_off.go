//go:build (rp2040 || rp2350) && !motor_debug

package main

import "log/slog"

const (
	logLevel  = slog.LevelInfo
	coreDebug = false
)

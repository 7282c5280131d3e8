//go:build !tinygo

package core

// irqState stands in for the saved interrupt mask on the host, where the
// capture handler is called from ordinary goroutines under test
type irqState struct{}

func disableInterrupts() irqState { return irqState{} }

func restoreInterrupts(irqState) {}

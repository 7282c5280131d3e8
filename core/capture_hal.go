package core

// CaptureHandler is invoked in interrupt context. It must not block or allocate.
type CaptureHandler func()

// CaptureDriver is the abstract timer-capture interface that core code uses.
// A capture channel latches the free-running timer count at the instant of an
// external edge and raises an event.
type CaptureDriver interface {
	// OnCaptureEdge registers the handler called on every capture edge
	// Only one handler is kept; a second call replaces the first
	OnCaptureEdge(handler CaptureHandler) error

	// ClearCaptureFlag acknowledges the pending capture event
	ClearCaptureFlag()

	// ResetTimer sets the free-running timer back to zero
	ResetTimer()

	// ReadCapturedCount returns the timer count latched at the last edge
	ReadCapturedCount() uint32
}

// OverflowSource is implemented by capture drivers that can report a
// free-running timer overflow between two edges.
type OverflowSource interface {
	// OnTimerOverflow registers the handler called when the timer wraps
	OnTimerOverflow(handler CaptureHandler) error
}

// Global singleton used by core code.
var captureDriver CaptureDriver

// SetCaptureDriver is called by target-specific code to register its driver.
func SetCaptureDriver(d CaptureDriver) {
	captureDriver = d
}

// MustCapture returns the configured driver or panics if missing.
func MustCapture() CaptureDriver {
	if captureDriver == nil {
		panic("capture driver not configured")
	}
	return captureDriver
}

package core

// DisplaySink is a cursor-addressed character display.
// Writes are fire-and-forget: the core never reads back and no failure is
// reported to it.
type DisplaySink interface {
	// PositionCursor moves the write position
	PositionCursor(column, row uint8)

	// WriteText writes s at the current position
	WriteText(s string)

	// WriteNumber writes n in decimal at the current position
	WriteNumber(n int)
}

// Global singleton used by core code.
var displaySink DisplaySink

// SetDisplaySink is called by target-specific code to register its display.
func SetDisplaySink(d DisplaySink) {
	displaySink = d
}

// MustDisplay returns the configured display or panics if missing.
func MustDisplay() DisplaySink {
	if displaySink == nil {
		panic("display not configured")
	}
	return displaySink
}

// nopDisplay discards everything. Used when a sequencer is built without a display.
type nopDisplay struct{}

func (nopDisplay) PositionCursor(column, row uint8) {}
func (nopDisplay) WriteText(s string)               {}
func (nopDisplay) WriteNumber(n int)                {}

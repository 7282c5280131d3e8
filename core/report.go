package core

// Sample is the per-iteration snapshot pushed to a Reporter
type Sample struct {
	Iteration uint32 // Dwell iterations completed since Start, starting at 1
	Index     int
	Direction Direction
	Duty      uint32 // Comparator value written for this step
	Period    uint32 // Period register the duty is relative to
	Ticks     uint32 // ElapsedTicks value the speed was computed from
	RPS       uint32

	Edges      uint32
	Overflows  uint32
	Overwrites uint32
}

// Stalled reports whether the motor is driven but no speed was measured
func (s Sample) Stalled() bool {
	return s.RPS == 0 && s.Duty > 0
}

// Reporter receives one Sample per dwell iteration from the foreground loop.
// Implementations must not block for long; the dwell timing includes them.
type Reporter interface {
	Report(s Sample)
}

// ProfileReporter is implemented by reporters that announce the active
// profile once when the sequencer starts.
type ProfileReporter interface {
	ReportProfile(p Profile)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(s Sample)

// Report calls f(s)
func (f ReporterFunc) Report(s Sample) {
	f(s)
}

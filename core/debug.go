package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// EventType identifies an entry in the event ring
type EventType uint8

// Event type codes
const (
	EvtCapture  EventType = 1 // Capture edge handled, Value = stored ticks
	EvtOverflow EventType = 2 // Timer overflow, Value = overflow count
	EvtStep     EventType = 3 // Sequencer moved to a new step, Value = index
	EvtStall    EventType = 4 // Zero speed read with non-zero duty, Value = duty
	EvtPWMError EventType = 5 // Duty register write failed, Value = duty
)

func (t EventType) String() string {
	switch t {
	case EvtCapture:
		return "CAPTURE"
	case EvtOverflow:
		return "OVERFLOW"
	case EvtStep:
		return "STEP"
	case EvtStall:
		return "STALL"
	case EvtPWMError:
		return "PWM_ERR!"
	default:
		return "UNKNOWN"
	}
}

// Event is one ring entry
type Event struct {
	Type  EventType
	Seq   uint32 // Monotonic record number
	Value uint32 // Context-dependent value
}

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event ring buffer (non-blocking, safe from interrupt context)
	eventRing     [EventRingSize]Event
	eventRingHead uint8
	eventSeq      uint32
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordEvent appends an event to the ring, overwriting the oldest entry.
// Never allocates; callable from interrupt handlers.
func RecordEvent(evt EventType, value uint32) {
	state := disableInterrupts()
	eventSeq++
	idx := eventRingHead
	eventRing[idx] = Event{Type: evt, Seq: eventSeq, Value: value}
	eventRingHead = (idx + 1) % EventRingSize
	restoreInterrupts(state)
}

// Events returns the ring contents from oldest to newest
func Events() []Event {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	out := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Type == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// DumpEvents writes the ring through the debug writer, ignoring the enabled
// flag. Call after a fault or from a shell, never from an interrupt.
func DumpEvents() {
	if debugPrintln == nil {
		return
	}
	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[EVENTS] #" + utoa(evt.Seq) + " " + evt.Type.String() +
			" v=" + utoa(evt.Value))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEvents empties the ring
func ClearEvents() {
	state := disableInterrupts()
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
	eventSeq = 0
	restoreInterrupts(state)
}

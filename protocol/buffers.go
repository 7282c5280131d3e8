package protocol

// OutputBuffer is the sink frame payloads are encoded into
type OutputBuffer interface {
	// Output appends data
	Output(data []byte)

	// OutputByte appends a single byte
	OutputByte(b byte)

	// CurPosition returns the current write position
	CurPosition() int

	// Update overwrites an already written byte
	Update(pos int, val byte)

	// DataSince returns data from pos up to the write position
	DataSince(pos int) []byte
}

// ScratchOutput is an OutputBuffer over a fixed array sized for the longest
// frame. Writes past the end are dropped and flagged by Overflowed.
type ScratchOutput struct {
	buf      [MessageMax]byte
	pos      int
	overflow bool
}

// NewScratchOutput creates an empty ScratchOutput
func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

func (s *ScratchOutput) Output(data []byte) {
	n := copy(s.buf[s.pos:], data)
	s.pos += n
	s.overflow = s.overflow || n < len(data)
}

func (s *ScratchOutput) OutputByte(b byte) {
	s.Output([]byte{b})
}

func (s *ScratchOutput) CurPosition() int { return s.pos }

func (s *ScratchOutput) Update(pos int, val byte) {
	if pos >= 0 && pos < s.pos {
		s.buf[pos] = val
	}
}

func (s *ScratchOutput) DataSince(pos int) []byte {
	if pos < 0 || pos > s.pos {
		return nil
	}
	return s.buf[pos:s.pos]
}

// Result returns everything written since the last Reset
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Overflowed reports whether any write was truncated since the last Reset
func (s *ScratchOutput) Overflowed() bool {
	return s.overflow
}

// Reset empties the buffer
func (s *ScratchOutput) Reset() {
	s.pos = 0
	s.overflow = false
}

// window is a bounded, contiguous byte queue used to reassemble frames that
// arrive split across reads. Pop compacts the remainder to the front so Data
// never needs to copy.
type window struct {
	buf []byte
	n   int
}

func newWindow(capacity int) *window {
	return &window{buf: make([]byte, capacity)}
}

// Write appends as much of data as fits and returns the count taken
func (w *window) Write(data []byte) int {
	c := copy(w.buf[w.n:], data)
	w.n += c
	return c
}

// Data returns the queued bytes. Valid until the next Write or Pop.
func (w *window) Data() []byte {
	return w.buf[:w.n]
}

// Len returns the number of queued bytes
func (w *window) Len() int { return w.n }

// Free returns the room left for Write
func (w *window) Free() int { return len(w.buf) - w.n }

// Pop discards n bytes from the front
func (w *window) Pop(n int) {
	if n >= w.n {
		w.n = 0
		return
	}
	if n <= 0 {
		return
	}
	w.n = copy(w.buf, w.buf[n:w.n])
}

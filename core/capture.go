package core

import "sync/atomic"

// CaptureStats is a consistent snapshot of the capture counters
type CaptureStats struct {
	Edges      uint32 // Edges handled since Attach
	Overflows  uint32 // Timer overflows seen
	Overwrites uint32 // Edges that replaced a non-zero period never read
}

// CaptureReader turns capture edges into ElapsedTicks updates.
// HandleEdge and HandleOverflow run in interrupt context.
type CaptureReader struct {
	drv  CaptureDriver
	cell *ElapsedTicks

	overflowed atomic.Bool
	edges      atomic.Uint32
	overflows  atomic.Uint32
	overwrites atomic.Uint32
}

// NewCaptureReader creates a reader publishing into cell
func NewCaptureReader(drv CaptureDriver, cell *ElapsedTicks) *CaptureReader {
	return &CaptureReader{drv: drv, cell: cell}
}

// Attach registers the edge handler, and the overflow handler when the
// driver can report overflows
func (c *CaptureReader) Attach() error {
	if c.drv == nil {
		return ErrNoCaptureDriver
	}
	if err := c.drv.OnCaptureEdge(c.HandleEdge); err != nil {
		return err
	}
	if src, ok := c.drv.(OverflowSource); ok {
		if err := src.OnTimerOverflow(c.HandleOverflow); err != nil {
			return err
		}
	}
	return nil
}

// Ticks returns the cell this reader publishes into
func (c *CaptureReader) Ticks() *ElapsedTicks {
	return c.cell
}

// HandleEdge is the capture interrupt handler.
// Order: acknowledge the event, restart the timer, then publish the count
// latched at the edge.
//
//go:noinline
func (c *CaptureReader) HandleEdge() {
	c.drv.ClearCaptureFlag()
	c.drv.ResetTimer()
	count := c.drv.ReadCapturedCount()

	// The period outran the counter: below measurable speed
	if c.overflowed.Swap(false) {
		count = 0
	}

	if c.cell.replace(count) {
		c.overwrites.Add(1)
	}
	c.edges.Add(1)
	RecordEvent(EvtCapture, count)
}

// HandleOverflow is the timer overflow interrupt handler
//
//go:noinline
func (c *CaptureReader) HandleOverflow() {
	c.overflowed.Store(true)
	c.overflows.Add(1)
	RecordEvent(EvtOverflow, c.overflows.Load())
}

// Snapshot returns the counters read with interrupts masked
func (c *CaptureReader) Snapshot() CaptureStats {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	return CaptureStats{
		Edges:      c.edges.Load(),
		Overflows:  c.overflows.Load(),
		Overwrites: c.overwrites.Load(),
	}
}

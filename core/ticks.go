package core

import "sync/atomic"

// unreadBit marks a period the foreground has not read yet. It shares the
// word with the period so publish and consume stay single atomic steps.
const unreadBit = uint64(1) << 32

// ElapsedTicks holds the number of capture-timer ticks between the two most
// recent interrupter edges. It is written only from the capture interrupt and
// read only by the foreground loop.
//
// Zero means "no edge since the last consume" when the reset-after-consume
// policy is in effect.
type ElapsedTicks struct {
	v atomic.Uint64
}

// Store publishes a new period. Interrupt context.
func (e *ElapsedTicks) Store(ticks uint32) {
	e.v.Store(uint64(ticks) | unreadBit)
}

// Load returns the current period without clearing it. The period counts as
// read afterwards.
func (e *ElapsedTicks) Load() uint32 {
	for {
		old := e.v.Load()
		if old&unreadBit == 0 || e.v.CompareAndSwap(old, old&^unreadBit) {
			return uint32(old)
		}
	}
}

// Take returns the current period and clears it to zero in one atomic step,
// so an edge landing between the read and the clear is never lost silently.
func (e *ElapsedTicks) Take() uint32 {
	return uint32(e.v.Swap(0))
}

// replace stores ticks and reports whether it overwrote a non-zero period
// that was never read
func (e *ElapsedTicks) replace(ticks uint32) bool {
	old := e.v.Swap(uint64(ticks) | unreadBit)
	return old&unreadBit != 0 && uint32(old) != 0
}

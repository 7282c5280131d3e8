package sim

import (
	"strings"
	"sync"

	"dcmotor/core"
)

// Display is an in-memory character display implementing core.DisplaySink.
// Text past the right edge is clipped. Safe for concurrent readers.
type Display struct {
	mu       sync.Mutex
	cells    [][]byte
	col, row int
	writes   int
}

// NewDisplay creates a blank display
func NewDisplay(width, height int) *Display {
	d := &Display{cells: make([][]byte, height)}
	for r := range d.cells {
		d.cells[r] = []byte(strings.Repeat(" ", width))
	}
	return d
}

// PositionCursor implements core.DisplaySink
func (d *Display) PositionCursor(column, row uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.col, d.row = int(column), int(row)
}

// WriteText implements core.DisplaySink
func (d *Display) WriteText(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes++
	if d.row < 0 || d.row >= len(d.cells) {
		return
	}
	line := d.cells[d.row]
	for i := 0; i < len(s) && d.col < len(line); i++ {
		line[d.col] = s[i]
		d.col++
	}
}

// WriteNumber implements core.DisplaySink
func (d *Display) WriteNumber(n int) {
	d.WriteText(core.PadNumber(n, core.NumberWidth))
}

// Line returns the contents of row
func (d *Display) Line(row int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if row < 0 || row >= len(d.cells) {
		return ""
	}
	return string(d.cells[row])
}

// String renders all rows separated by newlines
func (d *Display) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	lines := make([]string, len(d.cells))
	for i, l := range d.cells {
		lines[i] = string(l)
	}
	return strings.Join(lines, "\n")
}

// Writes returns the number of write calls
func (d *Display) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

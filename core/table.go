package core

// Traversal selects how the sequencer walks the duty table once a step's
// dwell is exhausted
type Traversal uint8

const (
	// Reverse sweeps up then down, flipping direction at each end without
	// repeating the end index
	Reverse Traversal = iota

	// Wrap restarts at index 0 after the last index
	Wrap
)

func (t Traversal) String() string {
	switch t {
	case Reverse:
		return "reverse"
	case Wrap:
		return "wrap"
	default:
		return "unknown"
	}
}

// Valid reports whether t is a known traversal
func (t Traversal) Valid() bool {
	return t == Reverse || t == Wrap
}

// Direction of travel through the table
type Direction int8

const (
	Up   Direction = 1
	Down Direction = -1
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// DutyTable is an immutable sequence of comparator counts, each relative to
// the PWM period register
type DutyTable struct {
	values []uint32
	period uint32
}

// NewDutyTable validates and copies values. Every entry must satisfy
// 0 <= value <= period.
func NewDutyTable(period uint32, values ...uint32) (DutyTable, error) {
	if period == 0 {
		return DutyTable{}, ErrZeroPeriod
	}
	if len(values) == 0 {
		return DutyTable{}, ErrEmptyDutyTable
	}
	for _, v := range values {
		if v > period {
			return DutyTable{}, ErrDutyExceedsPeriod
		}
	}
	cp := make([]uint32, len(values))
	copy(cp, values)
	return DutyTable{values: cp, period: period}, nil
}

// Len returns the number of steps
func (t DutyTable) Len() int {
	return len(t.values)
}

// At returns the comparator count at index i
func (t DutyTable) At(i int) uint32 {
	return t.values[i]
}

// Period returns the period register the entries are relative to
func (t DutyTable) Period() uint32 {
	return t.period
}

// Values returns a copy of the entries
func (t DutyTable) Values() []uint32 {
	cp := make([]uint32, len(t.values))
	copy(cp, t.values)
	return cp
}

// Next returns the index and direction that follow index i.
// A single-entry table stays on index 0 under either traversal.
func (t DutyTable) Next(i int, dir Direction, trav Traversal) (int, Direction) {
	last := len(t.values) - 1
	if last <= 0 {
		return 0, Up
	}

	if trav == Wrap {
		if i >= last {
			return 0, Up
		}
		return i + 1, Up
	}

	if dir == Down {
		if i <= 0 {
			return 1, Up
		}
		return i - 1, Down
	}
	if i >= last {
		return last - 1, Down
	}
	return i + 1, Up
}

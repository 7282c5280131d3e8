package core

import (
	"errors"
	"time"
)

// MockCaptureDriver records the order of register operations and replays
// programmed counts
type MockCaptureDriver struct {
	edge     CaptureHandler
	overflow CaptureHandler
	counts   []uint32
	ops      []string
}

func (m *MockCaptureDriver) OnCaptureEdge(handler CaptureHandler) error {
	m.edge = handler
	return nil
}

func (m *MockCaptureDriver) OnTimerOverflow(handler CaptureHandler) error {
	m.overflow = handler
	return nil
}

func (m *MockCaptureDriver) ClearCaptureFlag() { m.ops = append(m.ops, "clear") }
func (m *MockCaptureDriver) ResetTimer()       { m.ops = append(m.ops, "reset") }

func (m *MockCaptureDriver) ReadCapturedCount() uint32 {
	m.ops = append(m.ops, "read")
	if len(m.counts) == 0 {
		return 0
	}
	c := m.counts[0]
	m.counts = m.counts[1:]
	return c
}

// fire simulates one edge latching count
func (m *MockCaptureDriver) fire(count uint32) {
	m.counts = append(m.counts, count)
	m.edge()
}

// MockPWMDriver remembers every duty write
type MockPWMDriver struct {
	period uint32
	writes []uint32
	fail   bool
}

func (m *MockPWMDriver) SetDutyRegister(value uint32) error {
	if m.fail {
		return errors.New("pwm bus fault")
	}
	m.writes = append(m.writes, value)
	return nil
}

func (m *MockPWMDriver) PeriodRegister() uint32 { return m.period }

type displayOp struct {
	Col, Row uint8
	Text     string
	Number   int
	IsNumber bool
}

// MockDisplay records writes together with the cursor they landed at
type MockDisplay struct {
	col, row uint8
	ops      []displayOp
}

func (m *MockDisplay) PositionCursor(column, row uint8) {
	m.col, m.row = column, row
}

func (m *MockDisplay) WriteText(s string) {
	m.ops = append(m.ops, displayOp{Col: m.col, Row: m.row, Text: s})
}

func (m *MockDisplay) WriteNumber(n int) {
	m.ops = append(m.ops, displayOp{Col: m.col, Row: m.row, Number: n, IsNumber: true})
}

// MockSleeper runs a hook on every sleep so tests can inject edges
type MockSleeper struct {
	total  time.Duration
	onWake func()
}

func (m *MockSleeper) Sleep(d time.Duration) {
	m.total += d
	if m.onWake != nil {
		m.onWake()
	}
}

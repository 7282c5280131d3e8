package core

import (
	"strings"
	"testing"
)

type seqFixture struct {
	capture *MockCaptureDriver
	reader  *CaptureReader
	pwm     *MockPWMDriver
	display *MockDisplay
	sleeper *MockSleeper
	samples []Sample
	seq     *Sequencer
}

func newSeqFixture(t *testing.T, p Profile) *seqFixture {
	t.Helper()
	ClearEvents()

	f := &seqFixture{
		capture: &MockCaptureDriver{},
		pwm:     &MockPWMDriver{period: p.Period},
		display: &MockDisplay{},
		sleeper: &MockSleeper{},
	}
	cell := &ElapsedTicks{}
	f.reader = NewCaptureReader(f.capture, cell)
	if err := f.reader.Attach(); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	rate, err := p.TickRate()
	if err != nil {
		t.Fatalf("TickRate failed: %v", err)
	}
	est, err := NewSpeedEstimator(rate, p.Policy, cell)
	if err != nil {
		t.Fatalf("NewSpeedEstimator failed: %v", err)
	}
	f.seq, err = NewSequencer(p, Deps{
		PWM:       f.pwm,
		Estimator: est,
		Display:   f.display,
		Sleeper:   f.sleeper,
		Reporter:  ReporterFunc(func(s Sample) { f.samples = append(f.samples, s) }),
		Capture:   f.reader,
	})
	if err != nil {
		t.Fatalf("NewSequencer failed: %v", err)
	}
	return f
}

func TestSequencerStartLabels(t *testing.T) {
	f := newSeqFixture(t, FourInterrupterProfile())
	f.seq.Start()

	want := []displayOp{
		{Col: 2, Row: 0, Text: "PWM_%"},
		{Col: 2, Row: 1, Text: "Speed "},
	}
	if len(f.display.ops) != len(want) {
		t.Fatalf("got %d display ops, want %d", len(f.display.ops), len(want))
	}
	for i, w := range want {
		if f.display.ops[i] != w {
			t.Errorf("op %d = %+v, want %+v", i, f.display.ops[i], w)
		}
	}
}

func TestSequencerDisplayLayout(t *testing.T) {
	f := newSeqFixture(t, FourInterrupterProfile())
	f.capture.fire(25000)
	f.seq.Tick()

	want := []displayOp{
		{Col: 9, Row: 0, Number: 5, IsNumber: true},
		{Col: 9, Row: 1, Number: 10, IsNumber: true},
	}
	for i, w := range want {
		if f.display.ops[i] != w {
			t.Errorf("op %d = %+v, want %+v", i, f.display.ops[i], w)
		}
	}

	// Duty is not shown by the single-interrupter firmware
	g := newSeqFixture(t, SingleInterrupterProfile())
	g.seq.Tick()
	if len(g.display.ops) != 1 || g.display.ops[0].Row != 1 {
		t.Errorf("single-interrupter ops = %+v, want one speed write", g.display.ops)
	}
}

func TestSequencerDwellAndReverse(t *testing.T) {
	p := FourInterrupterProfile()
	f := newSeqFixture(t, p)

	steps := 18 + 1
	for i := 0; i < steps*int(p.DwellCount); i++ {
		f.seq.Tick()
	}

	if len(f.pwm.writes) != steps {
		t.Fatalf("got %d duty writes, want one per step (%d)", len(f.pwm.writes), steps)
	}
	if f.pwm.writes[17] != 90 || f.pwm.writes[18] != 85 {
		t.Errorf("writes around the top = %d, %d, want 90, 85", f.pwm.writes[17], f.pwm.writes[18])
	}

	st := f.seq.State()
	if st.Index != 15 || st.Direction != Down || st.DwellRemaining != p.DwellCount {
		t.Errorf("State() = %+v, want index 15 going down with full dwell", st)
	}
	if want := p.DwellDelay * 5 * 19; f.sleeper.total != want {
		t.Errorf("slept %v, want %v", f.sleeper.total, want)
	}
}

func TestSequencerWrap(t *testing.T) {
	p := SingleInterrupterProfile()
	f := newSeqFixture(t, p)

	for i := 0; i < 4*int(p.DwellCount); i++ {
		f.seq.Tick()
	}

	want := []uint32{10, 15, 17, 10}
	if len(f.pwm.writes) != len(want) {
		t.Fatalf("writes = %v, want %v", f.pwm.writes, want)
	}
	for i, w := range want {
		if f.pwm.writes[i] != w {
			t.Errorf("write %d = %d, want %d", i, f.pwm.writes[i], w)
		}
	}
}

func TestSequencerNeverExceedsPeriod(t *testing.T) {
	p := FourInterrupterProfile()
	f := newSeqFixture(t, p)
	f.pwm.period = 50 // Driver configured with a shorter period than the table

	for i := 0; i < 40*int(p.DwellCount); i++ {
		f.seq.Tick()
	}
	for i, w := range f.pwm.writes {
		if w > f.pwm.period {
			t.Fatalf("write %d = %d exceeds period %d", i, w, f.pwm.period)
		}
	}
}

func TestSequencerResetAfterConsume(t *testing.T) {
	f := newSeqFixture(t, FourInterrupterProfile())

	// One edge during the first dwell only
	wakes := 0
	f.sleeper.onWake = func() {
		wakes++
		if wakes == 1 {
			f.capture.fire(25000)
		}
	}

	for i := 0; i < 4; i++ {
		f.seq.Tick()
	}

	want := []uint32{0, 10, 0, 0}
	for i, w := range want {
		if f.samples[i].RPS != w {
			t.Errorf("sample %d RPS = %d, want %d", i, f.samples[i].RPS, w)
		}
	}
	if f.samples[1].Edges != 1 || f.samples[1].Ticks != 25000 {
		t.Errorf("sample 1 = %+v", f.samples[1])
	}
}

func TestSequencerHoldLastReading(t *testing.T) {
	f := newSeqFixture(t, SingleInterrupterProfile())
	f.capture.fire(625)

	for i := 0; i < 3; i++ {
		if s := f.seq.Tick(); s.RPS != 100 {
			t.Errorf("tick %d RPS = %d, want 100", i, s.RPS)
		}
	}
}

func TestSequencerStallEvent(t *testing.T) {
	f := newSeqFixture(t, FourInterrupterProfile())
	for i := 0; i < 3; i++ {
		f.seq.Tick()
	}

	stalls := 0
	for _, e := range Events() {
		if e.Type == EvtStall {
			stalls++
		}
	}
	if stalls != 1 {
		t.Errorf("recorded %d stall events, want 1 per transition", stalls)
	}
	if !f.samples[0].Stalled() {
		t.Errorf("sample with duty and no speed should report stalled")
	}
}

func TestSequencerPWMErrorContinues(t *testing.T) {
	f := newSeqFixture(t, FourInterrupterProfile())
	f.pwm.fail = true

	s := f.seq.Tick()
	if s.Iteration != 1 {
		t.Errorf("Iteration = %d, want 1", s.Iteration)
	}

	found := false
	for _, e := range Events() {
		if e.Type == EvtPWMError && e.Value == 5 {
			found = true
		}
	}
	if !found {
		t.Errorf("PWM error was not recorded")
	}
}

func TestSequencerPWMErrorTraced(t *testing.T) {
	f := newSeqFixture(t, FourInterrupterProfile())
	f.pwm.fail = true

	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	SetDebugEnabled(true)
	defer func() {
		SetDebugEnabled(false)
		SetDebugWriter(func(string) {})
	}()

	f.seq.Tick()
	found := false
	for _, l := range lines {
		if strings.Contains(l, "duty write failed") {
			found = true
		}
	}
	if !found {
		t.Errorf("duty write failure not traced: %v", lines)
	}
}

func TestNewSequencerErrors(t *testing.T) {
	p := FourInterrupterProfile()
	est, _ := NewSpeedEstimator(250000, ResetAfterConsume, &ElapsedTicks{})
	pwm := &MockPWMDriver{period: 100}
	sl := &MockSleeper{}

	tests := []struct {
		name string
		deps Deps
		err  error
	}{
		{"no pwm", Deps{Estimator: est, Sleeper: sl}, ErrNoPWMDriver},
		{"no estimator", Deps{PWM: pwm, Sleeper: sl}, ErrNoEstimator},
		{"no sleeper", Deps{PWM: pwm, Estimator: est}, ErrNoSleeper},
	}
	for _, tt := range tests {
		if _, err := NewSequencer(p, tt.deps); err != tt.err {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.err)
		}
	}

	p.DwellCount = 0
	if _, err := NewSequencer(p, Deps{PWM: pwm, Estimator: est, Sleeper: sl}); err != ErrDwellCount {
		t.Errorf("invalid profile: got %v, want ErrDwellCount", err)
	}
}

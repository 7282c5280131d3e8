package sim

import (
	"testing"
	"time"

	"dcmotor/core"
)

func TestBenchOverflowWhileStopped(t *testing.T) {
	clock := NewClock(0)
	b, err := NewBench(core.FourInterrupterProfile(), DefaultMotorParams(), clock)
	if err != nil {
		t.Fatalf("NewBench failed: %v", err)
	}
	overflows := 0
	b.OnTimerOverflow(func() { overflows++ })

	// 250000 ticks wrap a 16-bit counter three times
	b.Sleep(time.Second)
	if overflows != 3 {
		t.Errorf("overflows = %d in 1s, want 3", overflows)
	}
	if b.Edges() != 0 {
		t.Errorf("stopped motor produced %d edges", b.Edges())
	}
}

func TestBenchCapturePeriod(t *testing.T) {
	clock := NewClock(0)
	params := DefaultMotorParams()
	params.Tau = 0 // Reach speed immediately
	b, err := NewBench(core.FourInterrupterProfile(), params, clock)
	if err != nil {
		t.Fatalf("NewBench failed: %v", err)
	}

	var counts []uint32
	b.OnCaptureEdge(func() {
		b.ClearCaptureFlag()
		b.ResetTimer()
		counts = append(counts, b.ReadCapturedCount())
	})

	// 50 of 100 -> 60 rps -> 4166.67 ticks per edge at 250 kHz
	if err := b.SetDutyRegister(50); err != nil {
		t.Fatalf("SetDutyRegister failed: %v", err)
	}
	b.Sleep(time.Second)

	if len(counts) < 59 || len(counts) > 61 {
		t.Fatalf("got %d edges in 1s, want about 60", len(counts))
	}
	for i, c := range counts[1:] {
		if c < 4165 || c > 4168 {
			t.Errorf("edge %d latched %d ticks, want about 4167", i+1, c)
		}
	}
	if b.FlagPending() {
		t.Errorf("capture flag left pending after handler cleared it")
	}
}

func TestBenchRejectsDutyAbovePeriod(t *testing.T) {
	b, err := NewBench(core.SingleInterrupterProfile(), DefaultMotorParams(), NewClock(0))
	if err != nil {
		t.Fatalf("NewBench failed: %v", err)
	}
	if err := b.SetDutyRegister(21); err != core.ErrDutyExceedsPeriod {
		t.Errorf("SetDutyRegister(21) = %v, want ErrDutyExceedsPeriod", err)
	}
	if b.PeriodRegister() != 20 {
		t.Errorf("PeriodRegister() = %d, want 20", b.PeriodRegister())
	}
}

func TestDisplay(t *testing.T) {
	d := NewDisplay(16, 2)
	d.PositionCursor(2, 0)
	d.WriteText("PWM_%")
	d.PositionCursor(9, 0)
	d.WriteNumber(12345)
	d.PositionCursor(9, 0)
	d.WriteNumber(7)
	d.PositionCursor(14, 1)
	d.WriteText("clipped")

	if got, want := d.Line(0), "  PWM_%  7      "; got != want {
		t.Errorf("Line(0) = %q, want %q", got, want)
	}
	if got, want := d.Line(1), "              cl"; got != want {
		t.Errorf("Line(1) = %q, want %q", got, want)
	}
	if d.Writes() != 4 {
		t.Errorf("Writes() = %d, want 4", d.Writes())
	}
}

package core

import (
	"testing"
	"time"
)

func TestBuiltinProfiles(t *testing.T) {
	tests := []struct {
		profile Profile
		rate    uint32
		period  uint32
		first   uint32
		last    uint32
		steps   int
	}{
		{FourInterrupterProfile(), 250000, 100, 5, 90, 18},
		{SingleInterrupterProfile(), 62500, 20, 10, 17, 3},
	}

	for _, tt := range tests {
		t.Run(tt.profile.Name, func(t *testing.T) {
			if err := tt.profile.Validate(); err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			rate, err := tt.profile.TickRate()
			if err != nil || rate != tt.rate {
				t.Errorf("TickRate() = (%d, %v), want %d", rate, err, tt.rate)
			}
			d := tt.profile.Duty
			if d.Period() != tt.period || d.Len() != tt.steps {
				t.Errorf("table period %d len %d, want %d, %d", d.Period(), d.Len(), tt.period, tt.steps)
			}
			if d.At(0) != tt.first || d.At(d.Len()-1) != tt.last {
				t.Errorf("table ends %d..%d, want %d..%d", d.At(0), d.At(d.Len()-1), tt.first, tt.last)
			}
			if tt.profile.MaxCapture() != 0xFFFF {
				t.Errorf("MaxCapture() = %d, want 65535", tt.profile.MaxCapture())
			}
		})
	}
}

func TestProfileByName(t *testing.T) {
	for _, name := range []string{"four", FourInterrupterName} {
		p, ok := ProfileByName(name)
		if !ok || p.Traversal != Reverse {
			t.Errorf("ProfileByName(%q) = %v, %v", name, p.Name, ok)
		}
	}
	if p, ok := ProfileByName("single"); !ok || p.Policy != HoldLastReading {
		t.Errorf("ProfileByName(single) = %v, %v", p.Name, ok)
	}
	if _, ok := ProfileByName("six"); ok {
		t.Errorf("ProfileByName(six) should fail")
	}
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Profile)
		err    error
	}{
		{"zero prescaler", func(p *Profile) { p.Prescaler = 0 }, ErrZeroPrescaler},
		{"slow clock", func(p *Profile) { p.TimerClockHz = 1 }, ErrTickRateZero},
		{"capture width", func(p *Profile) { p.CaptureBits = 0 }, ErrCaptureWidth},
		{"wide capture", func(p *Profile) { p.CaptureBits = 33 }, ErrCaptureWidth},
		{"zero period", func(p *Profile) { p.Period = 0 }, ErrZeroPeriod},
		{"empty table", func(p *Profile) { p.Duty = DutyTable{} }, ErrEmptyDutyTable},
		{"period mismatch", func(p *Profile) { p.Period = 50 }, ErrPeriodMismatch},
		{"traversal", func(p *Profile) { p.Traversal = Traversal(7) }, ErrUnknownTraversal},
		{"policy", func(p *Profile) { p.Policy = StalePolicy(7) }, ErrUnknownPolicy},
		{"dwell count", func(p *Profile) { p.DwellCount = 0 }, ErrDwellCount},
		{"dwell delay", func(p *Profile) { p.DwellDelay = -time.Second }, ErrDwellDelay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FourInterrupterProfile()
			tt.mutate(&p)
			if err := p.Validate(); err != tt.err {
				t.Errorf("Validate() = %v, want %v", err, tt.err)
			}
		})
	}
}

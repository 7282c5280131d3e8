package sim

import (
	"math"
	"testing"
	"time"
)

func TestMotorSteadyState(t *testing.T) {
	m := NewMotor(DefaultMotorParams())
	m.SetDuty(0.5)
	for i := 0; i < 2000; i++ {
		m.Step(time.Millisecond)
	}
	if math.Abs(m.RPS()-60) > 0.01 {
		t.Errorf("RPS() = %v after 2s at 50%%, want 60", m.RPS())
	}

	// One time constant reaches 63% of the step
	m2 := NewMotor(DefaultMotorParams())
	m2.SetDuty(1)
	m2.Step(150 * time.Millisecond)
	if got := m2.RPS() / 120; math.Abs(got-0.632) > 0.01 {
		t.Errorf("fraction after tau = %v, want 0.632", got)
	}
}

func TestMotorStall(t *testing.T) {
	m := NewMotor(DefaultMotorParams())
	m.SetDuty(0.05)
	m.Step(time.Second)
	if m.RPS() != 0 || m.Target() != 0 {
		t.Errorf("motor below stall duty turned at %v rps", m.RPS())
	}

	m.SetDuty(2)
	if m.Duty() != 1 {
		t.Errorf("Duty() = %v, want clamp to 1", m.Duty())
	}
}

func TestMotorParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *MotorParams)
		ok     bool
	}{
		{"default", func(p *MotorParams) {}, true},
		{"max rps", func(p *MotorParams) { p.MaxRPS = 0 }, false},
		{"stall duty", func(p *MotorParams) { p.StallDuty = 1 }, false},
		{"tau", func(p *MotorParams) { p.Tau = -time.Second }, false},
		{"edges", func(p *MotorParams) { p.EdgesPerRev = 0 }, false},
	}
	for _, tt := range tests {
		p := DefaultMotorParams()
		tt.mutate(&p)
		if err := p.Validate(); (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v", tt.name, err)
		}
	}
}

package sim

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// MotorParams describe a brushed DC motor with an opto interrupter wheel
type MotorParams struct {
	// MaxRPS is the free-running speed at 100% duty
	MaxRPS float64 `yaml:"max_rps"`

	// StallDuty is the duty ratio below which the motor does not turn
	StallDuty float64 `yaml:"stall_duty"`

	// Tau is the mechanical time constant
	Tau time.Duration `yaml:"tau"`

	// EdgesPerRev is the number of interrupter edges per revolution
	EdgesPerRev int `yaml:"edges_per_rev"`
}

// DefaultMotorParams is a small hobby motor with one slot per revolution
func DefaultMotorParams() MotorParams {
	return MotorParams{
		MaxRPS:      120,
		StallDuty:   0.08,
		Tau:         150 * time.Millisecond,
		EdgesPerRev: 1,
	}
}

// Validate reports whether the parameters can be simulated
func (p MotorParams) Validate() error {
	switch {
	case p.MaxRPS <= 0:
		return errors.Errorf("max_rps must be positive, got %v", p.MaxRPS)
	case p.StallDuty < 0 || p.StallDuty >= 1:
		return errors.Errorf("stall_duty must be in [0, 1), got %v", p.StallDuty)
	case p.Tau < 0:
		return errors.Errorf("tau must not be negative, got %v", p.Tau)
	case p.EdgesPerRev <= 0:
		return errors.Errorf("edges_per_rev must be positive, got %d", p.EdgesPerRev)
	}
	return nil
}

// Motor is a first-order speed model
type Motor struct {
	params MotorParams
	duty   float64 // 0..1
	rps    float64
}

// NewMotor creates a motor at rest
func NewMotor(params MotorParams) *Motor {
	return &Motor{params: params}
}

// SetDuty sets the applied duty ratio, clamped to [0, 1]
func (m *Motor) SetDuty(ratio float64) {
	m.duty = math.Max(0, math.Min(1, ratio))
}

// Duty returns the applied duty ratio
func (m *Motor) Duty() float64 {
	return m.duty
}

// Target returns the steady-state speed for the applied duty
func (m *Motor) Target() float64 {
	if m.duty < m.params.StallDuty {
		return 0
	}
	return m.params.MaxRPS * m.duty
}

// Step integrates the speed over dt
func (m *Motor) Step(dt time.Duration) {
	target := m.Target()
	if m.params.Tau <= 0 {
		m.rps = target
		return
	}
	alpha := 1 - math.Exp(-float64(dt)/float64(m.params.Tau))
	m.rps += (target - m.rps) * alpha
}

// RPS returns the current speed in revolutions per second
func (m *Motor) RPS() float64 {
	return m.rps
}

// EdgeRate returns interrupter edges per second at the current speed
func (m *Motor) EdgeRate() float64 {
	return m.rps * float64(m.params.EdgesPerRev)
}

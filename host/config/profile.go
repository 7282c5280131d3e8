package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"dcmotor/core"
	"dcmotor/host/sim"
)

// SimProfile is the YAML form of a firmware profile plus the simulated motor.
// Fields left out keep the values of the built-in profile named by Base and
// the default motor.
type SimProfile struct {
	Base         string        `yaml:"base"`
	Name         string        `yaml:"name"`
	TimerClockHz uint32        `yaml:"timer_clock_hz"`
	Prescaler    uint32        `yaml:"prescaler"`
	CaptureBits  uint8         `yaml:"capture_bits"`
	Period       uint32        `yaml:"period"`
	Duty         []uint32      `yaml:"duty"`
	Traversal    string        `yaml:"traversal"`
	DwellCount   uint32        `yaml:"dwell_count"`
	DwellDelay   time.Duration `yaml:"dwell_delay"`
	Policy       string        `yaml:"policy"`
	DutyLabel    *string       `yaml:"duty_label"`
	SpeedLabel   *string       `yaml:"speed_label"`
	ShowDuty     *bool         `yaml:"show_duty"`

	Motor sim.MotorParams `yaml:"motor"`
}

// ResolveProfile returns a built-in profile by name ("four", "single" or the
// full names) or loads a YAML file from path
func ResolveProfile(nameOrPath string) (core.Profile, sim.MotorParams, error) {
	if p, ok := core.ProfileByName(nameOrPath); ok {
		return p, sim.DefaultMotorParams(), nil
	}
	return LoadSimProfile(nameOrPath)
}

// LoadSimProfile reads and validates a YAML profile file
func LoadSimProfile(path string) (core.Profile, sim.MotorParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Profile{}, sim.MotorParams{}, errors.Wrapf(err, "read profile %s", path)
	}
	p, params, err := ParseSimProfile(data)
	if err != nil {
		return core.Profile{}, sim.MotorParams{}, errors.Wrapf(err, "profile %s", path)
	}
	return p, params, nil
}

// ParseSimProfile decodes a YAML profile
func ParseSimProfile(data []byte) (core.Profile, sim.MotorParams, error) {
	sp := SimProfile{Motor: sim.DefaultMotorParams()}
	if err := yaml.UnmarshalStrict(data, &sp); err != nil {
		return core.Profile{}, sim.MotorParams{}, maskAny(err)
	}

	base := sp.Base
	if base == "" {
		base = core.FourInterrupterName
	}
	p, ok := core.ProfileByName(base)
	if !ok {
		return core.Profile{}, sim.MotorParams{}, errors.Errorf("unknown base profile %q", base)
	}

	if sp.Name != "" {
		p.Name = sp.Name
	}
	if sp.TimerClockHz != 0 {
		p.TimerClockHz = sp.TimerClockHz
	}
	if sp.Prescaler != 0 {
		p.Prescaler = sp.Prescaler
	}
	if sp.CaptureBits != 0 {
		p.CaptureBits = sp.CaptureBits
	}
	if sp.DwellCount != 0 {
		p.DwellCount = sp.DwellCount
	}
	if sp.DwellDelay != 0 {
		p.DwellDelay = sp.DwellDelay
	}
	if sp.DutyLabel != nil {
		p.DutyLabel = *sp.DutyLabel
	}
	if sp.SpeedLabel != nil {
		p.SpeedLabel = *sp.SpeedLabel
	}
	if sp.ShowDuty != nil {
		p.ShowDuty = *sp.ShowDuty
	}

	if sp.Period != 0 || len(sp.Duty) > 0 {
		period := p.Period
		if sp.Period != 0 {
			period = sp.Period
		}
		values := p.Duty.Values()
		if len(sp.Duty) > 0 {
			values = sp.Duty
		}
		table, err := core.NewDutyTable(period, values...)
		if err != nil {
			return core.Profile{}, sim.MotorParams{}, maskAny(err)
		}
		p.Period = period
		p.Duty = table
	}

	if sp.Traversal != "" {
		t, err := parseTraversal(sp.Traversal)
		if err != nil {
			return core.Profile{}, sim.MotorParams{}, err
		}
		p.Traversal = t
	}
	if sp.Policy != "" {
		pol, err := parsePolicy(sp.Policy)
		if err != nil {
			return core.Profile{}, sim.MotorParams{}, err
		}
		p.Policy = pol
	}

	if err := p.Validate(); err != nil {
		return core.Profile{}, sim.MotorParams{}, maskAny(err)
	}

	if err := sp.Motor.Validate(); err != nil {
		return core.Profile{}, sim.MotorParams{}, err
	}
	return p, sp.Motor, nil
}

func parseTraversal(s string) (core.Traversal, error) {
	for _, t := range []core.Traversal{core.Reverse, core.Wrap} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, errors.Errorf("unknown traversal %q (reverse|wrap)", s)
}

func parsePolicy(s string) (core.StalePolicy, error) {
	for _, p := range []core.StalePolicy{core.ResetAfterConsume, core.HoldLastReading} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, errors.Errorf("unknown policy %q (reset-after-consume|hold-last-reading)", s)
}

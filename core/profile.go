package core

import "time"

// Profile describes one firmware variant. Values are checked by Validate and
// never change once the sequencer starts.
type Profile struct {
	Name string

	TimerClockHz uint32 // Capture timer input clock
	Prescaler    uint32 // Capture timer divider
	CaptureBits  uint8  // Width of the capture counter

	Period    uint32 // PWM period register
	Duty      DutyTable
	Traversal Traversal

	DwellCount uint32        // Display refreshes per step
	DwellDelay time.Duration // Delay after each refresh
	Policy     StalePolicy

	DutyLabel  string
	SpeedLabel string
	ShowDuty   bool // Print the duty count next to DutyLabel
}

// Display layout
const (
	LabelColumn uint8 = 2
	ValueColumn uint8 = 9
	DutyRow     uint8 = 0
	SpeedRow    uint8 = 1

	// NumberWidth is the field width display sinks pad numbers to
	NumberWidth = 5
)

// Profile names
const (
	FourInterrupterName   = "four-interrupter"
	SingleInterrupterName = "single-interrupter"
)

// FourInterrupterProfile sweeps 5..90 of a period of 100 up and down, clearing
// the measured period after every read. Timer: 8 MHz Fosc/4, prescaler 8.
func FourInterrupterProfile() Profile {
	values := make([]uint32, 0, 18)
	for v := uint32(5); v <= 90; v += 5 {
		values = append(values, v)
	}
	table, _ := NewDutyTable(100, values...)
	return Profile{
		Name:         FourInterrupterName,
		TimerClockHz: 2000000,
		Prescaler:    8,
		CaptureBits:  16,
		Period:       100,
		Duty:         table,
		Traversal:    Reverse,
		DwellCount:   5,
		DwellDelay:   time.Second,
		Policy:       ResetAfterConsume,
		DutyLabel:    "PWM_%",
		SpeedLabel:   "Speed ",
		ShowDuty:     true,
	}
}

// SingleInterrupterProfile cycles three levels of a period of 20 and keeps
// the last measured period on stall. Timer: 2 MHz Fosc/4, prescaler 8.
func SingleInterrupterProfile() Profile {
	table, _ := NewDutyTable(20, 10, 15, 17)
	return Profile{
		Name:         SingleInterrupterName,
		TimerClockHz: 500000,
		Prescaler:    8,
		CaptureBits:  16,
		Period:       20,
		Duty:         table,
		Traversal:    Wrap,
		DwellCount:   5,
		DwellDelay:   time.Second,
		Policy:       HoldLastReading,
		DutyLabel:    "Motor Control",
		SpeedLabel:   "Speed",
		ShowDuty:     false,
	}
}

// ProfileByName returns a built-in profile
func ProfileByName(name string) (Profile, bool) {
	switch name {
	case FourInterrupterName, "four":
		return FourInterrupterProfile(), true
	case SingleInterrupterName, "single":
		return SingleInterrupterProfile(), true
	}
	return Profile{}, false
}

// TickRate returns the capture timer rate in ticks per second
func (p Profile) TickRate() (uint32, error) {
	return TickRate(p.TimerClockHz, p.Prescaler)
}

// MaxCapture returns the largest count the capture counter can hold
func (p Profile) MaxCapture() uint32 {
	if p.CaptureBits >= 32 {
		return ^uint32(0)
	}
	return uint32(1)<<p.CaptureBits - 1
}

// Validate checks the profile for internal consistency
func (p Profile) Validate() error {
	if _, err := p.TickRate(); err != nil {
		return err
	}
	if p.CaptureBits == 0 || p.CaptureBits > 32 {
		return ErrCaptureWidth
	}
	if p.Period == 0 {
		return ErrZeroPeriod
	}
	if p.Duty.Len() == 0 {
		return ErrEmptyDutyTable
	}
	if p.Duty.Period() != p.Period {
		return ErrPeriodMismatch
	}
	if !p.Traversal.Valid() {
		return ErrUnknownTraversal
	}
	if !p.Policy.Valid() {
		return ErrUnknownPolicy
	}
	if p.DwellCount == 0 {
		return ErrDwellCount
	}
	if p.DwellDelay <= 0 {
		return ErrDwellDelay
	}
	return nil
}

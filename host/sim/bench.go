package sim

import (
	"time"

	"github.com/pkg/errors"

	"dcmotor/core"
)

// DefaultStep is the physics integration step
const DefaultStep = 500 * time.Microsecond

// Bench is a virtual test bench: a motor whose interrupter wheel drives a
// capture timer. It implements core.CaptureDriver, core.OverflowSource,
// core.PWMDriver and core.Sleeper on one virtual clock.
type Bench struct {
	clock *Clock
	motor *Motor

	tickRate uint32
	wrap     uint64 // Capture counter modulus
	period   uint32
	step     time.Duration

	edge     core.CaptureHandler
	overflow core.CaptureHandler

	timerBase   time.Duration
	isrTime     time.Duration
	inISR       bool
	latched     uint32
	flagPending bool
	wrapsSeen   uint64
	phase       float64

	physics Timer
	edges   uint64
	duty    uint32
}

// NewBench creates a bench for the profile's timer and PWM settings and
// starts the physics timer on clock
func NewBench(p core.Profile, params MotorParams, clock *Clock) (*Bench, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid profile")
	}
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid motor")
	}
	rate, _ := p.TickRate()

	b := &Bench{
		clock:    clock,
		motor:    NewMotor(params),
		tickRate: rate,
		wrap:     uint64(p.MaxCapture()) + 1,
		period:   p.Period,
		step:     DefaultStep,
	}
	b.timerBase = clock.Now()
	b.physics = Timer{
		WakeTime: clock.Now() + b.step,
		Handler:  b.onPhysics,
	}
	clock.Schedule(&b.physics)
	return b, nil
}

// Motor returns the simulated motor
func (b *Bench) Motor() *Motor {
	return b.motor
}

// Clock returns the virtual clock
func (b *Bench) Clock() *Clock {
	return b.clock
}

// Edges returns the number of interrupter edges generated
func (b *Bench) Edges() uint64 {
	return b.edges
}

// FlagPending reports whether the last capture event was not acknowledged
func (b *Bench) FlagPending() bool {
	return b.flagPending
}

// Stop cancels the physics timer. The motor freezes and no further edges
// are generated.
func (b *Bench) Stop() {
	b.clock.Cancel(&b.physics)
}

// OnCaptureEdge implements core.CaptureDriver
func (b *Bench) OnCaptureEdge(handler core.CaptureHandler) error {
	b.edge = handler
	return nil
}

// OnTimerOverflow implements core.OverflowSource
func (b *Bench) OnTimerOverflow(handler core.CaptureHandler) error {
	b.overflow = handler
	return nil
}

// ClearCaptureFlag implements core.CaptureDriver
func (b *Bench) ClearCaptureFlag() {
	b.flagPending = false
}

// ResetTimer implements core.CaptureDriver. Inside the edge handler the
// timer restarts at the edge instant.
func (b *Bench) ResetTimer() {
	if b.inISR {
		b.timerBase = b.isrTime
	} else {
		b.timerBase = b.clock.Now()
	}
	b.wrapsSeen = 0
}

// ReadCapturedCount implements core.CaptureDriver
func (b *Bench) ReadCapturedCount() uint32 {
	return b.latched
}

// SetDutyRegister implements core.PWMDriver
func (b *Bench) SetDutyRegister(value uint32) error {
	if value > b.period {
		return core.ErrDutyExceedsPeriod
	}
	b.duty = value
	b.motor.SetDuty(float64(value) / float64(b.period))
	return nil
}

// PeriodRegister implements core.PWMDriver
func (b *Bench) PeriodRegister() uint32 {
	return b.period
}

// Duty returns the last comparator value written
func (b *Bench) Duty() uint32 {
	return b.duty
}

// Sleep implements core.Sleeper on the virtual clock
func (b *Bench) Sleep(d time.Duration) {
	b.clock.Sleep(d)
}

// onPhysics integrates the motor over one step and raises the interrupter
// edges and counter overflows that fell inside it, in time order
func (b *Bench) onPhysics(t *Timer) uint8 {
	now := t.WakeTime
	start := now - b.step

	b.motor.Step(b.step)
	rate := b.motor.EdgeRate()
	b.phase += rate * b.step.Seconds()

	for b.phase >= 1 {
		b.phase--
		at := now - time.Duration(b.phase/rate*float64(time.Second))
		if at < start {
			at = start
		}
		b.checkOverflow(at)
		b.fireEdge(at)
	}
	b.checkOverflow(now)

	t.WakeTime += b.step
	return Reschedule
}

func (b *Bench) ticksSince(at time.Duration) uint64 {
	return core.DurationToTicks(at-b.timerBase, b.tickRate)
}

func (b *Bench) checkOverflow(at time.Duration) {
	wraps := b.ticksSince(at) / b.wrap
	for b.wrapsSeen < wraps {
		b.wrapsSeen++
		if b.overflow != nil {
			b.overflow()
		}
	}
}

func (b *Bench) fireEdge(at time.Duration) {
	b.edges++
	b.latched = uint32(b.ticksSince(at) % b.wrap)
	b.flagPending = true
	if b.edge == nil {
		return
	}
	b.isrTime = at
	b.inISR = true
	b.edge()
	b.inISR = false
}

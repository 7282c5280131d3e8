// Package sim runs the motor core against a virtual bench so the firmware
// logic can be exercised on a desktop.
package sim

import (
	"context"

	"github.com/pkg/errors"

	"dcmotor/core"
)

// Rig is the complete firmware loop wired to a Bench
type Rig struct {
	Profile   core.Profile
	Clock     *Clock
	Bench     *Bench
	Display   *Display
	Capture   *core.CaptureReader
	Estimator *core.SpeedEstimator
	Sequencer *core.Sequencer
}

// NewRig wires a capture reader, estimator and sequencer to a fresh bench.
// reporter may be nil.
func NewRig(p core.Profile, params MotorParams, speedup float64, reporter core.Reporter) (*Rig, error) {
	clock := NewClock(speedup)
	bench, err := NewBench(p, params, clock)
	if err != nil {
		return nil, err
	}
	rate, _ := p.TickRate()

	r := &Rig{
		Profile: p,
		Clock:   clock,
		Bench:   bench,
		Display: NewDisplay(16, 2),
	}
	cell := &core.ElapsedTicks{}
	r.Capture = core.NewCaptureReader(bench, cell)
	if err := r.Capture.Attach(); err != nil {
		return nil, errors.Wrap(err, "attach capture")
	}
	if r.Estimator, err = core.NewSpeedEstimator(rate, p.Policy, cell); err != nil {
		return nil, errors.Wrap(err, "speed estimator")
	}
	r.Sequencer, err = core.NewSequencer(p, core.Deps{
		PWM:       bench,
		Estimator: r.Estimator,
		Display:   r.Display,
		Sleeper:   bench,
		Reporter:  reporter,
		Capture:   r.Capture,
	})
	if err != nil {
		return nil, errors.Wrap(err, "sequencer")
	}
	return r, nil
}

// Run starts the sequencer and ticks it until ctx is cancelled. The bench
// is stopped on return.
func (r *Rig) Run(ctx context.Context) error {
	defer r.Bench.Stop()
	r.Sequencer.Start()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Sequencer.Tick()
	}
}

// RunIterations starts the sequencer and runs n dwell iterations
func (r *Rig) RunIterations(n int) []core.Sample {
	r.Sequencer.Start()
	samples := make([]core.Sample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, r.Sequencer.Tick())
	}
	return samples
}

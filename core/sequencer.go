package core

// Deps are the collaborators a Sequencer drives
type Deps struct {
	PWM       PWMDriver
	Estimator *SpeedEstimator
	Display   DisplaySink // Optional
	Sleeper   Sleeper
	Reporter  Reporter       // Optional
	Capture   *CaptureReader // Optional, source of Sample counters
}

// State is the sequencer position in the duty table
type State struct {
	Index          int
	DwellRemaining uint32
	Direction      Direction
}

// Sequencer walks the duty table open-loop: it writes each duty value, shows
// the measured speed DwellCount times with DwellDelay between refreshes, then
// moves to the next index. It never terminates.
type Sequencer struct {
	profile Profile
	deps    Deps

	state     State
	applied   bool // Duty for state.Index has been written
	duty      uint32
	iteration uint32
	stalled   bool
}

// NewSequencer validates the profile and collaborators
func NewSequencer(profile Profile, deps Deps) (*Sequencer, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if deps.PWM == nil {
		return nil, ErrNoPWMDriver
	}
	if deps.Estimator == nil {
		return nil, ErrNoEstimator
	}
	if deps.Sleeper == nil {
		return nil, ErrNoSleeper
	}
	if deps.Display == nil {
		deps.Display = nopDisplay{}
	}
	return &Sequencer{
		profile: profile,
		deps:    deps,
		state: State{
			Index:          0,
			DwellRemaining: profile.DwellCount,
			Direction:      Up,
		},
	}, nil
}

// Profile returns the profile the sequencer runs
func (s *Sequencer) Profile() Profile {
	return s.profile
}

// State returns the current position
func (s *Sequencer) State() State {
	return s.state
}

// Start writes the static labels and announces the profile
func (s *Sequencer) Start() {
	d := s.deps.Display
	d.PositionCursor(LabelColumn, DutyRow)
	d.WriteText(s.profile.DutyLabel)
	d.PositionCursor(LabelColumn, SpeedRow)
	d.WriteText(s.profile.SpeedLabel)

	if pr, ok := s.deps.Reporter.(ProfileReporter); ok {
		pr.ReportProfile(s.profile)
	}
	DebugPrintln("[SEQ] start " + s.profile.Name)
}

// Run starts the sequence and never returns
func (s *Sequencer) Run() {
	s.Start()
	for {
		s.Tick()
	}
}

// Tick runs one dwell iteration: write the step's duty if not yet written,
// sample the speed, refresh the display, report, then sleep.
// When the dwell is exhausted the sequencer advances to the next index.
func (s *Sequencer) Tick() Sample {
	if !s.applied {
		s.applyDuty()
	}

	rps, ticks := s.deps.Estimator.Sample()

	d := s.deps.Display
	if s.profile.ShowDuty {
		d.PositionCursor(ValueColumn, DutyRow)
		d.WriteNumber(int(s.duty))
	}
	d.PositionCursor(ValueColumn, SpeedRow)
	d.WriteNumber(int(rps))

	s.iteration++
	sample := Sample{
		Iteration: s.iteration,
		Index:     s.state.Index,
		Direction: s.state.Direction,
		Duty:      s.duty,
		Period:    s.profile.Period,
		Ticks:     ticks,
		RPS:       rps,
	}
	if s.deps.Capture != nil {
		st := s.deps.Capture.Snapshot()
		sample.Edges = st.Edges
		sample.Overflows = st.Overflows
		sample.Overwrites = st.Overwrites
	}

	stalled := sample.Stalled()
	if stalled && !s.stalled {
		RecordEvent(EvtStall, s.duty)
	}
	s.stalled = stalled

	if s.deps.Reporter != nil {
		s.deps.Reporter.Report(sample)
	}

	s.deps.Sleeper.Sleep(s.profile.DwellDelay)

	s.state.DwellRemaining--
	if s.state.DwellRemaining == 0 {
		s.advance()
	}
	return sample
}

// applyDuty writes the current step's comparator value, bounded by the
// driver's period register
func (s *Sequencer) applyDuty() {
	value := s.profile.Duty.At(s.state.Index)
	value = clampDuty(value, s.deps.PWM.PeriodRegister())
	s.duty = value
	s.applied = true

	if err := s.deps.PWM.SetDutyRegister(value); err != nil {
		RecordEvent(EvtPWMError, value)
		DebugPrintln("[SEQ] duty write failed: " + err.Error())
		return
	}
	RecordEvent(EvtStep, uint32(s.state.Index))
}

func (s *Sequencer) advance() {
	s.state.Index, s.state.Direction = s.profile.Duty.Next(s.state.Index, s.state.Direction, s.profile.Traversal)
	s.state.DwellRemaining = s.profile.DwellCount
	s.applied = false
}

// Package monitor turns decoded motor telemetry into logs and Prometheus
// metrics.
package monitor

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"dcmotor/core"
	"dcmotor/protocol"
)

var maskAny = errors.WithStack

// Status is a snapshot of what the monitor has seen
type Status struct {
	Profile      *protocol.ProfileInfo
	Last         *core.Sample
	Samples      uint64
	Stalled      bool
	DecodeErrors uint64
}

// Monitor consumes telemetry frames. Safe for concurrent use.
type Monitor struct {
	log     zerolog.Logger
	metrics *metrics

	mu           sync.Mutex
	profile      *protocol.ProfileInfo
	last         *core.Sample
	samples      uint64
	stalled      bool
	decodeErrors uint64
	stream       protocol.DecoderStats
}

// New creates a monitor registering its metrics on reg
func New(log zerolog.Logger, reg prometheus.Registerer) (*Monitor, error) {
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &Monitor{
		log:     log.With().Str("component", "monitor").Logger(),
		metrics: m,
	}, nil
}

// HandleFrame is a protocol.FrameHandler. Undecodable payloads are logged and
// skipped so one bad frame never stops the stream.
func (m *Monitor) HandleFrame(seq uint8, payload []byte) error {
	msg, err := protocol.DecodeMessage(seq, payload)
	if err != nil {
		m.mu.Lock()
		m.decodeErrors++
		m.mu.Unlock()
		m.log.Warn().Err(err).Uint8("seq", seq).Int("len", len(payload)).Msg("Undecodable telemetry frame")
		return nil
	}
	m.Handle(msg)
	return nil
}

// Handle applies one decoded message
func (m *Monitor) Handle(msg protocol.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case msg.Profile != nil:
		m.handleProfile(*msg.Profile)
	case msg.Sample != nil:
		m.handleSample(*msg.Sample)
	}
}

func (m *Monitor) handleProfile(info protocol.ProfileInfo) {
	m.log.Info().
		Str("profile", info.Name).
		Uint32("tick_rate", info.TickRate).
		Uint32("period", info.Period).
		Uint32("steps", info.Steps).
		Uint32("dwell", info.DwellCount).
		Dur("dwell_delay", info.DwellDelay).
		Str("traversal", info.Traversal.String()).
		Str("policy", info.Policy.String()).
		Msg("Firmware started")

	m.profile = &info
	// Firmware counters restart with the sequence
	m.last = nil
	m.stalled = false
}

func (m *Monitor) handleSample(s core.Sample) {
	mt := m.metrics
	prev := m.last
	if prev == nil {
		prev = &core.Sample{}
	}

	if m.last == nil || prev.Index != s.Index {
		m.log.Info().
			Int("index", s.Index).
			Uint32("duty", s.Duty).
			Uint32("period", s.Period).
			Str("direction", s.Direction.String()).
			Msg("Step")
	}

	stalled := s.Stalled()
	if stalled && !m.stalled {
		m.log.Warn().Int("index", s.Index).Uint32("duty", s.Duty).Msg("Motor stalled")
	} else if !stalled && m.stalled {
		m.log.Info().Uint32("rps", s.RPS).Msg("Motor turning again")
	}
	m.stalled = stalled

	evt := m.log.Debug().
		Uint32("iteration", s.Iteration).
		Uint32("rps", s.RPS).
		Uint32("ticks", s.Ticks)
	if m.profile != nil {
		evt = evt.Dur("edge_period", core.TicksToDuration(s.Ticks, m.profile.TickRate))
	}
	evt.Msg("Sample")

	mt.speed.Set(float64(s.RPS))
	if s.Period > 0 {
		mt.duty.Set(float64(s.Duty) / float64(s.Period))
	}
	mt.step.Set(float64(s.Index))
	mt.ticks.Set(float64(s.Ticks))
	mt.samples.Inc()
	mt.edges.Add(delta(prev.Edges, s.Edges))
	mt.overflows.Add(delta(prev.Overflows, s.Overflows))
	mt.overwrites.Add(delta(prev.Overwrites, s.Overwrites))

	m.samples++
	m.last = &s
}

// UpdateStream folds decoder counters into the metrics
func (m *Monitor) UpdateStream(st protocol.DecoderStats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d := delta64(m.stream.SyncLosses, st.SyncLosses); d > 0 {
		m.log.Warn().Uint64("sync_losses", st.SyncLosses).Msg("Telemetry sync lost")
		m.metrics.syncLosses.Add(d)
	}
	if d := delta64(m.stream.Dropped, st.Dropped); d > 0 {
		m.log.Warn().Float64("frames", d).Msg("Telemetry frames dropped")
		m.metrics.framesDropped.Add(d)
	}
	m.stream = st
}

// Status returns copies of the monitor state
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Status{
		Samples:      m.samples,
		Stalled:      m.stalled,
		DecodeErrors: m.decodeErrors,
	}
	if m.profile != nil {
		p := *m.profile
		st.Profile = &p
	}
	if m.last != nil {
		s := *m.last
		st.Last = &s
	}
	return st
}

package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dcmotor"

type metrics struct {
	speed         prometheus.Gauge
	duty          prometheus.Gauge
	step          prometheus.Gauge
	ticks         prometheus.Gauge
	samples       prometheus.Counter
	edges         prometheus.Counter
	overflows     prometheus.Counter
	overwrites    prometheus.Counter
	framesDropped prometheus.Counter
	syncLosses    prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}

	m := &metrics{
		speed:         gauge("speed_rps", "Measured shaft speed in revolutions per second."),
		duty:          gauge("duty_ratio", "Applied PWM duty as a fraction of the period register."),
		step:          gauge("step_index", "Current index into the duty table."),
		ticks:         gauge("elapsed_ticks", "Capture timer ticks the last speed was computed from."),
		samples:       counter("samples_total", "Telemetry samples received."),
		edges:         counter("edges_total", "Interrupter edges handled by the firmware."),
		overflows:     counter("overflows_total", "Capture timer overflows seen by the firmware."),
		overwrites:    counter("overwrites_total", "Periods overwritten before the foreground read them."),
		framesDropped: counter("frames_dropped_total", "Telemetry frames missing from the sequence."),
		syncLosses:    counter("sync_losses_total", "Times the telemetry decoder lost frame sync."),
	}

	for _, c := range []prometheus.Collector{
		m.speed, m.duty, m.step, m.ticks,
		m.samples, m.edges, m.overflows, m.overwrites,
		m.framesDropped, m.syncLosses,
	} {
		if err := reg.Register(c); err != nil {
			return nil, maskAny(err)
		}
	}
	return m, nil
}

// delta returns how much a firmware counter grew. A smaller value means the
// firmware restarted and counts from zero again.
func delta(prev, cur uint32) float64 {
	if cur < prev {
		return float64(cur)
	}
	return float64(cur - prev)
}

func delta64(prev, cur uint64) float64 {
	if cur < prev {
		return float64(cur)
	}
	return float64(cur - prev)
}

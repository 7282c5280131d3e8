package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	terminate "github.com/pulcy/go-terminate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"dcmotor/core"
	"dcmotor/host/config"
	"dcmotor/host/monitor"
	"dcmotor/host/serial"
	"dcmotor/host/sim"
	"dcmotor/protocol"
)

const (
	projectName = "DC motor monitor"
)

var (
	projectVersion = "dev"
	projectBuild   = "dev"
	maskAny        = errors.WithStack
)

func main() {
	defaults, err := config.LoadMonitor()
	if err != nil {
		Exitf("Invalid environment: %v\n", err)
	}

	var levelFlag string
	var device string
	var baud int
	var listen string
	var simulate bool
	var profileName string
	var speedup float64

	pflag.StringVarP(&levelFlag, "level", "l", defaults.LogLevel, "Set log level")
	pflag.StringVarP(&device, "device", "d", defaults.Device, "Serial device of the motor firmware")
	pflag.IntVar(&baud, "baud", defaults.Baud, "Baud rate (ignored for USB CDC)")
	pflag.StringVar(&listen, "listen", defaults.Listen, "Address the HTTP server will listen on")
	pflag.BoolVar(&simulate, "simulate", false, "Run the firmware loop against a simulated motor instead of a device")
	pflag.StringVar(&profileName, "profile", defaults.Profile, "Simulated profile (four|single) or YAML file")
	pflag.Float64Var(&speedup, "speedup", 1, "Simulated time per wall-clock time, 0 runs unpaced")
	pflag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(levelFlag)
	if err != nil {
		Exitf("Invalid log level '%s': %v\n", levelFlag, err)
	}
	logger = logger.Level(level)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	mon, err := monitor.New(logger, reg)
	if err != nil {
		Exitf("Failed to initialize monitor: %v\n", err)
	}
	httpServer := monitor.NewServer(listen, logger, mon, reg)

	// Prepare to shutdown in a controlled manner
	ctx, cancel := context.WithCancel(context.Background())
	t := terminate.NewTerminator(func(template string, args ...interface{}) {
		logger.Info().Msgf(template, args...)
	}, cancel)
	go t.ListenSignals()

	fmt.Printf("Starting %s (version %s build %s)\n", projectName, projectVersion, projectBuild)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(ctx) })
	if simulate {
		profile, params, err := config.ResolveProfile(profileName)
		if err != nil {
			Exitf("Failed to load profile: %v\n", err)
		}
		runSimulation(ctx, g, logger, mon, profile, params, speedup)
	} else {
		cfg := serial.DefaultConfig(device)
		cfg.Baud = baud
		g.Go(func() error {
			return runDevice(ctx, logger, mon, *cfg)
		})
	}
	if err := g.Wait(); err != nil && errors.Cause(err) != context.Canceled {
		Exitf("Monitor run failed: %#v\n", err)
	}
}

// streamDecoder feeds decoded frames and stream statistics into mon
func streamDecoder(mon *monitor.Monitor) *protocol.Decoder {
	var dec *protocol.Decoder
	dec = protocol.NewDecoder(func(seq uint8, payload []byte) error {
		err := mon.HandleFrame(seq, payload)
		mon.UpdateStream(dec.Stats())
		return err
	})
	return dec
}

// runDevice reads telemetry from a serial port until ctx is canceled
func runDevice(ctx context.Context, log zerolog.Logger, mon *monitor.Monitor, cfg serial.Config) error {
	port, err := serial.Open(&cfg)
	if err != nil {
		return maskAny(err)
	}
	defer port.Close()

	log.Info().Str("device", cfg.Device).Int("baud", cfg.Baud).Msg("Reading telemetry")
	dec := streamDecoder(mon)
	err = dec.Run(ctx, port)
	mon.UpdateStream(dec.Stats())
	if err == nil {
		return errors.Errorf("device %s closed", cfg.Device)
	}
	return maskAny(err)
}

// simReporter sends frames and traces the simulated display
type simReporter struct {
	*protocol.Reporter
	display *sim.Display
	log     zerolog.Logger
}

func (r *simReporter) Report(s core.Sample) {
	r.Reporter.Report(s)
	if r.display != nil {
		r.log.Debug().
			Str("row0", r.display.Line(0)).
			Str("row1", r.display.Line(1)).
			Int("writes", r.display.Writes()).
			Msg("LCD")
	}
}

// runSimulation runs the firmware loop in process. Frames go through the
// same encoder and decoder as a real device.
func runSimulation(ctx context.Context, g *errgroup.Group, log zerolog.Logger, mon *monitor.Monitor, profile core.Profile, params sim.MotorParams, speedup float64) {
	pr, pw := io.Pipe()
	rep := &simReporter{
		Reporter: protocol.NewReporter(protocol.NewEncoder(pw)),
		log:      log.With().Str("component", "sim").Logger(),
	}
	rig, err := sim.NewRig(profile, params, speedup, rep)
	if err != nil {
		Exitf("Failed to build simulator: %v\n", err)
	}
	rep.display = rig.Display

	rep.log.Info().
		Str("profile", profile.Name).
		Float64("max_rps", params.MaxRPS).
		Dur("tau", params.Tau).
		Float64("speedup", speedup).
		Msg("Simulating")

	g.Go(func() error {
		defer pw.Close()
		err := rig.Run(ctx)
		if n, last := rep.Errors(); n > 0 {
			// Frames written after the decoder shut down land here
			rep.log.Warn().Uint32("count", n).AnErr("last", last).Msg("Telemetry frames not sent")
		}
		return err
	})
	g.Go(func() error {
		dec := streamDecoder(mon)
		err := dec.Run(ctx, pr)
		// Unblock the simulator if it is mid-write
		pr.CloseWithError(io.ErrClosedPipe)
		return err
	})
}

// Print the given error message and exit with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}

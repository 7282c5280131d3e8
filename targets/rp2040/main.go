//go:build rp2040 || rp2350

package main

import (
	"log/slog"
	"machine"
	"time"

	"dcmotor/core"
)

// Board wiring
const (
	motorPWMPin    = machine.GP15
	interrupterPin = machine.GP14
	lcdSDA         = machine.GP4
	lcdSCL         = machine.GP5
	lcdAddress     = 0x27

	pwmFrequencyHz = 1000
)

var logger *slog.Logger

func main() {
	// CRITICAL: Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	// Debug log on UART0; USB CDC carries telemetry
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	logger = slog.New(slog.NewTextHandler(uart, &slog.HandlerOptions{
		Level: logLevel,
	}))
	// Core trace lines are gated by SetDebugEnabled; event dumps always print
	core.SetDebugWriter(func(s string) {
		logger.Info(s, slog.String("src", "core"))
	})
	core.SetDebugEnabled(coreDebug)

	profile := selectedProfile()
	if err := bringUp(profile); err != nil {
		printErrForever(err)
	}

	// Every peripheral is registered; this never returns
	runSequencer(profile)
}

// bringUp configures the peripherals and registers them with core
func bringUp(p core.Profile) error {
	start := time.Now()
	if err := p.Validate(); err != nil {
		return err
	}
	rate, _ := p.TickRate()

	if err := machine.I2C0.Configure(machine.I2CConfig{
		SDA: lcdSDA,
		SCL: lcdSCL,
	}); err != nil {
		return err
	}
	core.SetDisplaySink(newLCD(machine.I2C0, lcdAddress))

	pwm, err := newMotorPWM(motorPWMPin, pwmFrequencyHz, p.Period)
	if err != nil {
		return err
	}
	core.SetPWMDriver(pwm)
	logger.Debug("bringup:pwm",
		slog.Uint64("top", uint64(pwm.pwm.Top())),
		slog.Uint64("channel", uint64(pwm.channel)))

	capture, err := newGPIOCapture(interrupterPin, rate, p.CaptureBits)
	if err != nil {
		return err
	}
	core.SetCaptureDriver(capture)
	logger.Debug("bringup:capture",
		slog.Uint64("us_per_tick", capture.usPerTick),
		slog.Uint64("max_count", capture.mask))

	logger.Info("bringup:done",
		slog.String("profile", p.Name),
		slog.Uint64("tick_rate", uint64(rate)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func runSequencer(p core.Profile) {
	rate, _ := p.TickRate()
	cell := &core.ElapsedTicks{}

	reader := core.NewCaptureReader(core.MustCapture(), cell)
	if err := reader.Attach(); err != nil {
		printErrForever(err)
	}
	est, err := core.NewSpeedEstimator(rate, p.Policy, cell)
	if err != nil {
		printErrForever(err)
	}
	seq, err := core.NewSequencer(p, core.Deps{
		PWM:       core.MustPWM(),
		Estimator: est,
		Display:   core.MustDisplay(),
		Sleeper:   core.SystemSleeper{},
		Reporter:  newTelemetry(),
		Capture:   reader,
	})
	if err != nil {
		printErrForever(err)
	}
	seq.Run()
}

// printErrForever logs a fatal bring-up error and the event ring once a second
func printErrForever(err error) {
	for {
		logger.Error("fatal", slog.String("err", err.Error()))
		core.DumpEvents()
		time.Sleep(time.Second)
	}
}

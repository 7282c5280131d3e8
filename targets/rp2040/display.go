//go:build rp2040 || rp2350

package main

import (
	"machine"

	"tinygo.org/x/drivers/hd44780i2c"

	"dcmotor/core"
)

// lcdSink is a 16x2 HD44780 behind a PCF8574 I2C backpack
type lcdSink struct {
	dev hd44780i2c.Device
}

func newLCD(bus *machine.I2C, addr uint8) *lcdSink {
	dev := hd44780i2c.New(bus, addr)
	dev.Configure(hd44780i2c.Config{
		Width:  16,
		Height: 2,
	})
	dev.ClearDisplay()
	return &lcdSink{dev: dev}
}

// PositionCursor implements core.DisplaySink
func (l *lcdSink) PositionCursor(column, row uint8) {
	l.dev.SetCursor(column, row)
}

// WriteText implements core.DisplaySink
func (l *lcdSink) WriteText(s string) {
	l.dev.Print([]byte(s))
}

// WriteNumber implements core.DisplaySink. The padding erases digits left
// over from a longer previous value.
func (l *lcdSink) WriteNumber(n int) {
	l.dev.Print([]byte(core.PadNumber(n, core.NumberWidth)))
}

//go:build rp2350

package main

// TIMER0
const timerBase = 0x400b0000

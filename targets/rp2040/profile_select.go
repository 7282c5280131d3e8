//go:build (rp2040 || rp2350) && !single_interrupter

package main

import "dcmotor/core"

// selectedProfile picks the firmware variant at compile time.
// Build with -tags single_interrupter for the three-level variant.
func selectedProfile() core.Profile {
	return core.FourInterrupterProfile()
}

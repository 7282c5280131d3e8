//go:build (rp2040 || rp2350) && single_interrupter

package main

import "dcmotor/core"

func selectedProfile() core.Profile {
	return core.SingleInterrupterProfile()
}

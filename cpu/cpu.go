// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu describes the instruction sets of the 6502 and 65c02 CPUs and
// the machine state a single-stepping monitor inspects.
package cpu

// Architecture selects the CPU chip: 6502 or 65c02
type Architecture byte

const (
	// NMOS 6502 CPU
	NMOS Architecture = iota

	// CMOS 65c02 CPU
	CMOS
)

// String returns the variant tag instruction tables use for the
// architecture.
func (a Architecture) String() string {
	if a == CMOS {
		return "65C02"
	}
	return "6502"
}

// Interrupt vectors
const (
	VectorNMI   = 0xfffa
	VectorReset = 0xfffc
	VectorIRQ   = 0xfffe
	VectorBRK   = 0xfffe
)

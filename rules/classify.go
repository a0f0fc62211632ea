// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"fmt"
	"strings"

	"github.com/beevik/steprules/inst"
)

// ForMode returns the single-stepping rule for an addressing mode.
func ForMode(m inst.Mode) Rule {
	switch m {
	case inst.ILL:
		return Illegal
	case inst.IMP:
		return OneByte
	case inst.IMM, inst.ZPG, inst.ZPX, inst.ZPY, inst.IDX, inst.IDY, inst.IZP, inst.BZP:
		return TwoBytes
	case inst.ABS, inst.ABX, inst.ABY:
		return ThreeBytes
	case inst.REL:
		return Branch
	case inst.IND:
		return JumpIndirect
	case inst.JSR:
		return Call
	case inst.JMP:
		return Jump
	case inst.RTS:
		return Return
	case inst.RTI:
		return ReturnInterrupt
	case inst.IAX:
		return JumpIndexedIndirect
	case inst.BZR:
		return BitBranch
	case inst.BRK:
		return Break
	}
	panic(fmt.Sprintf("rules: no rule for addressing mode %d", m))
}

// Classify returns the single-stepping rule for a record. An empty
// addressing-mode token is implied addressing. JSR and JMP written with the
// generic absolute forms are classified as the control transfers they are.
func Classify(r *inst.Record) (Rule, error) {
	if r.Mode == "" {
		return OneByte, nil
	}

	m, err := inst.ParseMode(r.Mode)
	if err != nil {
		return 0, err
	}

	switch strings.ToUpper(r.Mnemonic) {
	case "JSR":
		if m == inst.ABS {
			m = inst.JSR
		}
	case "JMP":
		switch m {
		case inst.ABS:
			m = inst.JMP
		case inst.ABX:
			m = inst.IAX
		}
	}

	return ForMode(m), nil
}

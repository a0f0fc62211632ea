// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inst

import "strings"

// Mode describes an addressing mode as named by an instruction table.
type Mode byte

// All addressing modes an instruction table may name.
const (
	ILL Mode = iota // Illegal opcode
	IMP             // Implied (no operand)
	IMM             // Immediate
	ABS             // Absolute
	ABX             // Absolute,X
	ABY             // Absolute,Y
	IDX             // (Indirect,X)
	IDY             // (Indirect),Y
	ZPG             // Zero Page
	ZPX             // Zero Page,X
	ZPY             // Zero Page,Y
	REL             // Relative
	IND             // (Indirect)
	JSR             // Subroutine call
	JMP             // Absolute jump
	RTS             // Return from subroutine
	RTI             // Return from interrupt
	IZP             // (Zero Page)
	IAX             // (Absolute,X)
	BZP             // Bit test zero page
	BZR             // Bit test zero page and relative branch
	BRK             // Software break

	numModes
)

var modeTokens = [numModes]string{
	ILL: "ill",
	IMP: "imp",
	IMM: "imm",
	ABS: "abs",
	ABX: "abs_X",
	ABY: "abs_Y",
	IDX: "X_ind",
	IDY: "ind_Y",
	ZPG: "zpg",
	ZPX: "zpg_X",
	ZPY: "zpg_Y",
	REL: "rel",
	IND: "ind",
	JSR: "jsr",
	JMP: "jmp",
	RTS: "rts",
	RTI: "rti",
	IZP: "ind_zpg",
	IAX: "ind_abs_X",
	BZP: "bit_zpg",
	BZR: "bit_rel",
	BRK: "brk",
}

var tokenModes = make(map[string]Mode, numModes)

func init() {
	for m, tok := range modeTokens {
		tokenModes[tok] = Mode(m)
	}
}

// String returns the normalized token naming the mode.
func (m Mode) String() string {
	if m < numModes {
		return modeTokens[m]
	}
	return "?"
}

// Modes returns every addressing mode.
func Modes() []Mode {
	modes := make([]Mode, numModes)
	for i := range modes {
		modes[i] = Mode(i)
	}
	return modes
}

// NormalizeMode rewrites an addressing-mode token into the form used to
// name modes. Commas become underscores, '#' stands for "imm", and the
// accumulator forms "A" and "acc" are treated as implied.
func NormalizeMode(token string) string {
	token = strings.TrimSpace(token)
	token = strings.ReplaceAll(token, ",", "_")
	token = strings.ReplaceAll(token, "#", "imm")
	switch token {
	case "A", "acc":
		return "imp"
	}
	return token
}

// ParseMode converts an addressing-mode token into a Mode. An empty token
// denotes implied addressing.
func ParseMode(token string) (Mode, error) {
	if strings.TrimSpace(token) == "" {
		return IMP, nil
	}
	if m, ok := tokenModes[NormalizeMode(token)]; ok {
		return m, nil
	}
	return ILL, &UnknownAddressingModeError{Token: token}
}

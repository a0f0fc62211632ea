// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rules derives single-stepping rules from an instruction table.
//
// A single-stepping rule is a 4-bit code telling a monitor how to advance
// past the instruction at the program counter. Rules for all 256 opcodes are
// packed two per byte, producing a 128-byte table for each CPU variant.
package rules

import "fmt"

// A Rule is a 4-bit single-stepping code. Rules up to ThreeBytes give the
// length of instructions needing no special handling.
type Rule byte

// Single-stepping rules. The values are shared with the monitor consuming
// the generated table and must not change.
const (
	OneByte             Rule = 0x1 // implied, 1-byte instruction
	TwoBytes            Rule = 0x2 // 2-byte instruction
	ThreeBytes          Rule = 0x3 // 3-byte instruction
	Illegal             Rule = 0x4 // undefined opcode
	Branch              Rule = 0x5 // relative branch
	JumpIndirect        Rule = 0x6 // JMP (abs)
	Call                Rule = 0x7 // JSR abs
	Jump                Rule = 0x8 // JMP abs
	Return              Rule = 0x9 // RTS
	ReturnInterrupt     Rule = 0xA // RTI
	JumpIndexedIndirect Rule = 0xB // JMP (abs,X)
	BitBranch           Rule = 0xC // BBR/BBS zp,rel
	Break               Rule = 0xD // BRK
)

var ruleNames = []string{
	OneByte:             "1 byte",
	TwoBytes:            "2 bytes",
	ThreeBytes:          "3 bytes",
	Illegal:             "illegal",
	Branch:              "branch",
	JumpIndirect:        "indirect jump",
	Call:                "call",
	Jump:                "jump",
	Return:              "return",
	ReturnInterrupt:     "return from interrupt",
	JumpIndexedIndirect: "indexed indirect jump",
	BitBranch:           "bit test and branch",
	Break:               "break",
}

func (r Rule) String() string {
	if int(r) < len(ruleNames) && ruleNames[r] != "" {
		return ruleNames[r]
	}
	return fmt.Sprintf("Rule(%d)", byte(r))
}

// Valid returns true if r is one of the defined rules.
func (r Rule) Valid() bool {
	return r >= OneByte && r <= Break
}

// Length returns the size in bytes of an instruction following the rule,
// including its opcode. Illegal opcodes have no length.
func (r Rule) Length() int {
	switch r {
	case OneByte, Return, ReturnInterrupt, Break:
		return 1
	case TwoBytes, Branch:
		return 2
	case ThreeBytes, JumpIndirect, Call, Jump, JumpIndexedIndirect, BitBranch:
		return 3
	default:
		return 0
	}
}

// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"fmt"

	"github.com/beevik/steprules/inst"
)

// PackedSize is the size in bytes of a packed rule table.
const PackedSize = 128

// A Table holds the single-stepping rules of every opcode for one CPU
// variant.
type Table struct {
	Extended bool      // rules for the 65C02 rather than the NMOS 6502
	Rules    [256]Rule // rule for each opcode
}

// Generate computes the rule of every opcode. When extended is false, opcodes
// introduced by a variant other than the baseline are illegal.
//
// A record with an unknown addressing mode fails the whole table.
func Generate(t *inst.OpcodeTable, extended bool) (*Table, error) {
	tbl := &Table{Extended: extended}
	for i := range tbl.Rules {
		opcode := byte(i)
		r := t.Lookup(opcode)
		switch {
		case r == nil:
			tbl.Rules[i] = Illegal
		case !extended && !r.Variant.IsBaseline():
			tbl.Rules[i] = Illegal
		default:
			rule, err := Classify(r)
			if err != nil {
				return nil, fmt.Errorf("opcode $%02X (%s, line %d): %w", opcode, r.Mnemonic, r.Line, err)
			}
			tbl.Rules[i] = rule
		}
	}
	return tbl, nil
}

// Rule returns the rule for an opcode.
func (t *Table) Rule(opcode byte) Rule {
	return t.Rules[opcode]
}

// Packed returns the table packed two rules per byte.
func (t *Table) Packed() [PackedSize]byte {
	return Pack(&t.Rules)
}

// Pack stores the rules of each pair of opcodes in a single byte. The rule
// of the even opcode occupies the low nibble and the rule of the odd opcode
// the high nibble.
func Pack(rules *[256]Rule) [PackedSize]byte {
	var packed [PackedSize]byte
	for i := range packed {
		packed[i] = byte(rules[2*i]&0x0f) | byte(rules[2*i+1]&0x0f)<<4
	}
	return packed
}

// Unpack expands a packed table into the rule of each opcode.
func Unpack(packed *[PackedSize]byte) [256]Rule {
	var rules [256]Rule
	for i, b := range packed {
		rules[2*i] = Rule(b & 0x0f)
		rules[2*i+1] = Rule(b >> 4)
	}
	return rules
}

// Lookup returns the rule for an opcode from a packed table.
func Lookup(packed *[PackedSize]byte, opcode byte) Rule {
	b := packed[opcode>>1]
	if opcode&1 == 0 {
		return Rule(b & 0x0f)
	}
	return Rule(b >> 4)
}

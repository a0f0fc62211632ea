// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package monitor single-steps 6502 code using a packed table of
// single-stepping rules.
//
// A monitor running on the target CPU cannot trace instructions in hardware.
// Instead it decodes the instruction at the program counter, places
// temporary breakpoints on every address execution can reach next, and
// resumes the program. The packed rule table tells it how to decode each
// opcode.
package monitor

import (
	"errors"
	"fmt"

	"github.com/beevik/steprules/cpu"
	"github.com/beevik/steprules/rules"
)

// Errors
var (
	ErrIllegalOpcode = errors.New("illegal opcode")
	ErrTableSize     = errors.New("rule table must be 128 bytes")
)

// A Stepper computes the breakpoints needed to single-step one instruction.
type Stepper struct {
	Arch  cpu.Architecture // selects the indirect jump page-wrap behavior
	table [rules.PackedSize]byte
}

// New creates a stepper from a packed rule table.
func New(packed []byte, arch cpu.Architecture) (*Stepper, error) {
	if len(packed) != rules.PackedSize {
		return nil, ErrTableSize
	}
	s := &Stepper{Arch: arch}
	copy(s.table[:], packed)
	return s, nil
}

// Rule returns the single-stepping rule of an opcode.
func (s *Stepper) Rule(opcode byte) rules.Rule {
	return rules.Lookup(&s.table, opcode)
}

// Next returns the addresses at which execution may continue after the
// instruction at the program counter. A conditional branch yields both the
// fall-through address and the branch target. When over is true,
// subroutine calls and breaks are stepped over rather than into.
func (s *Stepper) Next(mem cpu.Memory, reg *cpu.Registers, over bool) ([]uint16, error) {
	pc := reg.PC
	opcode := mem.LoadByte(pc)
	rule := s.Rule(opcode)

	switch rule {
	case rules.OneByte, rules.TwoBytes, rules.ThreeBytes:
		return []uint16{pc + uint16(rule.Length())}, nil

	case rules.Illegal:
		return nil, fmt.Errorf("%w $%02X at $%04X", ErrIllegalOpcode, opcode, pc)

	case rules.Branch:
		next := pc + 2
		return targets(next, branchTarget(next, mem.LoadByte(pc+1))), nil

	case rules.JumpIndirect:
		return []uint16{cpu.LoadAddress(mem, operand(mem, pc), s.Arch)}, nil

	case rules.Call:
		if over {
			return []uint16{pc + 3}, nil
		}
		return []uint16{operand(mem, pc)}, nil

	case rules.Jump:
		return []uint16{operand(mem, pc)}, nil

	case rules.Return:
		lo := mem.LoadByte(cpu.StackAddress(reg.SP + 1))
		hi := mem.LoadByte(cpu.StackAddress(reg.SP + 2))
		return []uint16{(uint16(lo) | uint16(hi)<<8) + 1}, nil

	case rules.ReturnInterrupt:
		lo := mem.LoadByte(cpu.StackAddress(reg.SP + 2))
		hi := mem.LoadByte(cpu.StackAddress(reg.SP + 3))
		return []uint16{uint16(lo) | uint16(hi)<<8}, nil

	case rules.JumpIndexedIndirect:
		addr := operand(mem, pc) + uint16(reg.X)
		return []uint16{cpu.LoadAddress(mem, addr, cpu.CMOS)}, nil

	case rules.BitBranch:
		next := pc + 3
		return targets(next, branchTarget(next, mem.LoadByte(pc+2))), nil

	case rules.Break:
		if over {
			return []uint16{pc + 2}, nil
		}
		return []uint16{cpu.LoadAddress(mem, cpu.VectorBRK, cpu.CMOS)}, nil
	}

	return nil, fmt.Errorf("monitor: invalid rule %d for opcode $%02X", byte(rule), opcode)
}

// Length returns the size of the instruction at addr, or zero if its
// opcode is illegal.
func (s *Stepper) Length(mem cpu.Memory, addr uint16) int {
	return s.Rule(mem.LoadByte(addr)).Length()
}

// Load the 16-bit operand following the opcode at pc.
func operand(mem cpu.Memory, pc uint16) uint16 {
	return uint16(mem.LoadByte(pc+1)) | uint16(mem.LoadByte(pc+2))<<8
}

func branchTarget(next uint16, offset byte) uint16 {
	return next + uint16(int16(int8(offset)))
}

func targets(next, target uint16) []uint16 {
	if next == target {
		return []uint16{next}
	}
	return []uint16{next, target}
}

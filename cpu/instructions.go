// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (no operand)
	REL             // Relative
	ZPG             // Zero Page
	ZPX             // Zero Page,X
	ZPY             // Zero Page,Y
	ABS             // Absolute
	ABX             // Absolute,X
	ABY             // Absolute,Y
	IND             // (Indirect)
	IDX             // (Indirect,X)
	IDY             // (Indirect),Y
	ACC             // Accumulator (no operand)
	IAX             // (Absolute,X)
	ZPR             // Zero Page,Relative
)

// Opcode data for an (instruction, mode) pair
type opcodeData struct {
	name   string // instruction name
	mode   Mode   // addressing mode
	opcode byte   // opcode hex value
	length byte   // length of opcode + operand in bytes
	cmos   bool   // whether the opcode/mode pair is valid only on 65C02
}

// All valid (opcode, mode) pairs
var data = []opcodeData{
	{"LDA", IMM, 0xa9, 2, false},
	{"LDA", ZPG, 0xa5, 2, false},
	{"LDA", ZPX, 0xb5, 2, false},
	{"LDA", ABS, 0xad, 3, false},
	{"LDA", ABX, 0xbd, 3, false},
	{"LDA", ABY, 0xb9, 3, false},
	{"LDA", IDX, 0xa1, 2, false},
	{"LDA", IDY, 0xb1, 2, false},
	{"LDA", IND, 0xb2, 2, true},

	{"LDX", IMM, 0xa2, 2, false},
	{"LDX", ZPG, 0xa6, 2, false},
	{"LDX", ZPY, 0xb6, 2, false},
	{"LDX", ABS, 0xae, 3, false},
	{"LDX", ABY, 0xbe, 3, false},

	{"LDY", IMM, 0xa0, 2, false},
	{"LDY", ZPG, 0xa4, 2, false},
	{"LDY", ZPX, 0xb4, 2, false},
	{"LDY", ABS, 0xac, 3, false},
	{"LDY", ABX, 0xbc, 3, false},

	{"STA", ZPG, 0x85, 2, false},
	{"STA", ZPX, 0x95, 2, false},
	{"STA", ABS, 0x8d, 3, false},
	{"STA", ABX, 0x9d, 3, false},
	{"STA", ABY, 0x99, 3, false},
	{"STA", IDX, 0x81, 2, false},
	{"STA", IDY, 0x91, 2, false},
	{"STA", IND, 0x92, 2, true},

	{"STX", ZPG, 0x86, 2, false},
	{"STX", ZPY, 0x96, 2, false},
	{"STX", ABS, 0x8e, 3, false},

	{"STY", ZPG, 0x84, 2, false},
	{"STY", ZPX, 0x94, 2, false},
	{"STY", ABS, 0x8c, 3, false},

	{"STZ", ZPG, 0x64, 2, true},
	{"STZ", ZPX, 0x74, 2, true},
	{"STZ", ABS, 0x9c, 3, true},
	{"STZ", ABX, 0x9e, 3, true},

	{"ADC", IMM, 0x69, 2, false},
	{"ADC", ZPG, 0x65, 2, false},
	{"ADC", ZPX, 0x75, 2, false},
	{"ADC", ABS, 0x6d, 3, false},
	{"ADC", ABX, 0x7d, 3, false},
	{"ADC", ABY, 0x79, 3, false},
	{"ADC", IDX, 0x61, 2, false},
	{"ADC", IDY, 0x71, 2, false},
	{"ADC", IND, 0x72, 2, true},

	{"SBC", IMM, 0xe9, 2, false},
	{"SBC", ZPG, 0xe5, 2, false},
	{"SBC", ZPX, 0xf5, 2, false},
	{"SBC", ABS, 0xed, 3, false},
	{"SBC", ABX, 0xfd, 3, false},
	{"SBC", ABY, 0xf9, 3, false},
	{"SBC", IDX, 0xe1, 2, false},
	{"SBC", IDY, 0xf1, 2, false},
	{"SBC", IND, 0xf2, 2, true},

	{"CMP", IMM, 0xc9, 2, false},
	{"CMP", ZPG, 0xc5, 2, false},
	{"CMP", ZPX, 0xd5, 2, false},
	{"CMP", ABS, 0xcd, 3, false},
	{"CMP", ABX, 0xdd, 3, false},
	{"CMP", ABY, 0xd9, 3, false},
	{"CMP", IDX, 0xc1, 2, false},
	{"CMP", IDY, 0xd1, 2, false},
	{"CMP", IND, 0xd2, 2, true},

	{"CPX", IMM, 0xe0, 2, false},
	{"CPX", ZPG, 0xe4, 2, false},
	{"CPX", ABS, 0xec, 3, false},

	{"CPY", IMM, 0xc0, 2, false},
	{"CPY", ZPG, 0xc4, 2, false},
	{"CPY", ABS, 0xcc, 3, false},

	{"BIT", IMM, 0x89, 2, true},
	{"BIT", ZPG, 0x24, 2, false},
	{"BIT", ZPX, 0x34, 2, true},
	{"BIT", ABS, 0x2c, 3, false},
	{"BIT", ABX, 0x3c, 3, true},

	{"CLC", IMP, 0x18, 1, false},
	{"SEC", IMP, 0x38, 1, false},
	{"CLI", IMP, 0x58, 1, false},
	{"SEI", IMP, 0x78, 1, false},
	{"CLD", IMP, 0xd8, 1, false},
	{"SED", IMP, 0xf8, 1, false},
	{"CLV", IMP, 0xb8, 1, false},

	{"BCC", REL, 0x90, 2, false},
	{"BCS", REL, 0xb0, 2, false},
	{"BEQ", REL, 0xf0, 2, false},
	{"BNE", REL, 0xd0, 2, false},
	{"BMI", REL, 0x30, 2, false},
	{"BPL", REL, 0x10, 2, false},
	{"BVC", REL, 0x50, 2, false},
	{"BVS", REL, 0x70, 2, false},
	{"BRA", REL, 0x80, 2, true},

	{"BRK", IMP, 0x00, 1, false},
	{"STP", IMP, 0xdb, 1, true},
	{"WAI", IMP, 0xcb, 1, true},

	{"AND", IMM, 0x29, 2, false},
	{"AND", ZPG, 0x25, 2, false},
	{"AND", ZPX, 0x35, 2, false},
	{"AND", ABS, 0x2d, 3, false},
	{"AND", ABX, 0x3d, 3, false},
	{"AND", ABY, 0x39, 3, false},
	{"AND", IDX, 0x21, 2, false},
	{"AND", IDY, 0x31, 2, false},
	{"AND", IND, 0x32, 2, true},

	{"ORA", IMM, 0x09, 2, false},
	{"ORA", ZPG, 0x05, 2, false},
	{"ORA", ZPX, 0x15, 2, false},
	{"ORA", ABS, 0x0d, 3, false},
	{"ORA", ABX, 0x1d, 3, false},
	{"ORA", ABY, 0x19, 3, false},
	{"ORA", IDX, 0x01, 2, false},
	{"ORA", IDY, 0x11, 2, false},
	{"ORA", IND, 0x12, 2, true},

	{"EOR", IMM, 0x49, 2, false},
	{"EOR", ZPG, 0x45, 2, false},
	{"EOR", ZPX, 0x55, 2, false},
	{"EOR", ABS, 0x4d, 3, false},
	{"EOR", ABX, 0x5d, 3, false},
	{"EOR", ABY, 0x59, 3, false},
	{"EOR", IDX, 0x41, 2, false},
	{"EOR", IDY, 0x51, 2, false},
	{"EOR", IND, 0x52, 2, true},

	{"INC", ZPG, 0xe6, 2, false},
	{"INC", ZPX, 0xf6, 2, false},
	{"INC", ABS, 0xee, 3, false},
	{"INC", ABX, 0xfe, 3, false},
	{"INC", ACC, 0x1a, 1, true},

	{"DEC", ZPG, 0xc6, 2, false},
	{"DEC", ZPX, 0xd6, 2, false},
	{"DEC", ABS, 0xce, 3, false},
	{"DEC", ABX, 0xde, 3, false},
	{"DEC", ACC, 0x3a, 1, true},

	{"INX", IMP, 0xe8, 1, false},
	{"INY", IMP, 0xc8, 1, false},

	{"DEX", IMP, 0xca, 1, false},
	{"DEY", IMP, 0x88, 1, false},

	{"JMP", ABS, 0x4c, 3, false},
	{"JMP", IAX, 0x7c, 3, true},
	{"JMP", IND, 0x6c, 3, false},

	{"JSR", ABS, 0x20, 3, false},
	{"RTS", IMP, 0x60, 1, false},

	{"RTI", IMP, 0x40, 1, false},

	{"NOP", IMP, 0xea, 1, false},

	{"TAX", IMP, 0xaa, 1, false},
	{"TXA", IMP, 0x8a, 1, false},
	{"TAY", IMP, 0xa8, 1, false},
	{"TYA", IMP, 0x98, 1, false},
	{"TXS", IMP, 0x9a, 1, false},
	{"TSX", IMP, 0xba, 1, false},

	{"TRB", ZPG, 0x14, 2, true},
	{"TRB", ABS, 0x1c, 3, true},
	{"TSB", ZPG, 0x04, 2, true},
	{"TSB", ABS, 0x0c, 3, true},

	{"PHA", IMP, 0x48, 1, false},
	{"PLA", IMP, 0x68, 1, false},
	{"PHP", IMP, 0x08, 1, false},
	{"PLP", IMP, 0x28, 1, false},
	{"PHX", IMP, 0xda, 1, true},
	{"PLX", IMP, 0xfa, 1, true},
	{"PHY", IMP, 0x5a, 1, true},
	{"PLY", IMP, 0x7a, 1, true},

	{"ASL", ACC, 0x0a, 1, false},
	{"ASL", ZPG, 0x06, 2, false},
	{"ASL", ZPX, 0x16, 2, false},
	{"ASL", ABS, 0x0e, 3, false},
	{"ASL", ABX, 0x1e, 3, false},

	{"LSR", ACC, 0x4a, 1, false},
	{"LSR", ZPG, 0x46, 2, false},
	{"LSR", ZPX, 0x56, 2, false},
	{"LSR", ABS, 0x4e, 3, false},
	{"LSR", ABX, 0x5e, 3, false},

	{"ROL", ACC, 0x2a, 1, false},
	{"ROL", ZPG, 0x26, 2, false},
	{"ROL", ZPX, 0x36, 2, false},
	{"ROL", ABS, 0x2e, 3, false},
	{"ROL", ABX, 0x3e, 3, false},

	{"ROR", ACC, 0x6a, 1, false},
	{"ROR", ZPG, 0x66, 2, false},
	{"ROR", ZPX, 0x76, 2, false},
	{"ROR", ABS, 0x6e, 3, false},
	{"ROR", ABX, 0x7e, 3, false},
}

// The Rockwell/WDC bit instructions come in eight forms each, one per bit
// number, encoded in the high nibble of the opcode.
func bitData() []opcodeData {
	var d []opcodeData
	for bit := byte(0); bit < 8; bit++ {
		d = append(d,
			opcodeData{fmt.Sprintf("RMB%d", bit), ZPG, 0x07 + bit<<4, 2, true},
			opcodeData{fmt.Sprintf("SMB%d", bit), ZPG, 0x87 + bit<<4, 2, true},
			opcodeData{fmt.Sprintf("BBR%d", bit), ZPR, 0x0f + bit<<4, 3, true},
			opcodeData{fmt.Sprintf("BBS%d", bit), ZPR, 0x8f + bit<<4, 3, true},
		)
	}
	return d
}

// An Instruction describes a CPU instruction, including its name,
// its addressing mode, its opcode value and its operand size.
type Instruction struct {
	Name   string // all-caps name of the instruction
	Mode   Mode   // addressing mode
	Opcode byte   // hexadecimal opcode value
	Length byte   // combined size of opcode and operand, in bytes
	CMOS   bool   // instruction exists only on the 65c02
}

// SourceMode returns the addressing-mode token an instruction table uses for
// the instruction.
func (inst *Instruction) SourceMode() string {
	switch inst.Mode {
	case IMP:
		switch inst.Name {
		case "BRK":
			return "brk"
		case "RTS":
			return "rts"
		case "RTI":
			return "rti"
		}
		return ""
	case ACC:
		return "A"
	case IMM:
		return "#"
	case REL:
		return "rel"
	case ZPG:
		if strings.HasPrefix(inst.Name, "RMB") || strings.HasPrefix(inst.Name, "SMB") {
			return "bit_zpg"
		}
		return "zpg"
	case ZPX:
		return "zpg,X"
	case ZPY:
		return "zpg,Y"
	case ABS:
		switch inst.Name {
		case "JSR":
			return "jsr"
		case "JMP":
			return "jmp"
		}
		return "abs"
	case ABX:
		return "abs,X"
	case ABY:
		return "abs,Y"
	case IND:
		if inst.Length == 2 {
			return "ind_zpg"
		}
		return "ind"
	case IDX:
		return "X,ind"
	case IDY:
		return "ind,Y"
	case IAX:
		return "ind_abs,X"
	case ZPR:
		return "bit_rel"
	}
	return "ill"
}

// An InstructionSet defines the set of all possible instructions that
// can run on a CPU architecture.
type InstructionSet struct {
	Arch         Architecture
	instructions [256]*Instruction          // all instructions by opcode
	variants     map[string][]*Instruction // variants of each instruction
}

// Lookup retrieves a CPU instruction corresponding to the requested opcode.
// It returns nil if the opcode is undefined on the architecture.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return s.instructions[opcode]
}

// GetInstructions returns all CPU instructions whose name matches the
// provided string.
func (s *InstructionSet) GetInstructions(name string) []*Instruction {
	return s.variants[strings.ToUpper(name)]
}

// Instructions returns all defined instructions in ascending opcode order.
func (s *InstructionSet) Instructions() []*Instruction {
	var list []*Instruction
	for _, inst := range s.instructions {
		if inst != nil {
			list = append(list, inst)
		}
	}
	return list
}

// Create an instruction set for a CPU architecture.
func newInstructionSet(arch Architecture) *InstructionSet {
	set := &InstructionSet{
		Arch:     arch,
		variants: make(map[string][]*Instruction),
	}

	for _, d := range append(data, bitData()...) {
		if d.cmos && arch != CMOS {
			continue
		}
		if set.instructions[d.opcode] != nil {
			panic("duplicate opcode")
		}

		inst := &Instruction{
			Name:   d.name,
			Mode:   d.mode,
			Opcode: d.opcode,
			Length: d.length,
			CMOS:   d.cmos,
		}
		set.instructions[d.opcode] = inst
		set.variants[inst.Name] = append(set.variants[inst.Name], inst)
	}
	return set
}

var instructionSets [2]*InstructionSet

// GetInstructionSet returns an instruction set for the requested CPU
// architecture.
func GetInstructionSet(arch Architecture) *InstructionSet {
	if instructionSets[arch] == nil {
		// Lazy-create the instruction set.
		instructionSets[arch] = newInstructionSet(arch)
	}
	return instructionSets[arch]
}

// WriteSourceTable writes an instruction table describing every opcode of
// the 65c02, one record per line. Opcodes missing from the NMOS 6502 carry
// the 65C02 variant tag.
func WriteSourceTable(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, inst := range GetInstructionSet(CMOS).Instructions() {
		fmt.Fprintf(bw, "%02X;%s;%s", inst.Opcode, inst.Name, inst.SourceMode())
		if inst.CMOS {
			fmt.Fprintf(bw, ";%s", CMOS)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

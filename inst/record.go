// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inst reads instruction tables describing the opcodes of the 6502
// family of CPUs.
//
// An instruction table is a text file containing one record per line. Each
// record holds a hexadecimal opcode, a mnemonic, an addressing-mode token and
// an optional variant tag, separated by semicolons:
//
//	A9;LDA;#
//	20;JSR;jsr
//	1A;INC;A;65C02
//
// Records without a variant tag belong to the baseline NMOS 6502.
package inst

// A Variant identifies the CPU revision that introduces an opcode.
type Variant string

// Known CPU variants.
const (
	Baseline Variant = "6502"  // NMOS 6502
	Extended Variant = "65C02" // CMOS 65C02
)

// IsBaseline returns true if the variant is the baseline NMOS 6502.
func (v Variant) IsBaseline() bool {
	return v == Baseline
}

// A Record describes a single opcode declared by an instruction table.
type Record struct {
	Opcode        byte    // opcode value
	Mnemonic      string  // instruction name, e.g. "LDA"
	Mode          string  // addressing-mode token as written; empty for implicit
	MnemonicIndex int     // position of the mnemonic's first appearance
	Variant       Variant // CPU variant introducing the opcode
	Line          int     // source line the record was read from
}

// A MnemonicIndex assigns an integer to each distinct mnemonic in the order
// in which the mnemonics are first seen.
type MnemonicIndex struct {
	names []string
	index map[string]int
}

// NewMnemonicIndex creates an empty mnemonic index.
func NewMnemonicIndex() *MnemonicIndex {
	return &MnemonicIndex{index: make(map[string]int)}
}

// Add returns the index of the mnemonic, appending it to the index if it
// hasn't been seen before.
func (m *MnemonicIndex) Add(name string) int {
	if i, ok := m.index[name]; ok {
		return i
	}
	i := len(m.names)
	m.names = append(m.names, name)
	m.index[name] = i
	return i
}

// Index returns the index previously assigned to the mnemonic.
func (m *MnemonicIndex) Index(name string) (int, bool) {
	i, ok := m.index[name]
	return i, ok
}

// Name returns the mnemonic assigned to index i.
func (m *MnemonicIndex) Name(i int) string {
	return m.names[i]
}

// Names returns all mnemonics in index order.
func (m *MnemonicIndex) Names() []string {
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}

// Len returns the number of distinct mnemonics.
func (m *MnemonicIndex) Len() int {
	return len(m.names)
}

// An Overwrite records a table entry replaced by a later record declaring
// the same opcode.
type Overwrite struct {
	Previous *Record
	Current  *Record
}

// An OpcodeTable maps each of the 256 opcode values to the record declaring
// it. Opcodes without a record are undefined on every CPU variant.
type OpcodeTable struct {
	records     [256]*Record
	overwritten []Overwrite
}

// NewOpcodeTable creates an empty opcode table.
func NewOpcodeTable() *OpcodeTable {
	return &OpcodeTable{}
}

// Insert adds a record to the table. A record already occupying the same
// opcode is replaced, and the replacement is remembered.
func (t *OpcodeTable) Insert(r *Record) {
	if prev := t.records[r.Opcode]; prev != nil {
		t.overwritten = append(t.overwritten, Overwrite{Previous: prev, Current: r})
	}
	t.records[r.Opcode] = r
}

// Lookup returns the record declaring the opcode, or nil if the opcode is
// undefined.
func (t *OpcodeTable) Lookup(opcode byte) *Record {
	return t.records[opcode]
}

// Len returns the number of defined opcodes.
func (t *OpcodeTable) Len() int {
	n := 0
	for _, r := range t.records {
		if r != nil {
			n++
		}
	}
	return n
}

// Records returns all defined records in ascending opcode order.
func (t *OpcodeTable) Records() []*Record {
	var records []*Record
	for _, r := range t.records {
		if r != nil {
			records = append(records, r)
		}
	}
	return records
}

// Overwritten returns every record that was replaced by a later declaration
// of the same opcode, in the order the replacements happened.
func (t *OpcodeTable) Overwritten() []Overwrite {
	o := make([]Overwrite, len(t.overwritten))
	copy(o, t.overwritten)
	return o
}

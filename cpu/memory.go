// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// The Memory interface presents the view of memory a monitor needs to
// decode the instruction at the program counter.
type Memory interface {
	// LoadByte loads a single byte from the address and returns it.
	LoadByte(addr uint16) byte
}

// FlatMemory represents an entire 16-bit address space as a singular
// 64K buffer.
type FlatMemory struct {
	b [64 * 1024]byte
}

// NewFlatMemory creates a new 16-bit memory space.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{}
}

// LoadByte loads a single byte from the address and returns it.
func (m *FlatMemory) LoadByte(addr uint16) byte {
	return m.b[addr]
}

// StoreByte stores a byte at the requested address.
func (m *FlatMemory) StoreByte(addr uint16, v byte) {
	m.b[addr] = v
}

// StoreBytes stores multiple bytes to the requested address. Bytes past the
// end of the address space wrap around to address zero.
func (m *FlatMemory) StoreBytes(addr uint16, b []byte) {
	for i, v := range b {
		m.b[addr+uint16(i)] = v
	}
}

// StoreAddress stores a little-endian 16-bit address value to the requested
// address.
func (m *FlatMemory) StoreAddress(addr uint16, v uint16) {
	m.b[addr] = byte(v & 0xff)
	m.b[addr+1] = byte(v >> 8)
}

// LoadAddress loads a 16-bit address value from the requested address as the
// architecture's indirect jump does.
//
// When the address spans 2 pages (i.e., address ends in 0xff), the NMOS
// 6502 reads the high byte from a page-wrapped address. For example,
// LoadAddress on $12FF reads the low byte from $12FF and the high byte from
// $1200. The 65c02 reads the high byte from $1300.
func LoadAddress(m Memory, addr uint16, arch Architecture) uint16 {
	hi := addr + 1
	if arch == NMOS && (addr&0xff) == 0xff {
		hi = addr - 0xff
	}
	return uint16(m.LoadByte(addr)) | uint16(m.LoadByte(hi))<<8
}

// Given a 1-byte stack pointer register, return the stack
// corresponding memory address.
func StackAddress(offset byte) uint16 {
	return uint16(0x100) + uint16(offset)
}

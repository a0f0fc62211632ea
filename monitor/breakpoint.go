// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"sort"

	"github.com/beevik/steprules/cpu"
)

// A Breakpoint represents an address that returns control to the monitor
// when the program counter reaches it.
type Breakpoint struct {
	Address   uint16 // address of execution breakpoint
	Disabled  bool   // this breakpoint is currently disabled
	Temporary bool   // planted to complete a single step
}

// Breakpoints is the set of breakpoints a monitor maintains.
type Breakpoints struct {
	breakpoints map[uint16]*Breakpoint
}

// NewBreakpoints creates an empty breakpoint set.
func NewBreakpoints() *Breakpoints {
	return &Breakpoints{breakpoints: make(map[uint16]*Breakpoint)}
}

type byAddr []*Breakpoint

func (a byAddr) Len() int           { return len(a) }
func (a byAddr) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byAddr) Less(i, j int) bool { return a[i].Address < a[j].Address }

// Get looks up a breakpoint by address and returns it if found. Otherwise it
// returns nil.
func (b *Breakpoints) Get(addr uint16) *Breakpoint {
	if bp, ok := b.breakpoints[addr]; ok {
		return bp
	}
	return nil
}

// List returns all breakpoints in ascending address order.
func (b *Breakpoints) List() []*Breakpoint {
	var list []*Breakpoint
	for _, bp := range b.breakpoints {
		list = append(list, bp)
	}
	sort.Sort(byAddr(list))
	return list
}

// Add sets a breakpoint at addr. A temporary breakpoint already at the
// address becomes permanent.
func (b *Breakpoints) Add(addr uint16) *Breakpoint {
	if bp, ok := b.breakpoints[addr]; ok {
		bp.Temporary = false
		return bp
	}
	bp := &Breakpoint{Address: addr}
	b.breakpoints[addr] = bp
	return bp
}

// Remove deletes the breakpoint at addr.
func (b *Breakpoints) Remove(addr uint16) {
	delete(b.breakpoints, addr)
}

// Plant sets a temporary breakpoint at every address at which the
// instruction at the program counter may continue. Permanent breakpoints
// already at those addresses are left alone. The addresses are returned in
// the order the stepper produced them.
func (b *Breakpoints) Plant(s *Stepper, mem cpu.Memory, reg *cpu.Registers, over bool) ([]uint16, error) {
	next, err := s.Next(mem, reg, over)
	if err != nil {
		return nil, err
	}
	for _, addr := range next {
		if _, ok := b.breakpoints[addr]; !ok {
			b.breakpoints[addr] = &Breakpoint{Address: addr, Temporary: true}
		}
	}
	return next, nil
}

// Hit reports whether reaching addr returns control to the monitor. When it
// does, all temporary breakpoints are cleared.
func (b *Breakpoints) Hit(addr uint16) bool {
	bp, ok := b.breakpoints[addr]
	if !ok || bp.Disabled {
		return false
	}
	for a, bp := range b.breakpoints {
		if bp.Temporary {
			delete(b.breakpoints, a)
		}
	}
	return true
}

// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"bytes"
	"fmt"
	"io"

	"github.com/beevik/steprules/inst"
)

// Format controls the assembly syntax of an emitted rule table.
type Format struct {
	Source    string // name of the instruction table, shown in the header
	Label     string // label placed before the table
	Symbol    string // symbol defined when building for the 65C02
	Directive string // byte data directive
	PerLine   int    // values per data line
}

// DefaultFormat returns the format expected by the monitor's ca65 sources.
func DefaultFormat() Format {
	return Format{
		Source:    "instructions.txt",
		Label:     "single_step_rules",
		Symbol:    "CPU_65C02",
		Directive: ".db",
		PerLine:   8,
	}
}

// Emit generates the rule tables of both CPU variants and writes them to w
// as assembly source. The 65C02 table is selected when the format's symbol
// is defined; otherwise the NMOS table is assembled.
//
// Nothing is written unless both tables are generated successfully.
func Emit(w io.Writer, t *inst.OpcodeTable, f Format) error {
	cmos, err := Generate(t, true)
	if err != nil {
		return err
	}
	nmos, err := Generate(t, false)
	if err != nil {
		return err
	}

	if f.PerLine <= 0 {
		f.PerLine = DefaultFormat().PerLine
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "; Generated automatically from %s.\n", f.Source)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s:\n", f.Label)
	fmt.Fprintf(&b, "    .ifdef %s\n", f.Symbol)
	writeData(&b, cmos.Packed(), f)
	b.WriteString("    .else\n")
	writeData(&b, nmos.Packed(), f)
	b.WriteString("    .endif\n")

	_, err = w.Write(b.Bytes())
	return err
}

func writeData(b *bytes.Buffer, packed [PackedSize]byte, f Format) {
	for i, v := range packed {
		if i%f.PerLine == 0 {
			fmt.Fprintf(b, "        %s $%02X", f.Directive, v)
		} else {
			fmt.Fprintf(b, ", $%02X", v)
		}
		if i%f.PerLine == f.PerLine-1 || i == len(packed)-1 {
			b.WriteByte('\n')
		}
	}
}

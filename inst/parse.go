// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inst

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// Parse reads an instruction table and returns the opcode table it declares
// along with the index of mnemonics in order of first appearance.
//
// Blank lines and lines starting with '#' are ignored. A record with fewer
// than three fields or an invalid opcode fails the whole parse with a
// MalformedRecordError. When two records declare the same opcode, the later
// one wins; see OpcodeTable.Overwritten.
func Parse(r io.Reader) (*OpcodeTable, *MnemonicIndex, error) {
	table := NewOpcodeTable()
	names := NewMnemonicIndex()

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}

		rec, err := parseRecord(text, line, names)
		if err != nil {
			return nil, nil, err
		}
		table.Insert(rec)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}

	return table, names, nil
}

// ParseFile reads the instruction table stored in a file.
func ParseFile(filename string) (*OpcodeTable, *MnemonicIndex, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	return Parse(file)
}

func parseRecord(text string, line int, names *MnemonicIndex) (*Record, error) {
	fields := strings.Split(text, ";")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < 3 {
		return nil, &MalformedRecordError{
			Line:   line,
			Text:   text,
			Reason: "expected at least 3 fields",
		}
	}

	opcode, err := parseOpcode(fields[0])
	if err != nil {
		return nil, &MalformedRecordError{
			Line:   line,
			Text:   text,
			Reason: "invalid opcode",
			Err:    err,
		}
	}

	if fields[1] == "" {
		return nil, &MalformedRecordError{
			Line:   line,
			Text:   text,
			Reason: "missing mnemonic",
		}
	}

	variant := Baseline
	if len(fields) > 3 && fields[3] != "" {
		variant = Variant(fields[3])
	}

	return &Record{
		Opcode:        opcode,
		Mnemonic:      fields[1],
		Mode:          fields[2],
		MnemonicIndex: names.Add(fields[1]),
		Variant:       variant,
		Line:          line,
	}, nil
}

func parseOpcode(s string) (byte, error) {
	switch {
	case strings.HasPrefix(s, "$"):
		s = s[1:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s = s[2:]
	}
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

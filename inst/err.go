// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inst

import "fmt"

// A MalformedRecordError is returned when a line of an instruction table
// can't be parsed as a record.
type MalformedRecordError struct {
	Line   int    // 1-based line number
	Text   string // offending line
	Reason string // what is wrong with it
	Err    error  // underlying conversion error, if any
}

func (err *MalformedRecordError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("line %d: malformed record %q: %s: %v", err.Line, err.Text, err.Reason, err.Err)
	}
	return fmt.Sprintf("line %d: malformed record %q: %s", err.Line, err.Text, err.Reason)
}

func (err *MalformedRecordError) Unwrap() error {
	return err.Err
}

// An UnknownAddressingModeError is returned when an addressing-mode token
// doesn't name any known mode.
type UnknownAddressingModeError struct {
	Token string
}

func (err *UnknownAddressingModeError) Error() string {
	return fmt.Sprintf("unknown addressing mode %q", err.Token)
}

// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"regexp"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ErrParseExpression is returned when an expression doesn't evaluate to an
// integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return fmt.Sprintf("'%s' is not a valid expression", string(err))
}

var (
	hexLiteral = regexp.MustCompile(`\$([0-9a-fA-F]+)`)
	word       = regexp.MustCompile(`[0-9A-Za-z_]+`)
)

// Evaluate an integer expression. Hexadecimal values may be written with a
// '$' prefix, as in 6502 assembly. When hexMode is set, every bare number
// in the expression is hexadecimal too.
func evalExpr(expr string, hexMode bool) (int64, error) {
	src := strings.TrimSpace(expr)
	if src == "" {
		return 0, ErrParseExpression(expr)
	}
	src = hexLiteral.ReplaceAllString(src, "0x$1")
	if hexMode {
		src = word.ReplaceAllStringFunc(src, func(w string) string {
			if isHexDigits(w) {
				return "0x" + w
			}
			return w
		})
	}

	thread := starlark.Thread{Name: "expr"}
	opts := syntax.FileOptions{}
	prog := "rc=" + src + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, starlark.StringDict{})
	if err != nil {
		return 0, ErrParseExpression(expr)
	}

	rc, ok := dict["rc"].(starlark.Int)
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	v, ok := rc.Int64()
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	return v, nil
}

// Evaluate an expression that must produce an opcode value.
func evalOpcode(expr string) (byte, error) {
	v, err := evalExpr(expr, true)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 0xff {
		return 0, fmt.Errorf("opcode $%X out of range", v)
	}
	return byte(v), nil
}

// Evaluate an expression that must produce a 16-bit address.
func evalAddress(expr string) (uint16, error) {
	v, err := evalExpr(expr, true)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 0xffff {
		return 0, fmt.Errorf("address $%X out of range", v)
	}
	return uint16(v), nil
}

func isHexDigits(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return s != ""
}

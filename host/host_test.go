package host

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(h *Host, script string) string {
	var b bytes.Buffer
	h.RunCommands(strings.NewReader(script), &b, false)
	return b.String()
}

func TestBuiltInTable(t *testing.T) {
	h := New()
	assert.Equal(t, 212, h.Table().Len())
	assert.Equal(t, "BRK", h.Mnemonics().Name(0))

	r := h.Table().Lookup(0x20)
	require.NotNil(t, r)
	assert.Equal(t, "JSR", r.Mnemonic)
	assert.Nil(t, h.Table().Lookup(0x02))
}

func TestGenerate(t *testing.T) {
	h := New()

	var b bytes.Buffer
	require.NoError(t, h.Generate(&b))

	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, 38)
	assert.Equal(t, "; Generated automatically from instructions.txt.", lines[0])
	assert.Equal(t, "single_step_rules:", lines[2])
	assert.Equal(t, 32, strings.Count(b.String(), "        .db $"))
}

func TestLookupCommand(t *testing.T) {
	h := New()

	out := run(h, "lookup 20\n")
	assert.Contains(t, out, "$20  JSR")
	assert.Contains(t, out, "6502: call")
	assert.Contains(t, out, "65C02: call")

	out = run(h, "lookup jmp\n")
	assert.Contains(t, out, "$4C  JMP")
	assert.Contains(t, out, "$6C  JMP")
	assert.Contains(t, out, "$7C  JMP")
	assert.Contains(t, out, "6502: illegal")
	assert.Contains(t, out, "65C02: indexed indirect jump")

	out = run(h, "lookup $01+1\n")
	assert.Contains(t, out, "Opcode $02 is not defined.")

	out = run(h, "lookup 10+1\n")
	assert.Contains(t, out, "$11  ORA")

	out = run(h, "lookup 100\n")
	assert.Contains(t, out, "out of range")
}

func TestCommandLookup(t *testing.T) {
	h := New()

	out := run(h, "mn\n")
	assert.True(t, strings.HasPrefix(out, "  0  BRK\n"), out)

	assert.Equal(t, "Command is ambiguous.\n", run(h, "lo\n"))
	assert.Equal(t, "Command not found.\n", run(h, "frobnicate\n"))
	assert.Equal(t, "", run(h, "\n   \n"))
}

func TestHelpCommand(t *testing.T) {
	h := New()

	out := run(h, "?\n")
	assert.Contains(t, out, "steprules commands:")
	assert.Contains(t, out, "generate")
	assert.Contains(t, out, "breakpoint")

	out = run(h, "help load\n")
	assert.Contains(t, out, "Usage: load <filename>")
	assert.Contains(t, out, "Description:\n   Load an instruction table")

	out = run(h, "help breakpoint\n")
	assert.Contains(t, out, "breakpoint commands:")
	assert.Contains(t, out, "reach")

	assert.Equal(t, "Usage: load <filename>\n", run(h, "load\n"))
	assert.Contains(t, run(h, "breakpoint\n"), "breakpoint commands:")
}

func TestQuitStopsCommands(t *testing.T) {
	h := New()
	assert.Equal(t, "", run(h, "quit\nrecords\n"))
}

func TestRecordsCommand(t *testing.T) {
	h := New()
	out := run(h, "records\n")

	assert.True(t, strings.HasPrefix(out, "$00  BRK   brk"), out)
	assert.Contains(t, out, "$EA  NOP   -          6502")
	assert.Contains(t, out, "$DB  STP   -          65C02")
	assert.True(t, strings.HasSuffix(out, "212 records.\n"))
}

func TestSetCommand(t *testing.T) {
	h := New()

	out := run(h, "set perline 16\nset label steps\nset dir \".byte\"\nset verbose on\n")
	assert.Equal(t, 4, strings.Count(out, "updated."))
	assert.Equal(t, 16, h.settings.PerLine)
	assert.Equal(t, "steps", h.settings.Label)
	assert.Equal(t, ".byte", h.settings.Directive)
	assert.True(t, h.settings.Verbose)

	out = run(h, "set perline 0\n")
	assert.Contains(t, out, "value must be positive")
	assert.Equal(t, 16, h.settings.PerLine)

	out = run(h, "set verbose maybe\n")
	assert.Contains(t, out, "invalid bool value")

	out = run(h, "set\n")
	assert.Contains(t, out, "Variables:")
	assert.Contains(t, out, `Label            "steps"`)

	assert.Error(t, h.Set("nosuch", "1"))

	var b bytes.Buffer
	require.NoError(t, h.Generate(&b))
	assert.Contains(t, b.String(), "steps:\n")
	assert.Equal(t, 16, strings.Count(b.String(), "        .byte $"))
}

func TestLoadReaderWarnsOnDuplicates(t *testing.T) {
	h := New()

	var diag bytes.Buffer
	h.SetDiagnostics(&diag)

	err := h.LoadReader(strings.NewReader("A9;LDA;#\nEA;NOP;\nA9;LDX;#\n"), "dup.txt")
	require.NoError(t, err)

	assert.Equal(t, 2, h.Table().Len())
	assert.Equal(t, "LDX", h.Table().Lookup(0xa9).Mnemonic)
	assert.Equal(t, "dup.txt", h.settings.Source)
	assert.Contains(t, diag.String(), "line 3: opcode $A9 (LDX) replaces line 1 (LDA)")
}

func TestLoadReaderKeepsTableOnError(t *testing.T) {
	h := New()

	err := h.LoadReader(strings.NewReader("A9;LDA;#\nZZ;NOP;\n"), "bad.txt")
	assert.Error(t, err)
	assert.Equal(t, 212, h.Table().Len())
	assert.Equal(t, "instructions.txt", h.settings.Source)
}

func TestVerboseLoad(t *testing.T) {
	h := New()

	var diag bytes.Buffer
	h.SetDiagnostics(&diag)
	require.NoError(t, h.Set("verbose", "true"))
	require.NoError(t, h.LoadReader(strings.NewReader("A9;LDA;#\n"), "one.txt"))

	assert.Contains(t, diag.String(), "loaded 1 records with 1 mnemonics from one.txt")
	assert.Contains(t, diag.String(), `"LDA"`)
}

func TestLoadAndGenerateFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "ops.txt")
	dst := filepath.Join(dir, "rules.s")
	require.NoError(t, os.WriteFile(src, []byte("20;JSR;abs\n02;NOP2;imp;65C02\n"), 0644))

	h := New()
	out := run(h, "load "+src+"\ngenerate "+dst+"\n")
	assert.Contains(t, out, "Loaded 2 records from 'ops.txt'.")
	assert.Contains(t, out, "Wrote rule table to '"+dst+"'.")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	assert.Equal(t, "; Generated automatically from ops.txt.", lines[0])

	// CMOS: $02 is a one-byte NOP. NMOS: $02 is illegal.
	assert.True(t, strings.HasPrefix(lines[4], "        .db $44, $41, "), lines[4])
	assert.True(t, strings.HasPrefix(lines[21], "        .db $44, $44, "), lines[21])

	out = run(h, "load "+filepath.Join(dir, "missing.txt")+"\n")
	assert.Contains(t, out, "missing.txt")
	assert.Equal(t, 2, h.Table().Len())
}

func TestGenerateCommandShowsErrors(t *testing.T) {
	h := New()
	require.NoError(t, h.LoadReader(strings.NewReader("12;ORA;(zp);65C02\n"), "bad.txt"))

	out := run(h, "generate\n")
	assert.Contains(t, out, "opcode $12")
	assert.NotContains(t, out, "single_step_rules")
}

func TestDumpCommand(t *testing.T) {
	h := New()

	out := run(h, "dump 4c\n")
	assert.Contains(t, out, "Mnemonic:")
	assert.Contains(t, out, `"JMP"`)

	out = run(h, "dump 02\n")
	assert.Contains(t, out, "Opcode $02 is not defined.")
}

func TestStepCommand(t *testing.T) {
	h := New()

	out := run(h, "step 1000 20 34 12\n")
	assert.Contains(t, out, "6502:  $1234")
	assert.Contains(t, out, "(over: $1003) 3 bytes")
	assert.Contains(t, out, "Temporary breakpoints at $1234.")
	require.NotNil(t, h.Breakpoints().Get(0x1234))
	assert.True(t, h.Breakpoints().Get(0x1234).Temporary)

	out = run(h, "step $1000 d0 10\n")
	assert.Contains(t, out, "$1002 $1012")

	out = run(h, "step 1000 7c 00 30\n")
	assert.Contains(t, out, "6502:  illegal opcode")
	assert.Contains(t, out, "65C02: $0000")

	out = run(h, "set cmos false\nstep 1000 7c 00 30\n")
	assert.Equal(t, 1, strings.Count(out, "illegal opcode"))
	assert.NotContains(t, out, "Temporary breakpoints")

	out = run(h, "step 10000 ea\n")
	assert.Contains(t, out, "out of range")

	assert.Equal(t, "Usage: step <address> <byte> [<byte> ...]\n", run(h, "step 1000\n"))
}

func TestBreakpointCommands(t *testing.T) {
	h := New()

	assert.Equal(t, "No breakpoints set.\n", run(h, "breakpoint list\n"))

	out := run(h, "breakpoint add 2000\nstep 1000 d0 10\nb list\n")
	assert.Contains(t, out, "Breakpoint added at $2000.")
	assert.Contains(t, out, "$1002  enabled, temporary")
	assert.Contains(t, out, "$1012  enabled, temporary")
	assert.Contains(t, out, "$2000  enabled\n")

	out = run(h, "breakpoint disable 2000\nbreakpoint reach 2000\n")
	assert.Contains(t, out, "Breakpoint at $2000 disabled.")
	assert.Contains(t, out, "Execution continues past $2000.")
	assert.Len(t, h.Breakpoints().List(), 3)

	out = run(h, "breakpoint reach 1012\n")
	assert.Contains(t, out, "Breakpoint hit at $1012.")
	require.Len(t, h.Breakpoints().List(), 1)
	assert.True(t, h.Breakpoints().Get(0x2000).Disabled)

	out = run(h, "breakpoint enable 2000\nbreakpoint remove 2000\nbreakpoint remove 2000\nbreakpoint enable 3000\n")
	assert.Contains(t, out, "Breakpoint at $2000 enabled.")
	assert.Contains(t, out, "Breakpoint at $2000 removed.")
	assert.Contains(t, out, "No breakpoint was set on $2000.")
	assert.Contains(t, out, "No breakpoint was set on $3000.")
	assert.Empty(t, h.Breakpoints().List())

	assert.Equal(t, "Usage: breakpoint add <address>\n", run(h, "breakpoint add\n"))
}

func TestEvalExpr(t *testing.T) {
	tests := []struct {
		expr    string
		hexMode bool
		value   int64
	}{
		{"10", false, 10},
		{"10", true, 0x10},
		{"$10+1", false, 0x11},
		{"ff", true, 0xff},
		{"$80 | 3", false, 0x83},
		{"(2+3)*4", false, 20},
		{"10+1", true, 0x11},
		{"ff-f", true, 0xf0},
		{"$10+10", true, 0x20},
		{"$10 + 1", true, 0x11},
	}

	for _, test := range tests {
		v, err := evalExpr(test.expr, test.hexMode)
		if assert.NoError(t, err, test.expr) {
			assert.Equal(t, test.value, v, test.expr)
		}
	}

	_, err := evalExpr("", false)
	assert.Error(t, err)
	_, err = evalExpr("zz", true)
	assert.Error(t, err)
	_, err = evalExpr(`"abc"`, false)
	assert.Error(t, err)

	_, err = evalOpcode("100")
	assert.Error(t, err)
	op, err := evalOpcode("$a9")
	assert.NoError(t, err)
	assert.Equal(t, byte(0xa9), op)
}

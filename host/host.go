// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements a command host for inspecting 6502 instruction
// tables and generating the single-step rule tables a monitor uses to plant
// breakpoints.
//
// Within the host it is possible to load an instruction table, list its
// records and mnemonics, look up the rule assigned to any opcode on both
// processor variants, compute the addresses a single step may reach, manage
// the monitor's breakpoints, and write the packed rule table as assembly
// source.
package host

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/beevik/cmd"
	"github.com/davecgh/go-spew/spew"

	"github.com/beevik/steprules/cpu"
	"github.com/beevik/steprules/inst"
	"github.com/beevik/steprules/monitor"
	"github.com/beevik/steprules/rules"
	"github.com/beevik/steprules/translate"
)

var errQuit = errors.New("quit")

var dumper = spew.ConfigState{
	Indent:                  "    ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// The Host holds the current instruction table, the settings used to
// generate rule tables from it, and the monitor's breakpoints.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	table       *inst.OpcodeTable
	names       *inst.MnemonicIndex
	settings    *settings
	breakpoints *monitor.Breakpoints
	log         *log.Logger
}

// New creates a new host holding the built-in 65C02 instruction table.
func New() *Host {
	h := &Host{
		output:      bufio.NewWriter(os.Stdout),
		settings:    newSettings(),
		breakpoints: monitor.NewBreakpoints(),
		log:         log.New(os.Stderr, "steprules: ", 0),
	}

	var b bytes.Buffer
	if err := cpu.WriteSourceTable(&b); err != nil {
		panic(err)
	}
	table, names, err := inst.Parse(&b)
	if err != nil {
		panic(err)
	}
	h.table, h.names = table, names
	return h
}

// SetDiagnostics redirects warnings and verbose dumps to w.
func (h *Host) SetDiagnostics(w io.Writer) {
	h.log.SetOutput(w)
}

// Table returns the current instruction table.
func (h *Host) Table() *inst.OpcodeTable {
	return h.table
}

// Mnemonics returns the mnemonic index of the current instruction table.
func (h *Host) Mnemonics() *inst.MnemonicIndex {
	return h.names
}

// Breakpoints returns the breakpoints maintained by the host.
func (h *Host) Breakpoints() *monitor.Breakpoints {
	return h.breakpoints
}

// Load replaces the current instruction table with the one stored in a
// file. The file's base name becomes the source named in generated output.
func (h *Host) Load(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return h.LoadReader(file, filepath.Base(filename))
}

// LoadReader replaces the current instruction table with one read from r.
// Opcodes declared more than once are reported as warnings.
func (h *Host) LoadReader(r io.Reader, source string) error {
	table, names, err := inst.Parse(r)
	if err != nil {
		return err
	}

	h.table, h.names = table, names
	h.settings.Source = source

	for _, o := range table.Overwritten() {
		h.log.Print(translate.From("line %d: opcode $%02X (%s) replaces line %d (%s)",
			o.Current.Line, o.Current.Opcode, o.Current.Mnemonic,
			o.Previous.Line, o.Previous.Mnemonic))
	}

	if h.settings.Verbose {
		h.log.Print(translate.From("loaded %d records with %d mnemonics from %s",
			table.Len(), names.Len(), source))
		dumper.Fdump(h.log.Writer(), names.Names())
	}
	return nil
}

// Generate writes the rule tables for the current instruction table to w.
// Nothing is written if generation fails.
func (h *Host) Generate(w io.Writer) error {
	return rules.Emit(w, h.table, h.settings.Format())
}

// Set assigns a value to a host setting. The value is converted to the
// setting's type.
func (h *Host) Set(key, value string) error {
	switch h.settings.Kind(key) {
	case reflect.String:
		return h.settings.Set(key, value)

	case reflect.Bool:
		b, err := stringToBool(value)
		if err != nil {
			return err
		}
		return h.settings.Set(key, b)

	case reflect.Int:
		v, err := evalExpr(value, false)
		if err != nil {
			return err
		}
		return h.settings.Set(key, v)

	default:
		return fmt.Errorf("setting '%s' not found", key)
	}
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		n, args, err := cmds.Lookup(line)
		switch {
		case err == cmd.ErrNotFound:
			h.println(translate.From("Command not found."))
			continue
		case err == cmd.ErrAmbiguous:
			h.println(translate.From("Command is ambiguous."))
			continue
		case err != nil:
			h.printf("ERROR: %v.\n", err)
			continue
		}

		c, ok := n.(*cmd.Command)
		if !ok {
			n.DisplayHelp(h.output)
			h.flush()
			continue
		}

		fn := c.Data.(handler)
		if err := fn(h, c, args); err != nil {
			break
		}
	}

	h.flush()
}

func (h *Host) print(args ...any) {
	fmt.Fprint(h.output, args...)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.print("* ")
		h.flush()
	}
}

func (h *Host) cmdHelp(c *cmd.Command, args []string) error {
	if err := cmds.GetHelp(h.output, args); err != nil {
		h.printf("%v\n", err)
	}
	h.flush()
	return nil
}

func (h *Host) cmdLoad(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	filename := args[0]
	if err := h.Load(filename); err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.println(translate.From("Loaded %d records from '%s'.", h.table.Len(), filepath.Base(filename)))
	return nil
}

func (h *Host) cmdGenerate(c *cmd.Command, args []string) error {
	if len(args) == 0 {
		if err := h.Generate(h.output); err != nil {
			h.printf("%v\n", err)
		}
		h.flush()
		return nil
	}

	var b bytes.Buffer
	if err := h.Generate(&b); err != nil {
		h.printf("%v\n", err)
		return nil
	}

	filename := args[0]
	if err := os.WriteFile(filename, b.Bytes(), 0644); err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.println(translate.From("Wrote rule table to '%s'.", filename))
	return nil
}

func (h *Host) cmdLookup(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	var records []*inst.Record
	if _, ok := h.names.Index(strings.ToUpper(args[0])); ok && len(args) == 1 {
		for _, r := range h.table.Records() {
			if strings.EqualFold(r.Mnemonic, args[0]) {
				records = append(records, r)
			}
		}
	} else {
		opcode, err := evalOpcode(strings.Join(args, " "))
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		if r := h.table.Lookup(opcode); r != nil {
			records = append(records, r)
		} else {
			h.println(translate.From("Opcode $%02X is not defined.", opcode))
			return nil
		}
	}

	if len(records) == 0 {
		h.println(translate.From("No records found."))
		return nil
	}

	nmos, cmos, err := h.generate()
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	for _, r := range records {
		h.displayRecord(r)
		h.printf("        %s: %-22s %s: %s\n",
			cpu.NMOS, nmos.Rule(r.Opcode), cpu.CMOS, cmos.Rule(r.Opcode))
	}
	return nil
}

func (h *Host) cmdRecords(c *cmd.Command, args []string) error {
	for _, r := range h.table.Records() {
		h.displayRecord(r)
	}
	h.println(translate.From("%d records.", h.table.Len()))
	return nil
}

func (h *Host) cmdMnemonics(c *cmd.Command, args []string) error {
	for i, name := range h.names.Names() {
		h.printf("%3d  %s\n", i, name)
	}
	return nil
}

func (h *Host) cmdDump(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	opcode, err := evalOpcode(strings.Join(args, " "))
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	r := h.table.Lookup(opcode)
	if r == nil {
		h.println(translate.From("Opcode $%02X is not defined.", opcode))
		return nil
	}

	dumper.Fdump(h.output, r)
	h.flush()
	return nil
}

func (h *Host) cmdStep(c *cmd.Command, args []string) error {
	if len(args) < 2 {
		h.displayUsage(c)
		return nil
	}

	addr, err := evalAddress(args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	code := make([]byte, 0, len(args)-1)
	for _, a := range args[1:] {
		b, err := evalOpcode(a)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		code = append(code, b)
	}

	mem := cpu.NewFlatMemory()
	mem.StoreBytes(addr, code)

	var reg cpu.Registers
	reg.Init()
	reg.PC = addr

	nmos, cmos, err := h.generate()
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	planted := cpu.NMOS
	if h.settings.CMOS {
		planted = cpu.CMOS
	}

	for _, t := range []struct {
		arch  cpu.Architecture
		table *rules.Table
	}{
		{cpu.NMOS, nmos},
		{cpu.CMOS, cmos},
	} {
		packed := t.table.Packed()
		s, err := monitor.New(packed[:], t.arch)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}

		label := t.arch.String() + ":"
		into, err := s.Next(mem, &reg, false)
		if err != nil {
			h.printf("%-6s %v\n", label, err)
			continue
		}
		over, err := s.Next(mem, &reg, true)
		if err != nil {
			h.printf("%-6s %v\n", label, err)
			continue
		}

		h.printf("%-6s %-12s (over: %s) %d bytes\n",
			label, addrList(into), addrList(over), s.Length(mem, addr))

		if t.arch == planted {
			next, err := h.breakpoints.Plant(s, mem, &reg, false)
			if err != nil {
				h.printf("%v\n", err)
				continue
			}
			h.println(translate.From("Temporary breakpoints at %s.", addrList(next)))
		}
	}
	return nil
}

func (h *Host) cmdBreakpointList(c *cmd.Command, args []string) error {
	list := h.breakpoints.List()
	if len(list) == 0 {
		h.println(translate.From("No breakpoints set."))
		return nil
	}

	h.println(translate.From("Breakpoints:"))
	for _, b := range list {
		state := "enabled"
		if b.Disabled {
			state = "disabled"
		}
		if b.Temporary {
			state += ", temporary"
		}
		h.printf("    $%04X  %s\n", b.Address, state)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := evalAddress(args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.breakpoints.Add(addr)
	h.println(translate.From("Breakpoint added at $%04X.", addr))
	return nil
}

func (h *Host) cmdBreakpointRemove(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := evalAddress(args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.breakpoints.Get(addr) == nil {
		h.println(translate.From("No breakpoint was set on $%04X.", addr))
		return nil
	}

	h.breakpoints.Remove(addr)
	h.println(translate.From("Breakpoint at $%04X removed.", addr))
	return nil
}

func (h *Host) cmdBreakpointEnable(c *cmd.Command, args []string) error {
	return h.enableBreakpoint(c, args, true)
}

func (h *Host) cmdBreakpointDisable(c *cmd.Command, args []string) error {
	return h.enableBreakpoint(c, args, false)
}

func (h *Host) enableBreakpoint(c *cmd.Command, args []string, enable bool) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := evalAddress(args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.breakpoints.Get(addr)
	if b == nil {
		h.println(translate.From("No breakpoint was set on $%04X.", addr))
		return nil
	}

	b.Disabled = !enable
	if enable {
		h.println(translate.From("Breakpoint at $%04X enabled.", addr))
	} else {
		h.println(translate.From("Breakpoint at $%04X disabled.", addr))
	}
	return nil
}

func (h *Host) cmdBreakpointReach(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := evalAddress(args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.breakpoints.Hit(addr) {
		h.println(translate.From("Breakpoint hit at $%04X.", addr))
	} else {
		h.println(translate.From("Execution continues past $%04X.", addr))
	}
	return nil
}

func (h *Host) cmdSet(c *cmd.Command, args []string) error {
	switch len(args) {
	case 0:
		h.println(translate.From("Variables:"))
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayUsage(c)

	default:
		key, value := args[0], strings.Join(args[1:], " ")
		if err := h.Set(key, value); err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.println(translate.From("Setting '%s' updated.", key))
	}
	return nil
}

func (h *Host) cmdQuit(c *cmd.Command, args []string) error {
	return errQuit
}

func (h *Host) generate() (nmos, cmos *rules.Table, err error) {
	nmos, err = rules.Generate(h.table, false)
	if err != nil {
		return nil, nil, err
	}
	cmos, err = rules.Generate(h.table, true)
	if err != nil {
		return nil, nil, err
	}
	return nmos, cmos, nil
}

func (h *Host) displayRecord(r *inst.Record) {
	mode := r.Mode
	if mode == "" {
		mode = "-"
	}
	h.printf("$%02X  %-5s %-10s %-6s line %d\n", r.Opcode, r.Mnemonic, mode, r.Variant, r.Line)
}

func (h *Host) displayUsage(c *cmd.Command) {
	c.DisplayUsage(h.output)
	h.flush()
}

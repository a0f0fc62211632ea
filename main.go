// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command steprules generates the table of single-step rules a 6502 monitor
// uses to find the next instruction when stepping through code.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/beevik/term"

	"github.com/beevik/steprules/cpu"
	"github.com/beevik/steprules/host"
)

var (
	input       string
	output      string
	verbose     bool
	interactive bool
	records     bool
)

func init() {
	flag.StringVar(&input, "i", "", "instruction table to read (built-in table if empty)")
	flag.StringVar(&output, "o", "-", "file receiving the rule table ('-' for stdout)")
	flag.BoolVar(&verbose, "v", false, "report diagnostics while loading")
	flag.BoolVar(&interactive, "x", false, "run the interactive command host")
	flag.BoolVar(&records, "records", false, "print the built-in instruction table and exit")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: steprules [options] [variant ...]\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("steprules: ")

	if records {
		if err := cpu.WriteSourceTable(os.Stdout); err != nil {
			exitOnError(err)
		}
		return
	}

	h := host.New()
	h.SetDiagnostics(os.Stderr)
	if verbose {
		if err := h.Set("verbose", "true"); err != nil {
			exitOnError(err)
		}
		for _, v := range flag.Args() {
			log.Printf("ignoring variant argument %q", v)
		}
	}

	if input != "" {
		if err := h.Load(input); err != nil {
			exitOnError(err)
		}
	}

	if interactive {
		h.RunCommands(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
		return
	}

	var b bytes.Buffer
	if err := h.Generate(&b); err != nil {
		exitOnError(err)
	}
	if err := writeOutput(output, b.Bytes()); err != nil {
		exitOnError(err)
	}
}

func writeOutput(filename string, data []byte) error {
	if filename == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}

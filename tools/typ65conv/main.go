// Copyright 2026 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Command typ65conv rewrites 65C02 and 65816 assembly source
// in Typist's Assembler Notation into traditional syntax.
//
// The opcode table is read from the JSON file produced by
// jsonmaker. The output file is only replaced once every
// line has been converted.
//
// Usage:
//
//	typ65conv -i INPUT [-o OUTPUT] [-opcodes FILE] [-ou] [-lc]
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/scotws/type65conv/internal/atomicfile"
	"github.com/scotws/type65conv/internal/mnemonic"
	"github.com/scotws/type65conv/internal/opcodes"
	"github.com/scotws/type65conv/internal/typist"
)

var program = filepath.Base(os.Args[0])

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
	log.SetPrefix(program + ": ")
}

type options struct {
	Input   string
	Output  string
	Opcodes string
	Verbose bool
	Typist  typist.Options
}

// parseArgs parses the command line. Any
// error is a usage error.
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	var opts options
	flags := flag.NewFlagSet(program, flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.Input, "i", "", "Input file (required).")
	flags.StringVar(&opts.Output, "o", "typ65conv.asm", "Output file.")
	flags.StringVar(&opts.Opcodes, "opcodes", "opcodes.json", "Opcode table produced by jsonmaker.")
	flags.BoolVar(&opts.Typist.UpperOpcodes, "ou", false, "Convert opcodes to upper case.")
	flags.BoolVar(&opts.Typist.LabelColon, "lc", false, "Add a colon to each label.")
	flags.IntVar(&opts.Typist.Workers, "j", 0, "Maximum number of lines converted concurrently (0 means one per CPU).")
	flags.BoolVar(&opts.Verbose, "v", false, "Print a summary once the output has been written.")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n  %s -i INPUT [OPTIONS]\n\n", program)
		flags.PrintDefaults()
	}

	err := flags.Parse(args)
	if err != nil {
		return nil, err
	}

	if rest := flags.Args(); len(rest) > 0 {
		flags.Usage()
		return nil, fmt.Errorf("unexpected arguments: %q", rest)
	}

	if opts.Input == "" {
		flags.Usage()
		return nil, errors.New("no input file specified")
	}

	if opts.Typist.Workers < 0 {
		flags.Usage()
		return nil, fmt.Errorf("invalid -j %d: must not be negative", opts.Typist.Workers)
	}

	return &opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}

	if err != nil {
		log.Println(err)
		os.Exit(2)
	}

	n, err := run(context.Background(), opts)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Verbose {
		log.Printf("wrote %d lines to %s", n, opts.Output)
	}
}

// readTable reads the JSON opcode table.
func readTable(name string) (*opcodes.Table, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, &mnemonic.IOError{Op: "open", Path: name, Err: err}
	}

	defer f.Close()

	table, err := opcodes.Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse opcode table %s: %w", name, err)
	}

	return table, nil
}

// readLines returns the lines of the named
// file, without line endings.
func readLines(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, &mnemonic.IOError{Op: "open", Path: name, Err: err}
	}

	defer f.Close()

	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		lines = append(lines, s.Text())
	}

	if err := s.Err(); err != nil {
		return nil, &mnemonic.IOError{Op: "read", Path: name, Err: err}
	}

	return lines, nil
}

// run converts opts.Input and writes the result
// to opts.Output, returning the number of lines
// written.
func run(ctx context.Context, opts *options) (int, error) {
	table, err := readTable(opts.Opcodes)
	if err != nil {
		return 0, err
	}

	lines, err := readLines(opts.Input)
	if err != nil {
		return 0, err
	}

	c := typist.NewConverter(table, opts.Typist)
	out, err := c.Convert(ctx, opts.Input, lines)
	if err != nil {
		return 0, err
	}

	err = atomicfile.WriteFile(opts.Output, 0644, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		for _, line := range out {
			bw.WriteString(line)
			bw.WriteByte('\n')
		}

		return bw.Flush()
	})
	if err != nil {
		return 0, &mnemonic.IOError{Op: "write", Path: opts.Output, Err: err}
	}

	return len(out), nil
}

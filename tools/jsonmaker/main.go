// Copyright 2026 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Command jsonmaker converts a table of mnemonics in Typist's
// Assembler Notation into the JSON opcode table used by
// typ65conv.
//
// Each line of the source table has a dotted mnemonic and
// the instruction's size in bytes:
//
//	brk 2
//	jmp.l 4
//
// The result maps each mnemonic to its traditional form
// and size. By default, jsonmaker reads opcodes65c02+65816.txt
// and writes opcodes.json. The destination is only replaced
// once the whole table has been converted.
//
// Usage:
//
//	jsonmaker [-config FILE] [-v] [SOURCE [DEST]]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/scotws/type65conv/internal/atomicfile"
	"github.com/scotws/type65conv/internal/config"
	"github.com/scotws/type65conv/internal/mnemonic"
	"github.com/scotws/type65conv/internal/opcodes"
)

var program = filepath.Base(os.Args[0])

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
	log.SetPrefix(program + ": ")
}

// options are the settings given on
// the command line.
type options struct {
	Config  *config.Config
	Verbose bool
}

// parseArgs parses the command line. Any
// error is a usage error.
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	var (
		configPath string
		verbose    bool
	)

	flags := flag.NewFlagSet(program, flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&configPath, "config", "", "Path to a TOML or YAML file with settings and extra lookup tables.")
	flags.BoolVar(&verbose, "v", false, "Print a summary once the table has been written.")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n  %s [OPTIONS] [SOURCE [DEST]]\n\n", program)
		fmt.Fprintf(stderr, "SOURCE defaults to %s and DEST defaults to %s.\n\n", config.DefaultSource, config.DefaultDestination)
		flags.PrintDefaults()
	}

	err := flags.Parse(args)
	if err != nil {
		return nil, err
	}

	rest := flags.Args()
	if len(rest) > 2 {
		flags.Usage()
		return nil, fmt.Errorf("too many arguments: %q", rest[2:])
	}

	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}

	if len(rest) > 0 {
		cfg.Source = rest[0]
	}

	if len(rest) > 1 {
		cfg.Destination = rest[1]
	}

	opts := &options{
		Config:  cfg,
		Verbose: verbose,
	}

	return opts, nil
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

	table, err := GenerateJSON(opts.Config)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Verbose {
		log.Printf("wrote %d entries to %s", table.Len(), opts.Config.Destination)
	}
}

// GenerateJSON converts the mnemonic table at
// cfg.Source and writes the result to
// cfg.Destination.
//
// If any line cannot be converted, no output
// is written.
func GenerateJSON(cfg *config.Config) (*opcodes.Table, error) {
	f, err := os.Open(cfg.Source)
	if err != nil {
		return nil, &mnemonic.IOError{Op: "open", Path: cfg.Source, Err: err}
	}

	defer f.Close()

	records, err := mnemonic.Parse(cfg.Source, f)
	if err != nil {
		return nil, err
	}

	table, err := cfg.Converter().Convert(records)
	if err != nil {
		return nil, err
	}

	err = atomicfile.WriteFile(cfg.Destination, 0644, func(w io.Writer) error {
		return opcodes.Write(w, table)
	})
	if err != nil {
		return nil, &mnemonic.IOError{Op: "write", Path: cfg.Destination, Err: err}
	}

	return table, nil
}

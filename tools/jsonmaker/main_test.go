// Copyright 2026 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"rsc.io/diff"

	"github.com/scotws/type65conv/internal/config"
	"github.com/scotws/type65conv/internal/mnemonic"
	"github.com/scotws/type65conv/internal/opcodes"
)

func TestGenerateJSON(t *testing.T) {
	cfg := config.Default()
	cfg.Source = filepath.Join("testdata", "opcodes.txt")
	cfg.Destination = filepath.Join(t.TempDir(), "opcodes.json")

	table, err := GenerateJSON(cfg)
	if err != nil {
		t.Fatalf("GenerateJSON(): %v", err)
	}

	got, err := os.ReadFile(cfg.Destination)
	if err != nil {
		t.Fatal(err)
	}

	want, err := os.ReadFile(filepath.Join("testdata", "opcodes.json"))
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(got, want) {
		t.Fatalf("GenerateJSON(): output mismatch:\n%s", diff.Format(string(got), string(want)))
	}

	// Check the round trip, and that the
	// entries match the input lines in order.
	src, err := os.ReadFile(cfg.Source)
	if err != nil {
		t.Fatal(err)
	}

	var lines []string
	s := bufio.NewScanner(bytes.NewReader(src))
	for s.Scan() {
		if line := strings.TrimSpace(s.Text()); line != "" {
			lines = append(lines, line)
		}
	}

	read, err := opcodes.Read(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("Read(): %v", err)
	}

	if diff := cmp.Diff(table.Entries(), read.Entries()); diff != "" {
		t.Fatalf("Read(): (-generated, +read)\n%s", diff)
	}

	entries := read.Entries()
	if len(entries) != len(lines) {
		t.Fatalf("got %d entries for %d lines", len(entries), len(lines))
	}

	for i, e := range entries {
		fields := strings.Fields(lines[i])
		if e.Mnemonic != fields[0] {
			t.Errorf("entry %d: got mnemonic %q, want %q", i, e.Mnemonic, fields[0])
		}
	}
}

func TestGenerateJSONErrors(t *testing.T) {
	tests := []struct {
		Name   string
		Source string
		Check  func(error) bool
		Want   string
	}{
		{
			Name:   "unknown suffix",
			Source: "brk 2\nfoo.zz 3\n",
			Check: func(err error) bool {
				var e *mnemonic.UnknownSuffixError
				return errors.As(err, &e) && e.Mnemonic == "foo.zz"
			},
			Want: `opcodes.txt:2: unknown addressing-mode suffix "zz" in "foo.zz"`,
		},
		{
			Name:   "malformed line",
			Source: "brk 2\ntax\n",
			Check: func(err error) bool {
				var e *mnemonic.MalformedLineError
				return errors.As(err, &e)
			},
			Want: `opcodes.txt:2: malformed line "tax": want "<mnemonic> <size>"`,
		},
		{
			Name:   "invalid size",
			Source: "brk two\n",
			Check: func(err error) bool {
				var e *mnemonic.InvalidSizeError
				return errors.As(err, &e)
			},
			Want: `opcodes.txt:1: invalid size "two" for brk: want a positive integer`,
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := config.Default()
			cfg.Source = filepath.Join(dir, "opcodes.txt")
			cfg.Destination = filepath.Join(dir, "opcodes.json")
			if err := os.WriteFile(cfg.Source, []byte(test.Source), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := GenerateJSON(cfg)
			if err == nil {
				t.Fatal("GenerateJSON(): unexpected success")
			}

			if !test.Check(err) {
				t.Fatalf("GenerateJSON(): got error of unexpected type: %v", err)
			}

			if e := err.Error(); !strings.HasSuffix(e, test.Want) {
				t.Fatalf("GenerateJSON():\nGot:  %s\nWant: %s", e, test.Want)
			}

			if _, err := os.Stat(cfg.Destination); !errors.Is(err, fs.ErrNotExist) {
				t.Fatalf("GenerateJSON(): destination exists after failure: %v", err)
			}
		})
	}
}

func TestGenerateJSONMissingSource(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Source = filepath.Join(dir, "missing.txt")
	cfg.Destination = filepath.Join(dir, "opcodes.json")

	_, err := GenerateJSON(cfg)
	var ioErr *mnemonic.IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "open" {
		t.Fatalf("GenerateJSON(): got error %v, want open *IOError", err)
	}

	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("GenerateJSON(): got error %v, want fs.ErrNotExist", err)
	}
}

func TestGenerateJSONUnwritableDestination(t *testing.T) {
	cfg := config.Default()
	cfg.Source = filepath.Join("testdata", "opcodes.txt")
	cfg.Destination = filepath.Join(t.TempDir(), "missing", "opcodes.json")

	_, err := GenerateJSON(cfg)
	var ioErr *mnemonic.IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "write" {
		t.Fatalf("GenerateJSON(): got error %v, want write *IOError", err)
	}
}

func TestParseArgs(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	err := os.WriteFile(configPath, []byte("source = \"in.txt\"\ndestination = \"out.json\"\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		Name    string
		Args    []string
		Source  string
		Dest    string
		Verbose bool
	}{
		{
			Name:   "defaults",
			Source: config.DefaultSource,
			Dest:   config.DefaultDestination,
		},
		{
			Name:   "source only",
			Args:   []string{"table.txt"},
			Source: "table.txt",
			Dest:   config.DefaultDestination,
		},
		{
			Name:    "source and destination",
			Args:    []string{"-v", "table.txt", "table.json"},
			Source:  "table.txt",
			Dest:    "table.json",
			Verbose: true,
		},
		{
			Name:   "config file",
			Args:   []string{"-config", configPath},
			Source: "in.txt",
			Dest:   "out.json",
		},
		{
			Name:   "arguments override config file",
			Args:   []string{"-config", configPath, "table.txt"},
			Source: "table.txt",
			Dest:   "out.json",
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			opts, err := parseArgs(test.Args, io.Discard)
			if err != nil {
				t.Fatalf("parseArgs(%q): %v", test.Args, err)
			}

			if opts.Config.Source != test.Source || opts.Config.Destination != test.Dest || opts.Verbose != test.Verbose {
				t.Fatalf("parseArgs(%q): got (%q, %q, %v), want (%q, %q, %v)", test.Args,
					opts.Config.Source, opts.Config.Destination, opts.Verbose,
					test.Source, test.Dest, test.Verbose)
			}
		})
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		Name string
		Args []string
		Want string
	}{
		{
			Name: "too many arguments",
			Args: []string{"a", "b", "c"},
			Want: `too many arguments: ["c"]`,
		},
		{
			Name: "unknown flag",
			Args: []string{"-x"},
			Want: "flag provided but not defined: -x",
		},
		{
			Name: "missing config",
			Args: []string{"-config", filepath.Join(t.TempDir(), "missing.toml")},
			Want: "no such file or directory",
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			_, err := parseArgs(test.Args, io.Discard)
			if err == nil {
				t.Fatalf("parseArgs(%q): unexpected success", test.Args)
			}

			if e := err.Error(); !strings.Contains(e, test.Want) {
				t.Fatalf("parseArgs(%q):\nGot:  %s\nWant: %s", test.Args, e, test.Want)
			}
		})
	}

	if _, err := parseArgs([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("parseArgs(-h): got %v, want flag.ErrHelp", err)
	}
}

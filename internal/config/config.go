// Copyright 2026 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package config loads the settings used to convert
// mnemonic tables.
//
// Settings can be given in a TOML or YAML file. The
// lookup tables in a file are merged over the built-in
// tables, unless replace_tables is set:
//
//	source = "opcodes65c02+65816.txt"
//	destination = "opcodes.json"
//
//	[templates]
//	dxy = "?,x,y"
//
//	[special_cases]
//	"jmp.il" = "jml"
//
//	[[overrides]]
//	mnemonic = "jmp.il"
//	template = "[?]"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/scotws/type65conv/internal/mnemonic"
)

// Default file names.
const (
	DefaultSource      = "opcodes65c02+65816.txt"
	DefaultDestination = "opcodes.json"
)

// Config describes how to convert a
// mnemonic table.
type Config struct {
	Source      string // The mnemonic table.
	Destination string // The JSON opcode table.

	Templates    map[string]string
	SpecialCases map[string]string
	Overrides    []mnemonic.Override
}

// file is the structure of a config file.
type file struct {
	Source        string              `toml:"source" yaml:"source"`
	Destination   string              `toml:"destination" yaml:"destination"`
	ReplaceTables bool                `toml:"replace_tables" yaml:"replace_tables"`
	Templates     map[string]string   `toml:"templates" yaml:"templates"`
	SpecialCases  map[string]string   `toml:"special_cases" yaml:"special_cases"`
	Overrides     []mnemonic.Override `toml:"overrides" yaml:"overrides"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source:       DefaultSource,
		Destination:  DefaultDestination,
		Templates:    mnemonic.DefaultTemplates(),
		SpecialCases: mnemonic.DefaultSpecialCases(),
		Overrides:    mnemonic.DefaultOverrides(),
	}
}

// Load reads the configuration file at path.
// The file type is chosen by its extension:
// ".toml", ".yaml", or ".yml".
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &mnemonic.IOError{Op: "read", Path: path, Err: err}
	}

	var f file
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = decodeTOML(data, &f)
	case ".yaml", ".yml":
		err = decodeYAML(data, &f)
	default:
		return nil, fmt.Errorf("unsupported config file %q: want a .toml, .yaml, or .yml file", path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %v", path, err)
	}

	c := f.merge(Default())
	if err = c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %v", path, err)
	}

	return c, nil
}

func decodeTOML(data []byte, f *file) error {
	md, err := toml.Decode(string(data), f)
	if err != nil {
		return err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	return nil
}

func decodeYAML(data []byte, f *file) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(f)
	if errors.Is(err, io.EOF) {
		// An empty file.
		return nil
	}

	return err
}

// merge applies the file's settings on top
// of c.
func (f *file) merge(c *Config) *Config {
	if f.Source != "" {
		c.Source = f.Source
	}

	if f.Destination != "" {
		c.Destination = f.Destination
	}

	if f.ReplaceTables {
		c.Templates = make(map[string]string)
		c.SpecialCases = make(map[string]string)
		c.Overrides = nil
	}

	for suffix, template := range f.Templates {
		c.Templates[suffix] = template
	}

	for m, name := range f.SpecialCases {
		c.SpecialCases[m] = name
	}

	// Overrides are applied in order, so
	// those in the file take precedence.
	c.Overrides = append(c.Overrides, f.Overrides...)

	return c
}

func hasSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

// Validate checks that the configuration's
// tables can be used to convert mnemonics.
func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New("no source file")
	}

	if c.Destination == "" {
		return errors.New("no destination file")
	}

	// Check in a stable order so the
	// reported error is deterministic.
	suffixes := make([]string, 0, len(c.Templates))
	for suffix := range c.Templates {
		suffixes = append(suffixes, suffix)
	}

	sort.Strings(suffixes)
	for _, suffix := range suffixes {
		template := c.Templates[suffix]
		switch {
		case hasSpace(suffix):
			return fmt.Errorf("suffix %q contains whitespace", suffix)
		case template == "":
			return fmt.Errorf("suffix %q has an empty template", suffix)
		case hasSpace(template):
			return fmt.Errorf("template %q for suffix %q contains whitespace", template, suffix)
		}
	}

	mnemonics := make([]string, 0, len(c.SpecialCases))
	for m := range c.SpecialCases {
		mnemonics = append(mnemonics, m)
	}

	sort.Strings(mnemonics)
	for _, m := range mnemonics {
		base := c.SpecialCases[m]
		switch {
		case m == "" || hasSpace(m):
			return fmt.Errorf("invalid special case mnemonic %q", m)
		case base == "" || hasSpace(base):
			return fmt.Errorf("invalid base %q for special case %q", base, m)
		}
	}

	for i, rule := range c.Overrides {
		switch {
		case rule.Mnemonic == "" || hasSpace(rule.Mnemonic):
			return fmt.Errorf("override %d: invalid mnemonic %q", i+1, rule.Mnemonic)
		case hasSpace(rule.Template):
			return fmt.Errorf("override %d: template %q for %s contains whitespace", i+1, rule.Template, rule.Mnemonic)
		}
	}

	return nil
}

// Converter returns a mnemonic converter
// using the configured tables.
func (c *Config) Converter() *mnemonic.Converter {
	return mnemonic.NewConverter(c.Templates, c.SpecialCases, c.Overrides)
}

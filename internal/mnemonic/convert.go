// Copyright 2026 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package mnemonic

import (
	"github.com/scotws/type65conv/internal/opcodes"
)

// Converter renders dotted mnemonics in
// traditional syntax.
//
// A Converter is immutable once created
// and safe for concurrent use.
type Converter struct {
	templates    map[string]string
	specialCases map[string]string
	overrides    []Override
}

// NewConverter returns a converter using the
// given tables. The tables are copied, so the
// caller may reuse them.
func NewConverter(templates, specialCases map[string]string, overrides []Override) *Converter {
	return &Converter{
		templates:    copyMap(templates),
		specialCases: copyMap(specialCases),
		overrides:    append([]Override(nil), overrides...),
	}
}

// DefaultConverter returns a converter using
// the built-in tables.
func DefaultConverter() *Converter {
	return NewConverter(defaultTemplates, defaultSpecialCases, defaultOverrides)
}

// Legacy returns the traditional form of the
// given record.
//
// Single-byte instructions are written as the
// bare base mnemonic, unless the suffix is "a",
// which names the accumulator explicitly. All
// other instructions have the operand template
// for their suffix appended. Override rules
// are applied last.
func (c *Converter) Legacy(rec *Record) (string, error) {
	base, suffix := Split(rec.Mnemonic)
	if special, ok := c.specialCases[rec.Mnemonic]; ok {
		base = special
	}

	var operand string
	if rec.Size > 1 || suffix == "a" {
		template, ok := c.templates[suffix]
		if !ok {
			return "", &UnknownSuffixError{Pos: rec.Pos, Mnemonic: rec.Mnemonic, Suffix: suffix}
		}

		operand = template
	}

	for _, rule := range c.overrides {
		if rule.Mnemonic == rec.Mnemonic {
			operand = rule.Template
		}
	}

	if operand == "" {
		return base, nil
	}

	return base + " " + operand, nil
}

// Convert renders every record, in order,
// into an opcode table. The first failure
// aborts the conversion.
func (c *Converter) Convert(records []*Record) (*opcodes.Table, error) {
	seen := make(map[string]Position, len(records))
	table := opcodes.NewTable()
	for _, rec := range records {
		if first, ok := seen[rec.Mnemonic]; ok {
			return nil, &DuplicateMnemonicError{Pos: rec.Pos, Mnemonic: rec.Mnemonic, First: first}
		}

		seen[rec.Mnemonic] = rec.Pos
		oldmnem, err := c.Legacy(rec)
		if err != nil {
			return nil, err
		}

		err = table.Add(&opcodes.Entry{
			Mnemonic: rec.Mnemonic,
			OldMnem:  oldmnem,
			Size:     rec.Size,
		})
		if err != nil {
			return nil, err
		}
	}

	return table, nil
}

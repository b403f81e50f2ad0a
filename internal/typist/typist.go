// Copyright 2026 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package typist rewrites 65C02 and 65816 assembly source
// from Typist's Assembler Notation into traditional syntax,
// using an opcode table produced by jsonmaker.
//
// Comments, blank lines, and directives are passed through.
// Labels are kept in the first column, optionally with a
// colon added. Instructions are looked up in the opcode
// table and written with their operand in traditional
// number syntax:
//
//	loop    lda.dx 00:10 ; load
//
// becomes
//
//	loop            lda $0010,x ; load
package typist

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/scotws/type65conv/internal/mnemonic"
	"github.com/scotws/type65conv/internal/opcodes"
)

// OpcodeColumn is the column at which
// instructions are written.
const OpcodeColumn = 16

var opcodeIndent = strings.Repeat(" ", OpcodeColumn)

// Options control the style of the
// converted source.
type Options struct {
	UpperOpcodes bool // Write opcodes in upper case.
	LabelColon   bool // Add a colon after each label.
	Workers      int  // Maximum concurrent conversions; zero means GOMAXPROCS.
}

// UnknownInstructionError indicates a line
// whose first word is neither a directive
// nor a known mnemonic.
type UnknownInstructionError struct {
	Pos  mnemonic.Position
	Word string
}

func (err *UnknownInstructionError) Error() string {
	return fmt.Sprintf("%sunrecognised instruction %q", err.Pos.Prefix(), err.Word)
}

// MissingOperandError indicates an instruction
// that takes an operand but was given none.
type MissingOperandError struct {
	Pos      mnemonic.Position
	Mnemonic string
}

func (err *MissingOperandError) Error() string {
	return fmt.Sprintf("%s%s requires an operand", err.Pos.Prefix(), err.Mnemonic)
}

// Converter rewrites source lines. It is
// safe for concurrent use.
type Converter struct {
	table *opcodes.Table
	opts  Options
}

// NewConverter returns a converter using
// the given opcode table.
func NewConverter(table *opcodes.Table, opts Options) *Converter {
	return &Converter{table: table, opts: opts}
}

// convertNumber rewrites an operand into
// traditional number syntax. Separators
// are removed, '&' marks a decimal number,
// and anything that parses as hexadecimal
// is treated as a hex number. Everything
// else is assumed to be a symbol.
func convertNumber(s string) string {
	s = stripSeparators(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "%"), strings.HasPrefix(s, "$"):
		return s
	case strings.HasPrefix(s, "&"):
		return strings.TrimPrefix(s, "&")
	case strings.HasPrefix(s, "0x"):
		return "$" + strings.TrimPrefix(s, "0x")
	}

	// Note that this means words like
	// "dead" are treated as numbers.
	if _, err := strconv.ParseUint(s, 16, 32); err == nil {
		return "$" + s
	}

	return s
}

// stripSeparators removes the ':' and '.'
// separators allowed in numbers.
func stripSeparators(s string) string {
	return strings.NewReplacer(":", "", ".", "").Replace(s)
}

// upperFirstWord returns s with its first
// word in upper case.
func upperFirstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}

	return strings.Replace(s, fields[0], strings.ToUpper(fields[0]), 1)
}

// hasLabel returns whether s starts with
// a label, which is any line not starting
// with whitespace. Comments and blank
// lines must be checked first.
func hasLabel(s string) bool {
	return s != "" && !strings.HasPrefix(s, " ") && !strings.HasPrefix(s, "\t")
}

func isComment(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), ";")
}

func isDirective(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), ".")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// replaceLabel replaces the label at the
// start of line, keeping the rest of the
// line in place where possible.
func replaceLabel(line, label string) string {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return label
	}

	old, rest := line[:i], line[i:]
	for extra := len(label) - len(old); extra > 0 && strings.HasPrefix(rest, "  "); extra-- {
		rest = rest[1:]
	}

	return label + rest
}

func (c *Converter) isOpcode(word string) bool {
	_, ok := c.table.Lookup(word)
	return ok
}

// ConvertLine rewrites a single line.
func (c *Converter) ConvertLine(pos mnemonic.Position, line string) (string, error) {
	if isComment(line) || isBlank(line) {
		return line, nil
	}

	payload := line
	label := ""
	if hasLabel(line) {
		fields := strings.Fields(line)
		label = fields[0]
		if c.opts.LabelColon && !strings.HasSuffix(label, ":") {
			label += ":"
		}

		if len(fields) == 1 {
			return label, nil
		}

		if isComment(fields[1]) {
			return replaceLabel(line, label), nil
		}

		payload = strings.TrimPrefix(line, fields[0])
	}

	code, comment, hasComment := strings.Cut(strings.TrimSpace(payload), ";")
	words := strings.Fields(code)
	if len(words) == 0 {
		return line, nil
	}

	first := words[0]

	var converted string
	switch {
	case isDirective(first):
		// Directives vary too much between
		// assemblers to translate.
		converted = payload
	case c.isOpcode(first):
		entry, _ := c.table.Lookup(first)
		oldmnem := entry.OldMnem
		if c.opts.UpperOpcodes {
			oldmnem = upperFirstWord(oldmnem)
		}

		if strings.Contains(oldmnem, mnemonic.Placeholder) {
			if len(words) < 2 {
				return "", &MissingOperandError{Pos: pos, Mnemonic: first}
			}

			oldmnem = strings.ReplaceAll(oldmnem, mnemonic.Placeholder, convertNumber(words[1]))
		}

		converted = opcodeIndent + oldmnem
		if hasComment {
			converted += " ; " + strings.TrimSpace(comment)
		}
	default:
		return "", &UnknownInstructionError{Pos: pos, Word: first}
	}

	if label == "" {
		return converted, nil
	}

	padding := OpcodeColumn - len(label)
	if padding < 1 {
		padding = 1
	}

	return label + strings.Repeat(" ", padding) + strings.TrimSpace(converted), nil
}

// Convert rewrites every line of a source
// file, converting lines concurrently. The
// name is used only in error messages.
//
// If any lines cannot be converted, the
// error for the first is returned.
func (c *Converter) Convert(ctx context.Context, name string, lines []string) ([]string, error) {
	workers := c.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]string, len(lines))
	errs := make([]error, len(lines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			out[i], errs[i] = c.ConvertLine(mnemonic.Position{File: name, Line: i + 1}, line)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

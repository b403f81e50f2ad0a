// Copyright 2026 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package mnemonic converts tables of 65C02 and 65816
// mnemonics in Typist's Assembler Notation into their
// traditional syntax.
//
// A table has one instruction per line, consisting of
// a dotted mnemonic and the instruction's size in bytes:
//
//	lda.dx 2
//	jmp.l 4
//	tax 1
//
// The part of the mnemonic after the first dot is the
// addressing-mode suffix, which selects the operand
// template used in traditional syntax. For example,
// "lda.dx" with size 2 becomes "lda ?,x", where '?'
// marks the operand.
package mnemonic

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Record is one line of a mnemonic table.
type Record struct {
	Pos      Position
	Mnemonic string // The dotted mnemonic, such as "lda.dx".
	Size     int    // Instruction length in bytes.
}

// Split separates a dotted mnemonic into its
// base and its addressing-mode suffix, at
// the first dot. If there is no dot, the
// suffix is empty.
func Split(mnemonic string) (base, suffix string) {
	base, suffix, _ = strings.Cut(mnemonic, ".")
	return base, suffix
}

// ParseLine parses a single line of a
// mnemonic table.
func ParseLine(pos Position, line string) (*Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return nil, &MalformedLineError{Pos: pos, Text: line}
	}

	mnemonic, sizeText := fields[0], fields[1]
	if base, _ := Split(mnemonic); base == "" {
		return nil, &MalformedLineError{Pos: pos, Text: line}
	}

	size, err := strconv.Atoi(sizeText)
	if err != nil || size <= 0 {
		return nil, &InvalidSizeError{Pos: pos, Mnemonic: mnemonic, Size: sizeText}
	}

	rec := &Record{
		Pos:      pos,
		Mnemonic: mnemonic,
		Size:     size,
	}

	return rec, nil
}

// Parse reads a complete mnemonic table. The
// name is used only in error messages.
//
// Blank lines are skipped. Any other line
// that cannot be parsed aborts the parse.
func Parse(name string, r io.Reader) ([]*Record, error) {
	var records []*Record
	s := bufio.NewScanner(r)
	for line := 1; s.Scan(); line++ {
		text := s.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		rec, err := ParseLine(Position{File: name, Line: line}, text)
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	if err := s.Err(); err != nil {
		return nil, &IOError{Op: "read", Path: name, Err: err}
	}

	return records, nil
}

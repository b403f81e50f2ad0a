// Copyright 2026 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package mnemonic

import (
	"fmt"
	"strconv"
)

// Position describes a line in a
// mnemonic table.
type Position struct {
	File string // May be empty.
	Line int    // Starts from 1.
}

// IsValid returns whether p has a line
// number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	switch {
	case p.File != "" && p.IsValid():
		return p.File + ":" + strconv.Itoa(p.Line)
	case p.File != "":
		return p.File
	case p.IsValid():
		return "line " + strconv.Itoa(p.Line)
	default:
		return ""
	}
}

// Prefix returns the position in the form
// used at the start of error messages, or
// an empty string if p is empty.
func (p Position) Prefix() string {
	s := p.String()
	if s == "" {
		return ""
	}

	return s + ": "
}

// MalformedLineError indicates a line that
// does not consist of exactly one mnemonic
// and one size.
type MalformedLineError struct {
	Pos  Position
	Text string // The offending line.
}

func (err *MalformedLineError) Error() string {
	return fmt.Sprintf("%smalformed line %q: want \"<mnemonic> <size>\"", err.Pos.Prefix(), err.Text)
}

// InvalidSizeError indicates a size that
// is not a positive decimal integer.
type InvalidSizeError struct {
	Pos      Position
	Mnemonic string
	Size     string
}

func (err *InvalidSizeError) Error() string {
	return fmt.Sprintf("%sinvalid size %q for %s: want a positive integer", err.Pos.Prefix(), err.Size, err.Mnemonic)
}

// UnknownSuffixError indicates a mnemonic
// whose addressing-mode suffix has no
// operand template.
type UnknownSuffixError struct {
	Pos      Position
	Mnemonic string
	Suffix   string
}

func (err *UnknownSuffixError) Error() string {
	return fmt.Sprintf("%sunknown addressing-mode suffix %q in %q", err.Pos.Prefix(), err.Suffix, err.Mnemonic)
}

// DuplicateMnemonicError indicates a mnemonic
// that appears more than once in a table.
type DuplicateMnemonicError struct {
	Pos      Position
	Mnemonic string
	First    Position // Where the mnemonic was first seen.
}

func (err *DuplicateMnemonicError) Error() string {
	if err.First.IsValid() {
		return fmt.Sprintf("%sduplicate mnemonic %q (previously declared at line %d)", err.Pos.Prefix(), err.Mnemonic, err.First.Line)
	}

	return fmt.Sprintf("%sduplicate mnemonic %q", err.Pos.Prefix(), err.Mnemonic)
}

// IOError indicates a failure to read the
// source table or to write the result.
type IOError struct {
	Op   string // "read", "write", etc.
	Path string
	Err  error
}

func (err *IOError) Error() string {
	return fmt.Sprintf("failed to %s %q: %v", err.Op, err.Path, err.Err)
}

func (err *IOError) Unwrap() error {
	return err.Err
}

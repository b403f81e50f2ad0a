// Copyright 2026 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package opcodes reads and writes the opcode table used
// to translate Typist's Assembler Notation into the
// traditional syntax.
//
// The table is a JSON object with a single key, "table",
// mapping each dotted mnemonic to its traditional form
// and size in bytes:
//
//	{
//	        "table": {
//	                "lda.dx": {
//	                        "oldmnem": "lda ?,x",
//	                        "size": 2
//	                }
//	        }
//	}
//
// Entries keep the order in which they were added or
// read.
package opcodes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Indent is the unit of indentation used
// when writing a table.
const Indent = "        "

// Entry describes a single instruction.
type Entry struct {
	Mnemonic string // The dotted mnemonic, such as "lda.dx".
	OldMnem  string // The traditional form, with '?' for the operand.
	Size     int    // Instruction length in bytes.
}

type jsonEntry struct {
	OldMnem string `json:"oldmnem"`
	Size    int    `json:"size"`
}

// Table is an ordered set of entries, keyed
// by mnemonic.
//
// The zero value is an empty table ready
// to use.
type Table struct {
	entries []*Entry
	index   map[string]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Add appends an entry to the table. It is
// an error to add the same mnemonic twice.
func (t *Table) Add(e *Entry) error {
	if t.index == nil {
		t.index = make(map[string]int)
	}

	if _, ok := t.index[e.Mnemonic]; ok {
		return fmt.Errorf("duplicate mnemonic %q", e.Mnemonic)
	}

	t.index[e.Mnemonic] = len(t.entries)
	t.entries = append(t.entries, e)

	return nil
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the entries in order.
func (t *Table) Entries() []*Entry {
	return append([]*Entry(nil), t.entries...)
}

// Lookup returns the entry for the given
// dotted mnemonic.
func (t *Table) Lookup(mnemonic string) (*Entry, bool) {
	i, ok := t.index[mnemonic]
	if !ok {
		return nil, false
	}

	return t.entries[i], true
}

// encodeCompact appends the JSON encoding of v
// to buf, without escaping HTML characters.
func encodeCompact(buf *bytes.Buffer, v any) error {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}

	buf.Write(bytes.TrimSuffix(b.Bytes(), []byte("\n")))

	return nil
}

func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"table":{`)
	for i, e := range t.entries {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := encodeCompact(&buf, e.Mnemonic); err != nil {
			return nil, err
		}

		buf.WriteByte(':')
		j := jsonEntry{
			OldMnem: e.OldMnem,
			Size:    e.Size,
		}

		if err := encodeCompact(&buf, j); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %v", e.Mnemonic, err)
		}
	}

	buf.WriteString(`}}`)

	return buf.Bytes(), nil
}

var errMissingTable = errors.New(`missing "table" object`)

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if got, ok := tok.(json.Delim); !ok || got != want {
		return fmt.Errorf("found %v, expected %q", tok, want)
	}

	return nil
}

func (t *Table) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	table := NewTable()
	found := false
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		// Keys are always strings.
		key := tok.(string)
		if key != "table" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}

			continue
		}

		if found {
			return errors.New(`duplicate "table" object`)
		}

		found = true
		if err := table.decodeEntries(dec); err != nil {
			return err
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	if !found {
		return errMissingTable
	}

	*t = *table

	return nil
}

func (t *Table) decodeEntries(dec *json.Decoder) error {
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf(`invalid "table": %v`, err)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		mnemonic := tok.(string)
		var j jsonEntry
		if err := dec.Decode(&j); err != nil {
			return fmt.Errorf("invalid entry for %s: %v", mnemonic, err)
		}

		if mnemonic == "" {
			return errors.New("entry has empty mnemonic")
		}

		if j.OldMnem == "" {
			return fmt.Errorf("entry for %s has no oldmnem", mnemonic)
		}

		if j.Size <= 0 {
			return fmt.Errorf("entry for %s has invalid size %d", mnemonic, j.Size)
		}

		err = t.Add(&Entry{Mnemonic: mnemonic, OldMnem: j.OldMnem, Size: j.Size})
		if err != nil {
			return err
		}
	}

	return expectDelim(dec, '}')
}

// Write writes the table to w, indented
// with 8-space units and terminated by a
// newline.
func Write(w io.Writer, t *Table) error {
	data, err := t.MarshalJSON()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = json.Indent(&buf, data, "", Indent)
	if err != nil {
		return err
	}

	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())

	return err
}

// Read reads a table written by Write.
func Read(r io.Reader) (*Table, error) {
	var t Table
	dec := json.NewDecoder(r)
	if err := dec.Decode(&t); err != nil {
		return nil, err
	}

	return &t, nil
}

// Copyright 2026 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package mnemonic

// Placeholder marks where the operand is
// written in an operand template.
const Placeholder = "?"

// defaultTemplates maps each addressing-mode
// suffix to the operand template used in
// traditional syntax.
var defaultTemplates = map[string]string{
	"":     "?",
	"#":    "#?",
	"a":    "a",
	"d":    "?",
	"di":   "(?)",
	"dil":  "[?]",
	"dily": "[?],y",
	"diy":  "(?),y",
	"dx":   "?,x",
	"dy":   "?,y",
	"dxi":  "(?,x)",
	"i":    "(?)",
	"il":   "[?]",
	"l":    "?",
	"lx":   "?,x",
	"r":    "?",
	"s":    "?,s",
	"siy":  "(?,s),y",
	"x":    "?,x",
	"xi":   "(?,x)",
	"y":    "?,y",
	"z":    "?",
	"zi":   "(?)",
	"ziy":  "(?),y",
	"zx":   "?,x",
	"zxi":  "(?,x)",
	"zy":   "?,y",
}

// defaultSpecialCases maps dotted mnemonics
// to the traditional base mnemonic, where
// the two differ irregularly.
var defaultSpecialCases = map[string]string{
	"bra.l": "brl",
	"jmp.l": "jml",
	"jsr.l": "jsl",
	"phe.#": "pea",
	"phe.d": "pei",
	"phe.r": "per",
	"rts.l": "rtl",
}

// Override replaces the operand template
// for one mnemonic after the general
// suffix rule has been applied.
//
// An empty Template means the instruction
// is written with no operand.
type Override struct {
	Mnemonic string `toml:"mnemonic" yaml:"mnemonic"`
	Template string `toml:"template" yaml:"template"`
}

var defaultOverrides = []Override{
	// PEA takes an immediate, but is
	// written without the '#'.
	{Mnemonic: "phe.#", Template: "?"},
	// RTL takes no operand.
	{Mnemonic: "rts.l", Template: ""},
}

// DefaultTemplates returns a copy of the
// built-in suffix to template table.
func DefaultTemplates() map[string]string {
	return copyMap(defaultTemplates)
}

// DefaultSpecialCases returns a copy of the
// built-in special-case table.
func DefaultSpecialCases() map[string]string {
	return copyMap(defaultSpecialCases)
}

// DefaultOverrides returns a copy of the
// built-in override rules, in the order
// they are applied.
func DefaultOverrides() []Override {
	return append([]Override(nil), defaultOverrides...)
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

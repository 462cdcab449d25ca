package core

import (
	"fmt"
	"strings"
)

// Token maps one protocol value to its printable label.
type Token struct {
	Value uint32
	Label string
}

// Tokens is an ordered value→label table. Order matters for bit rendering.
type Tokens []Token

// Lookup returns the label for v, or def formatted with v when def holds a verb.
func (t Tokens) Lookup(v uint32, def string) string {
	for _, tok := range t {
		if tok.Value == v {
			return tok.Label
		}
	}
	return formatDefault(def, v)
}

// Has reports whether v has a label.
func (t Tokens) Has(v uint32) bool {
	for _, tok := range t {
		if tok.Value == v {
			return true
		}
	}
	return false
}

// Find returns the value labelled label, ignoring case.
func (t Tokens) Find(label string) (uint32, bool) {
	for _, tok := range t {
		if strings.EqualFold(tok.Label, label) {
			return tok.Value, true
		}
	}
	return 0, false
}

// Bits renders every set flag of v, in table order, joined with ", ".
// When no flag matches, def is returned (formatted with v if it holds a verb).
func (t Tokens) Bits(v uint32, def string) string {
	var labels []string
	for _, tok := range t {
		if tok.Value != 0 && v&tok.Value == tok.Value {
			labels = append(labels, tok.Label)
		}
	}
	if len(labels) == 0 {
		return formatDefault(def, v)
	}
	return strings.Join(labels, ", ")
}

func formatDefault(def string, v uint32) string {
	if strings.Contains(def, "%") {
		return fmt.Sprintf(def, v)
	}
	return def
}

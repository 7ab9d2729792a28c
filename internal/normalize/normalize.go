// Package normalize implements the line sanitization rules shared by the
// load and rewrite paths.
package normalize

import (
	"strings"

	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

// Normalizer splits raw source lines on a literal separator token and
// cleans each field. The zero value is not usable; construct with New.
//
// The separator is treated as an opaque byte sequence, never as a CSV
// dialect: it splits unconditionally, including inside quoted regions.
// Quote characters only matter at field boundaries, where at most one
// leading and one trailing occurrence is removed.
type Normalizer struct {
	separator string
	quote     string
}

// New creates a Normalizer for the given separator token and quote
// character. An empty quote disables quote stripping entirely.
func New(separator, quote string) *Normalizer {
	if separator == "" {
		panic("normalize: separator must not be empty")
	}
	return &Normalizer{
		separator: separator,
		quote:     quote,
	}
}

// Split breaks a raw line into a record.
//
// The line is split on every occurrence of the separator token, then
// each piece is cleaned by Field. An empty line yields a record with a
// single empty field, matching the shape a one-column source produces.
func (n *Normalizer) Split(line string) sanitize.Record {
	parts := strings.Split(line, n.separator)
	rec := make(sanitize.Record, len(parts))
	for i, p := range parts {
		rec[i] = n.Field(p)
	}
	return rec
}

// Field cleans one raw field:
//
//  1. Trim surrounding whitespace.
//  2. Strip at most one leading and at most one trailing quote
//     character. The two sides are independent: a trailing quote is
//     stripped even when no leading quote exists.
//  3. Trim whitespace again, so values like `" hello "` become `hello`.
//
// Quote characters anywhere else in the field are preserved.
func (n *Normalizer) Field(raw string) string {
	s := strings.TrimSpace(raw)
	if n.quote != "" {
		s = strings.TrimPrefix(s, n.quote)
		s = strings.TrimSuffix(s, n.quote)
	}
	return strings.TrimSpace(s)
}

// Canonical renders a record in canonical output form: every field
// wrapped in the quote character and joined with a single pipe, as in
// "f1"|"f2"|"f3".
//
// Quote characters still embedded in a field are removed rather than
// escaped, so the output never contains a quote that is not a field
// boundary. With quoting disabled the fields are joined bare.
func (n *Normalizer) Canonical(rec sanitize.Record) string {
	var b strings.Builder
	for i, f := range rec {
		if i > 0 {
			b.WriteByte('|')
		}
		if n.quote != "" {
			f = strings.ReplaceAll(f, n.quote, "")
		}
		b.WriteString(n.quote)
		b.WriteString(f)
		b.WriteString(n.quote)
	}
	return b.String()
}

// Package format detects the layout of JSON text and writes values back out
// in that layout.
//
// Detect records the indentation unit and line-break sequence of a parsed
// document; Marshal lays a value out the way JSON.stringify(v, null, indent)
// does, with the detected line break. Text produced by JSON.stringify
// round-trips byte for byte.
package format

import (
	"regexp"

	"github.com/lattice-substrate/jsonparse/jsonvalue"
)

// DefaultIndent is the indent reported for an empty object or array, which
// has no member lines to measure.
const DefaultIndent = "  "

var (
	newlineRun = regexp.MustCompile(`(?:\r?\n)+`)
	firstLine  = regexp.MustCompile(`^\s*[{\[]((?:\r?\n)+)([ \t]*)`)
)

// Detect returns the layout of text, the source of the parsed value v.
//
// Newline is the first run of line breaks found anywhere in text, or "" if
// there is none. Indent is the whitespace that opens the first member line;
// it is "" for single-line text and DefaultIndent when v is an empty
// composite.
func Detect(text string, v any) jsonvalue.Format {
	var f jsonvalue.Format
	if loc := newlineRun.FindStringIndex(text); loc != nil {
		f.Newline = text[loc[0]:loc[1]]
	}
	if isEmptyComposite(v) {
		f.Indent = DefaultIndent
		return f
	}
	if m := firstLine.FindStringSubmatch(text); m != nil {
		f.Indent = m[2]
	}
	return f
}

func isEmptyComposite(v any) bool {
	switch c := v.(type) {
	case *jsonvalue.Object:
		return c != nil && c.Len() == 0
	case *jsonvalue.Array:
		return c != nil && c.Len() == 0
	}
	return false
}

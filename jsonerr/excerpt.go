package jsonerr

import (
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/lattice-substrate/jsonparse/diag"
)

// Excerpt renders the text around the failure on one line and a caret under
// the failing character on the next. Line breaks and tabs in the excerpt are
// shown as spaces so the caret stays aligned; wide characters count double.
// With colored set the caret is written in bold red.
func (e *Error) Excerpt(colored bool) string {
	w := diag.Extract(e.text, e.position, e.window)

	lead := ""
	if w.TruncatedStart {
		lead = "..."
	}
	runes := []rune(w.Text)
	before := lead + flatten(string(runes[:e.position-w.Start]))
	line := lead + flatten(w.Text)
	if w.TruncatedEnd {
		line += "..."
	}

	caret := "^"
	if colored {
		c := color.New(color.FgRed, color.Bold)
		c.EnableColor()
		caret = c.Sprint("^")
	}
	return line + "\n" + strings.Repeat(" ", runewidth.StringWidth(before)) + caret
}

func flatten(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t', '\f', '\v':
			return ' '
		}
		return r
	}, s)
}

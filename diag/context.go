package diag

import (
	"github.com/lattice-substrate/jsonparse/internal/jsonstr"
)

// DefaultWindow is the number of characters shown on each side of a failure.
const DefaultWindow = 20

const ellipsis = "..."

// Window is the excerpt of the text around a failure position. Start and End
// are character (rune) positions.
type Window struct {
	Start          int
	End            int
	Text           string
	TruncatedStart bool
	TruncatedEnd   bool
}

// String returns the excerpt with "..." on each clipped side.
func (w Window) String() string {
	s := w.Text
	if w.TruncatedStart {
		s = ellipsis + s
	}
	if w.TruncatedEnd {
		s += ellipsis
	}
	return s
}

// Extract returns the window of up to size characters on each side of the
// character position pos. A non-positive size selects DefaultWindow.
func Extract(text string, pos, size int) Window {
	if size <= 0 {
		size = DefaultWindow
	}
	runes := []rune(text)
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}

	start := 0
	if pos > size {
		start = pos - size
	}
	end := len(runes)
	if pos+size < len(runes) {
		end = pos + size
	}
	return Window{
		Start:          start,
		End:            end,
		Text:           string(runes[start:end]),
		TruncatedStart: start > 0,
		TruncatedEnd:   end < len(runes),
	}
}

// Phrase describes where parsing failed, for example
// `while parsing near "...{\"a\":1,\"b..."`. When the position is not known
// the first 2*size characters are shown in single quotes instead.
func Phrase(text string, pos int, known bool, size int) string {
	if text == "" {
		return "while parsing empty string"
	}
	if size <= 0 {
		size = DefaultWindow
	}
	if !known {
		runes := []rune(text)
		if len(runes) > 2*size {
			runes = runes[:2*size]
		}
		return "while parsing '" + string(runes) + "'"
	}

	excerpt := Extract(text, pos, size).String()
	if excerpt == text {
		return "while parsing " + jsonstr.Quote(excerpt)
	}
	return "while parsing near " + jsonstr.Quote(excerpt)
}

package diag_test

import (
	"strings"
	"testing"

	"github.com/lattice-substrate/jsonparse/diag"
)

func TestExtract(t *testing.T) {
	text := "0123456789abcdefghij"
	cases := []struct {
		pos, size int
		want      diag.Window
	}{
		{0, 3, diag.Window{Start: 0, End: 3, Text: "012", TruncatedEnd: true}},
		{10, 3, diag.Window{Start: 7, End: 13, Text: "789abc", TruncatedStart: true, TruncatedEnd: true}},
		{20, 3, diag.Window{Start: 17, End: 20, Text: "hij", TruncatedStart: true}},
		{5, 0, diag.Window{Start: 0, End: 20, Text: text}},
		{-4, 2, diag.Window{Start: 0, End: 2, Text: "01", TruncatedEnd: true}},
	}
	for _, tc := range cases {
		if got := diag.Extract(text, tc.pos, tc.size); got != tc.want {
			t.Errorf("Extract(%d, %d) = %+v, want %+v", tc.pos, tc.size, got, tc.want)
		}
	}
}

func TestWindowString(t *testing.T) {
	w := diag.Window{Text: "mid", TruncatedStart: true, TruncatedEnd: true}
	if got := w.String(); got != "...mid..." {
		t.Fatalf("String() = %q", got)
	}
}

func TestPhrase(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		pos   int
		known bool
		size  int
		want  string
	}{
		{"empty", "", 0, true, 0, "while parsing empty string"},
		{"whole text", "foo", 1, true, 0, `while parsing "foo"`},
		{"escaped whole text", `{"foo: bar}`, 11, true, 0, `while parsing "{\"foo: bar}"`},
		{"limited start", `{"6543210`, 9, true, 3, `while parsing near "...210"`},
		{"limited end", "abcde", 0, true, 2, `while parsing near "ab..."`},
		{"interior", "abcdefghij", 5, true, 2, `while parsing near "...defg..."`},
		{"unknown position", "this is some json", 0, false, 0, "while parsing 'this is some json'"},
		{"unknown position clipped", "abcdefgh", 0, false, 2, "while parsing 'abcd'"},
		{"control characters", "{}\b\b", 2, true, 0, `while parsing "{}\b\b"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := diag.Phrase(tc.text, tc.pos, tc.known, tc.size); got != tc.want {
				t.Fatalf("Phrase = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestPhraseIsBounded(t *testing.T) {
	text := strings.Repeat("x", 1000)
	for _, pos := range []int{0, 1, 500, 999, 1000} {
		p := diag.Phrase(text, pos, true, 20)
		// "while parsing near " + quotes + two ellipses + 40 characters
		if len(p) > len("while parsing near ")+2+6+40 {
			t.Fatalf("phrase for pos %d too long: %d bytes", pos, len(p))
		}
	}
}

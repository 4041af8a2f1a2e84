package jsonerr

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/lattice-substrate/jsonparse/internal/jsonstr"
)

// Kind is a stable classification of a grammar failure.
type Kind string

const (
	UnexpectedToken     Kind = "UNEXPECTED_TOKEN"
	UnexpectedNumber    Kind = "UNEXPECTED_NUMBER"
	UnexpectedString    Kind = "UNEXPECTED_STRING"
	UnexpectedEnd       Kind = "UNEXPECTED_END"
	UnterminatedString  Kind = "UNTERMINATED_STRING"
	ExpectedToken       Kind = "EXPECTED_TOKEN"
	BadControlCharacter Kind = "BAD_CONTROL_CHARACTER"
	BadEscape           Kind = "BAD_ESCAPE"
	BadNumber           Kind = "BAD_NUMBER"
	LimitExceeded       Kind = "LIMIT_EXCEEDED"
	Unknown             Kind = "UNKNOWN"
)

// rule maps a failure message pattern to a Kind. rewrite, when set, returns
// the message to use instead of the original.
type rule struct {
	pattern *regexp.Regexp
	kind    Kind
	rewrite func(msg string, m []int) string
}

// rules is evaluated top-down; the first match wins. Anchored prefixes come
// before free-text patterns, which could match quoted source text. Patterns cover the
// wording of ECMAScript engines old and new, encoding/json, goccy/go-json and
// json-iterator.
var rules = []rule{
	{pattern: regexp.MustCompile(`(?i)^Unexpected token '?(.)'?(,)? `), kind: UnexpectedToken, rewrite: quoteToken},
	{pattern: regexp.MustCompile(`(?i)exceeds? (?:the )?maximum|max(?:imum)? depth`), kind: LimitExceeded},
	{pattern: regexp.MustCompile(`(?i)unterminated string|string literal not terminated`), kind: UnterminatedString},
	{pattern: regexp.MustCompile(`(?i)end of (?:JSON )?input|unexpected EOF|^EOF$`), kind: UnexpectedEnd},
	{pattern: regexp.MustCompile(`(?i)^Unexpected number`), kind: UnexpectedNumber},
	{pattern: regexp.MustCompile(`(?i)^Unexpected string`), kind: UnexpectedString},
	{pattern: regexp.MustCompile(`(?i)control character|in string literal`), kind: BadControlCharacter},
	{pattern: regexp.MustCompile(`(?i)escape`), kind: BadEscape},
	{pattern: regexp.MustCompile(`(?i)numeric literal|number|exponent|fractional|decimal point`), kind: BadNumber},
	{pattern: regexp.MustCompile(`(?i)\bexpect(?:ed)?\b|looking for beginning of object key|after object key|after array element`), kind: ExpectedToken},
	{pattern: regexp.MustCompile(`(?i)invalid character|unexpected|after top-level value`), kind: UnexpectedToken},
}

func classify(msg string) (Kind, string) {
	if msg == "" {
		return Unknown, msg
	}
	for _, r := range rules {
		m := r.pattern.FindStringSubmatchIndex(msg)
		if m == nil {
			continue
		}
		if r.rewrite != nil {
			msg = r.rewrite(msg, m)
		}
		return r.kind, msg
	}
	return Unknown, msg
}

// quoteToken turns "Unexpected token o in JSON" into
// `Unexpected token "o" (0x6F) in JSON`.
func quoteToken(msg string, m []int) string {
	token := msg[m[2]:m[3]]
	comma := ""
	if m[4] >= 0 {
		comma = msg[m[4]:m[5]]
	}
	return "Unexpected token " + jsonstr.Quote(token) + " (" + hexify(token) + ")" + comma + " " + msg[m[1]:]
}

// hexify formats the first UTF-16 code unit of s as 0xHH or 0xHHHH.
func hexify(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	unit := r
	if r > 0xFFFF {
		unit, _ = utf16.EncodeRune(r)
	}
	h := strings.ToUpper(strconv.FormatInt(int64(unit), 16))
	if len(h)%2 == 1 {
		h = "0" + h
	}
	return "0x" + h
}

// describe names the dynamic type of a value that is not JSON text.
func describe(input any) string {
	if input == nil {
		return "undefined"
	}
	v := reflect.ValueOf(input)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "an empty array"
		}
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			return "nil " + v.Type().String()
		}
	}
	return v.Type().String()
}

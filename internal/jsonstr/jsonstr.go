// Package jsonstr quotes Go strings as JSON string literals using the same
// escaping rules as ECMAScript's JSON.stringify.
package jsonstr

import "unicode/utf8"

// Quote returns s as a double-quoted JSON string literal.
func Quote(s string) string {
	return string(Append(make([]byte, 0, len(s)+2), s))
}

// Append appends the JSON string literal for s to buf:
//   - " → \"
//   - \ → \\
//   - U+0008 → \b, U+0009 → \t, U+000A → \n, U+000C → \f, U+000D → \r
//   - other control chars U+0000-U+001F → \u00xx (lowercase hex)
//   - everything else is copied as raw UTF-8
//
// Bytes that are not valid UTF-8 are written as U+FFFD.
func Append(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); {
		b := s[i]
		switch {
		case b == '"':
			buf = append(buf, '\\', '"')
			i++
		case b == '\\':
			buf = append(buf, '\\', '\\')
			i++
		case b == '\b':
			buf = append(buf, '\\', 'b')
			i++
		case b == '\t':
			buf = append(buf, '\\', 't')
			i++
		case b == '\n':
			buf = append(buf, '\\', 'n')
			i++
		case b == '\f':
			buf = append(buf, '\\', 'f')
			i++
		case b == '\r':
			buf = append(buf, '\\', 'r')
			i++
		case b < 0x20:
			buf = append(buf, '\\', 'u', '0', '0', hexDigit(b>>4), hexDigit(b&0x0F))
			i++
		case b < utf8.RuneSelf:
			buf = append(buf, b)
			i++
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size <= 1 {
				buf = append(buf, "\uFFFD"...)
				i++
				continue
			}
			buf = append(buf, s[i:i+size]...)
			i += size
		}
	}
	return append(buf, '"')
}

func hexDigit(b byte) byte {
	if b < 10 {
		return '0' + b
	}
	return 'a' + (b - 10)
}

package engine

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/lattice-substrate/jsonparse/jsonvalue"
)

// SyntaxError is returned by the strict engine. Msg uses the same wording
// as ECMAScript's JSON.parse so that callers matching on that wording keep
// working.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return e.Msg
}

// ByteOffset returns the byte offset at which parsing failed.
func (e *SyntaxError) ByteOffset() int {
	return e.Offset
}

// Strict is the hand-written RFC 8259 parser. Duplicate member names are
// accepted (the last value wins, the first position is kept), lone surrogate
// escapes decode to U+FFFD, and numbers keep their literal text.
type Strict struct {
	maxDepth     int
	maxInputSize int
}

// NewStrict returns a strict engine bounded by opts.
func NewStrict(opts *Options) *Strict {
	return &Strict{maxDepth: opts.maxDepth(), maxInputSize: opts.maxInputSize()}
}

// Name implements Engine.
func (s *Strict) Name() string { return NameStrict }

// parser holds the state for parsing.
type parser struct {
	data     string
	pos      int
	depth    int
	maxDepth int
}

// Parse implements Engine.
func (s *Strict) Parse(text string) (any, error) {
	if len(text) > s.maxInputSize {
		return nil, &SyntaxError{
			Offset: 0,
			Msg:    fmt.Sprintf("Input size %d exceeds maximum %d", len(text), s.maxInputSize),
		}
	}

	p := &parser{data: text, maxDepth: s.maxDepth}

	p.skipWhitespace()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.pos != len(p.data) {
		return nil, p.unexpected()
	}
	return v, nil
}

func (p *parser) errorf(pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Offset: pos,
		Msg:    fmt.Sprintf(format, args...) + fmt.Sprintf(" in JSON at position %d", pos),
	}
}

func (p *parser) endOfInput() *SyntaxError {
	return &SyntaxError{Offset: len(p.data), Msg: "Unexpected end of JSON input"}
}

// unexpected reports whatever sits at the current position.
func (p *parser) unexpected() *SyntaxError {
	if p.pos >= len(p.data) {
		return p.endOfInput()
	}
	c := p.data[p.pos]
	switch {
	case c == '"':
		return p.errorf(p.pos, "Unexpected string")
	case c == '-' || isDigit(c):
		return p.errorf(p.pos, "Unexpected number")
	}
	r, _ := utf8.DecodeRuneInString(p.data[p.pos:])
	return p.errorf(p.pos, "Unexpected token %c", r)
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) pushDepth() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf(p.pos, "Nesting depth %d exceeds maximum %d", p.depth, p.maxDepth)
	}
	return nil
}

func (p *parser) popDepth() {
	p.depth--
}

func (p *parser) parseValue() (any, error) {
	if p.pos >= len(p.data) {
		return nil, p.endOfInput()
	}

	switch c := p.data[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		return p.parseString()
	case c == 't':
		return p.parseLiteral("true", true)
	case c == 'f':
		return p.parseLiteral("false", false)
	case c == 'n':
		return p.parseLiteral("null", nil)
	case c == '-' || isDigit(c):
		return p.parseNumber()
	default:
		return nil, p.unexpected()
	}
}

func (p *parser) parseObject() (any, error) {
	if err := p.pushDepth(); err != nil {
		return nil, err
	}
	defer p.popDepth()

	p.pos++ // '{'
	p.skipWhitespace()

	obj := jsonvalue.NewObject()

	if p.pos >= len(p.data) {
		return nil, p.endOfInput()
	}
	if p.data[p.pos] == '}' {
		p.pos++
		return obj, nil
	}

	expectName := "Expected property name or '}'"
	for {
		if p.pos >= len(p.data) {
			return nil, p.endOfInput()
		}
		if p.data[p.pos] != '"' {
			return nil, p.errorf(p.pos, "%s", expectName)
		}
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}

		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return nil, p.endOfInput()
		}
		if p.data[p.pos] != ':' {
			return nil, p.errorf(p.pos, "Expected ':' after property name")
		}
		p.pos++
		p.skipWhitespace()

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key.(string), val)

		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return nil, p.endOfInput()
		}
		switch p.data[p.pos] {
		case '}':
			p.pos++
			return obj, nil
		case ',':
			p.pos++
			p.skipWhitespace()
			expectName = "Expected double-quoted property name"
		default:
			return nil, p.errorf(p.pos, "Expected ',' or '}' after property value")
		}
	}
}

func (p *parser) parseArray() (any, error) {
	if err := p.pushDepth(); err != nil {
		return nil, err
	}
	defer p.popDepth()

	p.pos++ // '['
	p.skipWhitespace()

	arr := jsonvalue.NewArray()

	if p.pos >= len(p.data) {
		return nil, p.endOfInput()
	}
	if p.data[p.pos] == ']' {
		p.pos++
		return arr, nil
	}

	for {
		p.skipWhitespace()
		elem, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Append(elem)

		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return nil, p.endOfInput()
		}
		switch p.data[p.pos] {
		case ']':
			p.pos++
			return arr, nil
		case ',':
			p.pos++
		default:
			return nil, p.errorf(p.pos, "Expected ',' or ']' after array element")
		}
	}
}

// parseString parses a JSON string starting at the opening quote and decodes
// all escapes.
func (p *parser) parseString() (any, error) {
	p.pos++ // '"'
	start := p.pos

	var buf *strings.Builder
	for {
		if p.pos >= len(p.data) {
			return nil, p.unterminated()
		}
		b := p.data[p.pos]

		switch {
		case b == '"':
			p.pos++
			if buf == nil {
				return p.data[start : p.pos-1], nil
			}
			return buf.String(), nil

		case b == '\\':
			if buf == nil {
				buf = &strings.Builder{}
				buf.WriteString(p.data[start:p.pos])
			}
			p.pos++
			r, err := p.parseEscape()
			if err != nil {
				return nil, err
			}
			buf.WriteRune(r)

		// Control characters U+0000-U+001F must not appear unescaped
		case b < 0x20:
			return nil, p.errorf(p.pos, "Bad control character in string literal")

		default:
			if buf != nil {
				buf.WriteByte(b)
			}
			p.pos++
		}
	}
}

func (p *parser) unterminated() *SyntaxError {
	return p.errorf(len(p.data), "Unterminated string")
}

// parseEscape handles the character after '\'.
func (p *parser) parseEscape() (rune, error) {
	if p.pos >= len(p.data) {
		return 0, p.unterminated()
	}
	b := p.data[p.pos]
	p.pos++

	switch b {
	case '"':
		return '"', nil
	case '\\':
		return '\\', nil
	case '/':
		return '/', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		return p.parseUnicodeEscape()
	default:
		return 0, p.errorf(p.pos-1, "Bad escaped character")
	}
}

// parseUnicodeEscape parses \uXXXX (and \uXXXX\uXXXX for surrogate pairs).
// Unpaired surrogates decode to U+FFFD.
func (p *parser) parseUnicodeEscape() (rune, error) {
	r1, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	if !utf16.IsSurrogate(r1) {
		return r1, nil
	}
	if r1 >= 0xDC00 {
		return utf8.RuneError, nil
	}
	if p.pos+1 >= len(p.data) || p.data[p.pos] != '\\' || p.data[p.pos+1] != 'u' {
		return utf8.RuneError, nil
	}

	save := p.pos
	p.pos += 2
	r2, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	if r2 < 0xDC00 || r2 > 0xDFFF {
		// Leave the second escape to be decoded on its own.
		p.pos = save
		return utf8.RuneError, nil
	}
	return utf16.DecodeRune(r1, r2), nil
}

// readHex4 reads exactly 4 hex digits and returns the rune value.
func (p *parser) readHex4() (rune, error) {
	var r rune
	for i := 0; i < 4; i++ {
		if p.pos >= len(p.data) {
			return 0, p.unterminated()
		}
		c := p.data[p.pos]
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, p.errorf(p.pos, "Bad Unicode escape")
		}
		r = r<<4 | rune(d)
		p.pos++
	}
	return r, nil
}

func (p *parser) parseNumber() (any, error) {
	start := p.pos

	if p.data[p.pos] == '-' {
		p.pos++
	}

	switch {
	case p.pos >= len(p.data):
		return nil, p.errorf(p.pos, "No number after minus sign")
	case p.data[p.pos] == '0':
		// A digit after a leading zero is trailing content.
		p.pos++
	case p.data[p.pos] >= '1' && p.data[p.pos] <= '9':
		p.skipDigits()
	default:
		return nil, p.errorf(p.pos, "No number after minus sign")
	}

	if p.pos < len(p.data) && p.data[p.pos] == '.' {
		p.pos++
		if p.pos >= len(p.data) || !isDigit(p.data[p.pos]) {
			return nil, p.errorf(p.pos, "Unterminated fractional number")
		}
		p.skipDigits()
	}

	if p.pos < len(p.data) && (p.data[p.pos] == 'e' || p.data[p.pos] == 'E') {
		p.pos++
		if p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
			p.pos++
		}
		if p.pos >= len(p.data) || !isDigit(p.data[p.pos]) {
			return nil, p.errorf(p.pos, "Exponent part is missing a number")
		}
		p.skipDigits()
	}

	return jsonvalue.Number(p.data[start:p.pos]), nil
}

func (p *parser) skipDigits() {
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
}

// parseLiteral matches word byte by byte and reports the first mismatch at
// its own position.
func (p *parser) parseLiteral(word string, v any) (any, error) {
	for i := 0; i < len(word); i++ {
		if p.pos >= len(p.data) {
			return nil, p.endOfInput()
		}
		if p.data[p.pos] != word[i] {
			return nil, p.unexpected()
		}
		p.pos++
	}
	return v, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

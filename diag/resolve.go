// Package diag locates grammar failures in the source text and extracts the
// excerpt shown around them.
//
// Grammar engines disagree on how they report a failure: some expose a byte
// offset, some only mention a position, a line/column pair or a snippet in
// their message, and some say nothing. Resolve tries each of these in turn
// and always produces an offset inside the text.
package diag

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
	gojson "github.com/goccy/go-json"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jsonparse.diag")

// Strategy names the rule that produced a Resolution.
type Strategy int

const (
	// StrategyFallback means nothing located the failure; the offset is 0.
	StrategyFallback Strategy = iota
	// StrategyField means the failure value exposed an offset.
	StrategyField
	// StrategyMessage means a positional clause was read from the message.
	StrategyMessage
	// StrategyEndOfInput means the failure reported premature end of input.
	StrategyEndOfInput
)

func (s Strategy) String() string {
	switch s {
	case StrategyField:
		return "field"
	case StrategyMessage:
		return "message"
	case StrategyEndOfInput:
		return "end-of-input"
	default:
		return "fallback"
	}
}

// Resolution is a resolved failure location.
type Resolution struct {
	Offset   int // byte offset into the text, 0 <= Offset <= len(text)
	Strategy Strategy
}

// Known reports whether the offset came from the failure rather than the
// fallback.
func (r Resolution) Known() bool {
	return r.Strategy != StrategyFallback
}

// Resolve returns the most probable byte offset of err within text.
func Resolve(text string, err error) Resolution {
	res := resolve(text, err)
	res.Offset = clamp(text, res.Offset)
	log.Debugf("resolved failure offset %d via %s", res.Offset, res.Strategy)
	return res
}

func resolve(text string, err error) Resolution {
	if err == nil {
		return Resolution{}
	}
	for _, field := range fieldRules {
		if off, ok := field(err); ok {
			return Resolution{Offset: off, Strategy: StrategyField}
		}
	}
	msg := err.Error()
	for _, rule := range messageRules {
		m := rule.pattern.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		if off, ok := rule.offset(text, m); ok {
			return Resolution{Offset: off, Strategy: StrategyMessage}
		}
	}
	if endOfInput.MatchString(msg) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return Resolution{Offset: len(text), Strategy: StrategyEndOfInput}
	}
	return Resolution{}
}

// fieldRules read offsets exposed by the failure value itself, in priority
// order.
var fieldRules = []func(error) (int, bool){
	byteOffsetField,
	stdSyntaxField,
	stdTypeField,
	goccySyntaxField,
}

func byteOffsetField(err error) (int, bool) {
	var bo interface{ ByteOffset() int }
	if errors.As(err, &bo) {
		return bo.ByteOffset(), true
	}
	return 0, false
}

// stdSyntaxField handles encoding/json, whose Offset counts the bytes read so
// far. For "invalid character" failures that includes the offending byte.
func stdSyntaxField(err error) (int, bool) {
	var se *json.SyntaxError
	if !errors.As(err, &se) {
		return 0, false
	}
	off, convErr := safecast.Conv[int](se.Offset)
	if convErr != nil {
		return 0, false
	}
	if off > 0 && strings.HasPrefix(se.Error(), "invalid character") {
		off--
	}
	return off, true
}

func stdTypeField(err error) (int, bool) {
	var te *json.UnmarshalTypeError
	if !errors.As(err, &te) {
		return 0, false
	}
	off, convErr := safecast.Conv[int](te.Offset)
	return off, convErr == nil
}

func goccySyntaxField(err error) (int, bool) {
	var se *gojson.SyntaxError
	if !errors.As(err, &se) {
		return 0, false
	}
	off, convErr := safecast.Conv[int](se.Offset)
	return off, convErr == nil
}

type messageRule struct {
	pattern *regexp.Regexp
	offset  func(text string, m []string) (int, bool)
}

// messageRules read positional clauses from the failure message, most
// specific first.
var messageRules = []messageRule{
	{
		// json-iterator: "..., error found in #10 byte of ...|snippet|..., bigger context ...|...|..."
		pattern: regexp.MustCompile(`(?s)error found in #(\d+) byte of \.\.\.\|(.*?)\|\.\.\., bigger context`),
		offset:  snippetOffset,
	},
	{
		pattern: regexp.MustCompile(`(?i)\bposition\s+(\d+)`),
		offset:  absoluteOffset,
	},
	{
		pattern: regexp.MustCompile(`(?i)\bline\s+(\d+),?\s+column\s+(\d+)`),
		offset:  lineColumnOffset,
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(?:offset|index)\s+(\d+)`),
		offset:  absoluteOffset,
	},
}

var endOfInput = regexp.MustCompile(`(?i)end of (?:JSON )?input|unexpected EOF`)

func absoluteOffset(_ string, m []string) (int, bool) {
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// snippetOffset anchors the quoted snippet in the text and adds the
// snippet-relative offset.
func snippetOffset(text string, m []string) (int, bool) {
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	start := strings.Index(text, m[2])
	if start < 0 {
		return 0, false
	}
	return start + n, true
}

// lineColumnOffset converts a 1-based line and 1-based column (counted in
// characters) to a byte offset. Lines end at '\n'; a preceding '\r' belongs
// to the line break.
func lineColumnOffset(text string, m []string) (int, bool) {
	line, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	col, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}

	off := 0
	for l := 1; l < line; l++ {
		nl := strings.IndexByte(text[off:], '\n')
		if nl < 0 {
			return len(text), true
		}
		off += nl + 1
	}
	for c := 1; c < col && off < len(text); c++ {
		_, size := utf8.DecodeRuneInString(text[off:])
		off += size
	}
	return off, true
}

// clamp bounds off to the text and moves it back to a rune boundary.
func clamp(text string, off int) int {
	if off < 0 {
		return 0
	}
	if off > len(text) {
		return len(text)
	}
	for off > 0 && off < len(text) && !utf8.RuneStart(text[off]) {
		off--
	}
	return off
}

// RuneIndex converts a byte offset into a character (rune) position.
func RuneIndex(text string, off int) int {
	return utf8.RuneCountInString(text[:clamp(text, off)])
}

// ByteIndex converts a character (rune) position into a byte offset. Positions
// past the end map to len(text).
func ByteIndex(text string, pos int) int {
	if pos <= 0 {
		return 0
	}
	i := 0
	for off := range text {
		if i == pos {
			return off
		}
		i++
	}
	return len(text)
}

// Package jsonerr defines the errors returned for JSON text that cannot be
// parsed.
//
// Every grammar failure becomes an *Error: a fixed code and name, a Kind
// classifying the underlying failure, the failure position in characters,
// the original failure, and a message that adds an excerpt of the text.
// Inputs that are not text at all are reported with *TypeError before any
// parsing is attempted.
package jsonerr

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lattice-substrate/jsonparse/diag"
)

// Code is the machine-readable code carried by every error in this package.
const Code = "EJSONPARSE"

// Name is the semantic name of *Error.
const Name = "JSONParseError"

// Error is a diagnostic for JSON text that failed to parse. It is immutable.
type Error struct {
	kind     Kind
	position int
	offset   int
	cause    error
	message  string
	text     string
	window   int
	stack    []runtime.Frame
}

// Error returns the composed message.
func (e *Error) Error() string { return e.message }

// Unwrap returns the original grammar failure.
func (e *Error) Unwrap() error { return e.cause }

// Code returns Code.
func (e *Error) Code() string { return Code }

// Name returns Name. It is a method so that it can never be reassigned.
func (e *Error) Name() string { return Name }

// Kind returns the classification of the underlying failure.
func (e *Error) Kind() Kind { return e.kind }

// Position returns the zero-based character offset of the failure.
func (e *Error) Position() int { return e.position }

// Offset returns the failure position as a byte offset into the text.
func (e *Error) Offset() int { return e.offset }

// SystemError returns the original grammar failure, unmodified.
func (e *Error) SystemError() error { return e.cause }

// Stack returns the call frames captured when the error was built.
func (e *Error) Stack() []runtime.Frame {
	out := make([]runtime.Frame, len(e.stack))
	copy(out, e.stack)
	return out
}

// StackString renders Stack one frame per entry, Go panic style.
func (e *Error) StackString() string {
	var sb strings.Builder
	for _, f := range e.stack {
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
	}
	return sb.String()
}

// Format implements fmt.Formatter; %+v appends the stack.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = io.WriteString(s, e.message)
			_, _ = io.WriteString(s, "\n")
			_, _ = io.WriteString(s, e.StackString())
			return
		}
		_, _ = io.WriteString(s, e.message)
	case 's':
		_, _ = io.WriteString(s, e.message)
	case 'q':
		fmt.Fprintf(s, "%q", e.message)
	default:
		fmt.Fprintf(s, "%%!%c(%T=%s)", verb, e, e.message)
	}
}

// New builds the diagnostic for cause, a failure to parse text.
//
// Unless AtPosition is given, the position is resolved from cause with
// diag.Resolve. The message is cause's message followed by a phrase
// describing the surrounding text; only the "Unexpected token" wording is
// rewritten to quote the token and its code unit.
func New(cause error, text string, opts ...Option) *Error {
	cfg := config{tracer: RuntimeTracer{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	var offset int
	known := true
	if cfg.hasPosition {
		offset = diag.ByteIndex(text, cfg.position)
	} else {
		res := diag.Resolve(text, cause)
		offset, known = res.Offset, res.Known()
	}
	position := diag.RuneIndex(text, offset)

	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	kind, msg := classify(msg)

	phrase := diag.Phrase(text, position, known, cfg.window)
	if msg == "" {
		msg = capitalize(phrase)
	} else {
		msg = msg + " " + phrase
	}

	var stack []runtime.Frame
	if cfg.tracer != nil {
		stack = cfg.tracer.Trace(1, cfg.caller)
	}

	return &Error{
		kind:     kind,
		position: position,
		offset:   offset,
		cause:    cause,
		message:  msg,
		text:     text,
		window:   cfg.window,
		stack:    stack,
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Option configures New.
type Option func(*config)

type config struct {
	position    int
	hasPosition bool
	window      int
	caller      any
	tracer      Tracer
}

// AtPosition uses the given character position instead of resolving one.
func AtPosition(pos int) Option {
	return func(c *config) {
		if pos < 0 {
			pos = 0
		}
		c.position = pos
		c.hasPosition = true
	}
}

// WithWindow sets the number of characters shown on each side of the
// failure. Zero or less selects diag.DefaultWindow.
func WithWindow(n int) Option {
	return func(c *config) { c.window = n }
}

// WithCaller trims the captured stack so it starts at the caller of fn,
// which must be a function value. Frames of fn and everything it called are
// omitted.
func WithCaller(fn any) Option {
	return func(c *config) { c.caller = fn }
}

// WithTracer replaces the stack capture mechanism. A nil tracer captures
// nothing.
func WithTracer(t Tracer) Option {
	return func(c *config) { c.tracer = t }
}

// TypeError reports input that is not JSON text at all.
type TypeError struct {
	desc string
}

// NewTypeError describes input, which could not be treated as text.
func NewTypeError(input any) *TypeError {
	return &TypeError{desc: describe(input)}
}

func (e *TypeError) Error() string { return "Cannot parse " + e.desc }

// Code returns Code.
func (e *TypeError) Code() string { return Code }

// Type returns the short description of the rejected input.
func (e *TypeError) Type() string { return e.desc }

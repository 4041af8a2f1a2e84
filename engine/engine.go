// Package engine provides the strict JSON grammar engines that diagnostics
// are built around. Every engine accepts exactly the RFC 8259 grammar and
// builds jsonvalue trees, but each reports failures in its own way: the
// strict engine exposes a byte offset, encoding/json and goccy expose an
// Offset field with their own wording, and json-iterator only embeds a
// relative offset and a text snippet in its message.
package engine

import (
	"fmt"
	"sort"
)

// Engine names accepted by Lookup.
const (
	NameStrict   = "strict"
	NameStd      = "std"
	NameJsoniter = "jsoniter"
	NameGoccy    = "goccy"
)

// Limits for denial-of-service protection.
const (
	// DefaultMaxDepth is the maximum nesting depth for objects and arrays.
	DefaultMaxDepth = 1000

	// DefaultMaxInputSize is the maximum input size in bytes (64 MiB).
	DefaultMaxInputSize = 64 * 1024 * 1024
)

// Engine parses one complete JSON text.
type Engine interface {
	// Name returns the registry name of the engine.
	Name() string
	// Parse returns the decoded value or the engine's native failure.
	Parse(text string) (any, error)
}

// Options controls parser limits. Only the strict engine enforces them.
type Options struct {
	MaxDepth     int // 0 means DefaultMaxDepth
	MaxInputSize int // 0 means DefaultMaxInputSize
}

func (o *Options) maxDepth() int {
	if o != nil && o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

func (o *Options) maxInputSize() int {
	if o != nil && o.MaxInputSize > 0 {
		return o.MaxInputSize
	}
	return DefaultMaxInputSize
}

var constructors = map[string]func(*Options) Engine{
	NameStrict:   func(o *Options) Engine { return NewStrict(o) },
	NameStd:      func(*Options) Engine { return Std{} },
	NameJsoniter: func(*Options) Engine { return Jsoniter{} },
	NameGoccy:    func(*Options) Engine { return Goccy{} },
}

// Lookup returns the engine registered under name. The empty name selects
// the strict engine.
func Lookup(name string, opts *Options) (Engine, error) {
	if name == "" {
		name = NameStrict
	}
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("engine: unknown engine %q", name)
	}
	return ctor(opts), nil
}

// Names returns the registered engine names, sorted.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package jsonerr

import (
	"reflect"
	"runtime"
	"strings"
)

// pkgPrefix is the symbol prefix of this package. Leading frames with it are
// never part of a captured stack.
var pkgPrefix = strings.TrimSuffix(funcName(funcName), "funcName")

// Tracer captures the call stack for a new *Error.
type Tracer interface {
	// Trace returns the frames of its caller's stack, skipping skip frames
	// above the caller. When caller is a function value found on the stack,
	// that frame and every frame below it are dropped.
	Trace(skip int, caller any) []runtime.Frame
}

// RuntimeTracer captures stacks with runtime.Callers.
type RuntimeTracer struct {
	// Depth bounds the number of frames captured; 0 means 32.
	Depth int
}

// Trace implements Tracer.
func (t RuntimeTracer) Trace(skip int, caller any) []runtime.Frame {
	depth := t.Depth
	if depth <= 0 {
		depth = 32
	}
	pcs := make([]uintptr, depth)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var out []runtime.Frame
	for {
		f, more := frames.Next()
		if len(out) > 0 || !strings.HasPrefix(f.Function, pkgPrefix) {
			out = append(out, f)
		}
		if !more {
			break
		}
	}

	name := funcName(caller)
	if name == "" {
		return out
	}
	for i, f := range out {
		if f.Function == name {
			return out[i+1:]
		}
	}
	return out
}

// NoopTracer captures nothing. Use it where stacks are not wanted or the
// platform offers no way to walk them.
type NoopTracer struct{}

// Trace implements Tracer.
func (NoopTracer) Trace(int, any) []runtime.Frame { return nil }

func funcName(fn any) string {
	if fn == nil {
		return ""
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	return f.Name()
}

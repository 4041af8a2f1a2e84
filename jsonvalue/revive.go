package jsonvalue

import "strconv"

// Reviver transforms each value after parsing, innermost values first. key is
// the member name, the decimal element index, or "" for the root value.
// Returning Omit removes an object member; inside an array the element
// becomes null so indices stay stable.
type Reviver func(key string, value any) any

type omitted struct{}

// Omit is the Reviver result that drops the current value.
var Omit any = omitted{}

// Revive applies r to v and every nested value, bottom-up.
func Revive(v any, r Reviver) any {
	if r == nil {
		return v
	}
	out := revive("", v, r)
	if out == Omit {
		return nil
	}
	return out
}

func revive(key string, v any, r Reviver) any {
	switch c := v.(type) {
	case *Object:
		for _, k := range c.Keys() {
			member, _ := c.Get(k)
			next := revive(k, member, r)
			if next == Omit {
				c.Delete(k)
				continue
			}
			c.Set(k, next)
		}
	case *Array:
		for i := range c.elems {
			next := revive(strconv.Itoa(i), c.elems[i], r)
			if next == Omit {
				next = nil
			}
			c.elems[i] = next
		}
	}
	return r(key, v)
}

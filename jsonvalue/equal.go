package jsonvalue

// Equal reports whether a and b hold the same JSON content. Attached formats
// are ignored. Numbers compare by value when both literals parse as doubles,
// and by literal text otherwise.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		if !ok {
			return false
		}
		fx, errX := x.Float64()
		fy, errY := y.Float64()
		if errX == nil && errY == nil {
			return fx == fy
		}
		return x == y
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		equal := true
		x.Range(func(key string, v any) bool {
			w, found := y.Get(key)
			equal = found && Equal(v, w)
			return equal
		})
		return equal
	case *Array:
		y, ok := b.(*Array)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i := range x.elems {
			if !Equal(x.elems[i], y.elems[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

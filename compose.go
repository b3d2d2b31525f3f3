package keel

// Compose chains single-argument functions right to left:
// Compose(f, g, h)(x) is f(g(h(x))).
//
// With no functions it returns the identity function; with one it returns
// that function unchanged.
func Compose[T any](fns ...func(T) T) func(T) T {
	switch len(fns) {
	case 0:
		return func(v T) T { return v }
	case 1:
		return fns[0]
	}
	return func(v T) T {
		for i := len(fns) - 1; i >= 0; i-- {
			v = fns[i](v)
		}
		return v
	}
}

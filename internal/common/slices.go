package common

// UnknownStr is the String() fallback of every enum in the module.
const UnknownStr = "unknown"

// IsSingle returns true if the slice has exactly one element.
func IsSingle[S ~[]E, E any](s S) bool {
	return len(s) == 1
}

// Map returns a new slice holding f applied to every element of s.
func Map[S ~[]E, E, R any](s S, f func(E) R) []R {
	out := make([]R, len(s))
	for i, e := range s {
		out[i] = f(e)
	}

	return out
}

package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// ValueOr dereferences an optional field, falling back when it was not set.
// Unlike Coalesce an explicit zero is kept, so a scale of 0 stays 0.
//
// Parameters:
//   - p: the optional value
//   - fallback: returned when p is nil
//
// Returns:
//   - T: *p, or fallback
func ValueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

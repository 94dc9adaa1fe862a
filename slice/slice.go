// Package slice holds the small generic helpers the standard slices package lacks.
package slice

// Map returns fn applied to every element, in order.
func Map[T any, U any](input []T, fn func(T) U) []U {
	result := make([]U, len(input))
	for i, v := range input {
		result[i] = fn(v)
	}
	return result
}

func Find[T any](input []T, pred func(T) bool) (T, bool) {
	for _, v := range input {
		if pred(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// MaxOf returns the largest fn(v), or fallback for an empty input.
func MaxOf[T any](input []T, fallback float64, fn func(T) float64) float64 {
	if len(input) == 0 {
		return fallback
	}
	m := fn(input[0])
	for _, v := range input[1:] {
		m = max(m, fn(v))
	}
	return m
}

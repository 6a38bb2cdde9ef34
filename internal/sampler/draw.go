package sampler

import "math"

// IntRange returns an integer in [min, max], inclusive on both ends.
func IntRange(r Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.IntN(max-min+1)
}

// FloatRange returns a float in [min, max] rounded to precision (e.g. 0.01).
// A zero precision leaves the value unrounded.
func FloatRange(r Rand, min, max, precision float64) float64 {
	v := min + r.Float64()*(max-min)
	if precision <= 0 {
		return v
	}
	return Round(v, precision)
}

// Round rounds v to the nearest multiple of precision.
func Round(v, precision float64) float64 {
	steps := math.Round(v / precision)
	// Dividing by the inverse keeps 0.1-style precisions free of 0.30000000000000004 tails.
	inv := math.Round(1 / precision)
	if inv > 0 && math.Abs(inv*precision-1) < 1e-9 {
		return steps / inv
	}
	return steps * precision
}

// Bool returns true with probability p.
func Bool(r Rand, p float64) bool {
	return r.Float64() < p
}

// Element returns a uniformly chosen element. values must be non-empty.
func Element[T any](r Rand, values []T) T {
	if len(values) == 0 {
		panic("sampler: element of empty slice")
	}
	return values[r.IntN(len(values))]
}

// Elements returns n distinct elements in random order. n is clamped to len(values).
func Elements[T any](r Rand, values []T, n int) []T {
	if n > len(values) {
		n = len(values)
	}
	if n <= 0 {
		return []T{}
	}
	pool := make([]T, len(values))
	copy(pool, values)
	// Partial Fisher-Yates: the first n slots end up as the sample.
	for i := 0; i < n; i++ {
		j := i + r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// ElementsRange returns between min and max distinct elements.
func ElementsRange[T any](r Rand, values []T, min, max int) []T {
	return Elements(r, values, IntRange(r, min, max))
}

// Package sampler draws categorical and ranged values from an explicit random source.
// It holds no state of its own: every call takes the Rand it draws from, so two calls
// are independent trials and tests can pin the stream with a fixed seed.
package sampler

import (
	"fmt"
	"math"
)

// Rand is the subset of *math/rand/v2.Rand the sampler needs.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Choice is one row of a weighted table. Weights are relative and need not sum to 1.
type Choice[T any] struct {
	Value  T
	Weight float64
}

// Pick returns one value from choices with probability Weight/sum(Weight).
// An empty table or a non-positive total weight is a programming error and panics.
func Pick[T any](r Rand, choices []Choice[T]) T {
	if len(choices) == 0 {
		panic("sampler: empty choice table")
	}

	var total float64
	for _, c := range choices {
		if c.Weight < 0 || math.IsNaN(c.Weight) {
			panic(fmt.Sprintf("sampler: invalid weight %v", c.Weight))
		}
		total += c.Weight
	}
	if total <= 0 {
		panic("sampler: choice weights sum to zero")
	}

	target := r.Float64() * total
	var cum float64
	for _, c := range choices {
		cum += c.Weight
		if target < cum {
			return c.Value
		}
	}
	// Float rounding can leave target == total; the last positive row owns that edge.
	for i := len(choices) - 1; i >= 0; i-- {
		if choices[i].Weight > 0 {
			return choices[i].Value
		}
	}
	return choices[len(choices)-1].Value
}

// Uniform builds an equal-weight table from values.
func Uniform[T any](values ...T) []Choice[T] {
	out := make([]Choice[T], len(values))
	for i, v := range values {
		out[i] = Choice[T]{Value: v, Weight: 1}
	}
	return out
}

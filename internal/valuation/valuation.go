// Package valuation derives a post's tradeable value from its reshare count.
package valuation

import "math"

const (
	// BaseValue is the value of a post with no reshares.
	BaseValue = 10
	// MaxValue caps the value curve.
	MaxValue = 1000

	reshareBonus = 5.0
	decay        = 0.95
)

// Value computes min(floor(10 + sum_{i<reshares} 5*0.95^i), 1000). It must be
// recomputed from the full reshare count on every change, never adjusted
// incrementally.
func Value(reshares int) int {
	v := float64(BaseValue)
	for i := 0; i < reshares; i++ {
		v += reshareBonus * math.Pow(decay, float64(i))
	}
	if v > MaxValue {
		return MaxValue
	}
	return int(v)
}

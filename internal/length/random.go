package length

import (
	"math/rand"
)

// RandomSource draws an integer uniformly from [min, max] inclusive.
// Implementations must be safe for concurrent use.
type RandomSource interface {
	IntInRange(min, max int) int
}

type globalSource struct{}

// NewRandomSource returns the production source backed by the runtime's
// goroutine-safe generator. It is not seedable.
func NewRandomSource() RandomSource {
	return globalSource{}
}

func (globalSource) IntInRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min+1)
}

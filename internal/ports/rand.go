package ports

import "math/rand/v2"

// Rand supplies the uniform draw for the selection engine. Injected so
// tests can pin the pick.
type Rand interface {
	// IntN returns a uniform value in [0, n). n must be positive.
	IntN(n int) int
}

// SystemRand draws from the shared math/rand/v2 source.
type SystemRand struct{}

func (SystemRand) IntN(n int) int {
	return rand.IntN(n)
}

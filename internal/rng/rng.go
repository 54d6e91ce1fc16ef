package rng

// Generator provides a random index for shuffling
// *math/rand.Rand satisfies this interface, which is how tests get deterministic shuffles
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Default returns the generator used when the caller does not supply one
func Default() Generator {
	return Crypto{}
}

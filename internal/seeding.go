package internal

import "math/rand"

// Shuffles the slice in place.
func Shuffle[S ~[]E, E any](slice S, rng *rand.Rand) {
	rng.Shuffle(
		len(slice),
		func(i, j int) { slice[i], slice[j] = slice[j], slice[i] },
	)
}

// Returns a uniformly chosen element of the slice together with its index.
// Panics on an empty slice.
func Pick[S ~[]E, E any](slice S, rng *rand.Rand) (E, int) {
	i := rng.Intn(len(slice))
	return slice[i], i
}

// Removes the element at index i while keeping the order of the rest.
func RemoveAt[S ~[]E, E any](slice S, i int) S {
	return append(slice[:i], slice[i+1:]...)
}

// An unbiased coin flip.
func CoinFlip(rng *rand.Rand) bool {
	return rng.Intn(2) == 0
}

// Creates a new generator from the seed. Every worker of a replay
// owns one so draws are never correlated between runs.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

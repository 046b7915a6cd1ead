package engine

import (
	"math/rand"
	"time"
)

// RNG wraps math/rand.Rand with position tracking.
// Position increments with every draw, so a seed plus a position
// identifies exactly where a session's dice stand.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// NewSeed returns a seed for sessions that did not ask for one.
func NewSeed() int64 {
	return time.Now().UnixNano()
}

// Between returns a uniform random integer in [min, max].
// If max < min the bounds are swapped.
func (r *RNG) Between(min, max int) int {
	if max < min {
		min, max = max, min
	}
	r.pos++
	return min + r.src.Intn(max-min+1)
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

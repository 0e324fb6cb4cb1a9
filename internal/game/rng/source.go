// Package rng provides the single random-number seam used by the battle
// engine. All turn-order coin flips and ability/item probability checks go
// through a Source so resolution is reproducible under a seeded source.
package rng

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand"
)

// Source produces random integers. Implementations must return values
// uniformly distributed in [0, n).
type Source interface {
	Intn(n int) int
}

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "rng: Intn called with n <= 0" if n <= 0.
// Panics with "rng: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("rng: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// seededSource implements Source using math/rand with a fixed seed.
// It is not safe for concurrent use; the engine is single-writer.
type seededSource struct {
	r *mathrand.Rand
}

// NewSeededSource returns a deterministic Source seeded with seed.
// Intended for tests and reproducible simulations.
func NewSeededSource(seed int64) Source {
	return &seededSource{r: mathrand.New(mathrand.NewSource(seed))}
}

// Intn returns a deterministic pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "rng: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return s.r.Intn(n)
}

// Flip performs an unweighted coin flip.
//
// Postcondition: returns true with probability 1/2 under a uniform source.
func Flip(src Source) bool {
	return src.Intn(2) == 0
}

// Chance reports whether an event with the given percent probability occurs.
//
// Precondition: 0 <= percent <= 100.
// Postcondition: always false for percent == 0, always true for percent == 100.
func Chance(src Source, percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return src.Intn(100) < percent
}

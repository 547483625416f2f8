// Package rng provides the seeded Park-Miller generator used for the few
// generated fields that should look sampled (ratings, review counts,
// versions, update dates).
//
// Structural variety (icons, variants, template picks) does not use this
// package; it is chosen positionally with index mod table length.
package rng

const (
	multiplier = 16807
	modulus    = 2147483647 // 2^31 - 1
)

// Source is a deterministic pseudo-random sequence.
// The same seed always yields the same sequence. A Source is not safe for
// concurrent use.
type Source struct {
	state int64
}

// New returns a Source seeded with seed.
// Seeds are folded into [1, modulus-1] because 0 (and multiples of the
// modulus) would make the sequence stick at zero.
func New(seed int64) *Source {
	s := seed % modulus
	if s < 0 {
		s += modulus
	}
	if s == 0 {
		s = 1
	}
	return &Source{state: s}
}

// Float64 advances the sequence and returns a value in [0, 1).
func (s *Source) Float64() float64 {
	s.state = (s.state * multiplier) % modulus
	return float64(s.state) / modulus
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return int(s.Float64() * float64(n))
}

// Range returns a value in [lo, hi].
func (s *Source) Range(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + s.Intn(hi-lo+1)
}

// Package genrand provides the world generator's seeded pseudorandom
// stream, kept entirely separate from any chunk's physics RNG (§4.3: "all
// randomness routes through the generator's seeded stream; chunk-local
// physics RNG is independent").
//
// The method surface mirrors the call sites dm-vev-adamant's
// pmgen/populate/ore.go makes against its own rand.Random (Range, Float64,
// Int31n) even though that package's source was not itself part of the
// retrieved pack; this is a thin wrapper over math/rand/v2 with the same
// shape.
package genrand

import "math/rand/v2"

// Stream is a deterministic pseudorandom source. Two Streams constructed
// with the same seed produce identical sequences, which is what lets the
// generator regenerate the same chunk contents for a given (seed,
// chunk-coord) on every run (§4.3).
type Stream struct {
	r *rand.Rand
}

// New builds a Stream seeded deterministically from seed.
func New(seed uint64) *Stream {
	return &Stream{r: rand.New(rand.NewPCG(seed, seed^0x2545f4914f6cdd1d))}
}

// Derive builds a child Stream for a sub-region (typically a chunk
// coordinate folded into an int64) so that generation of one chunk never
// perturbs the sequence consumed by another (§4.3's per-region determinism).
func (s *Stream) Derive(salt int64) *Stream {
	mixed := s.r.Uint64() ^ uint64(salt)*0x9e3779b97f4a7c15
	return New(mixed)
}

// Float64 returns a pseudorandom value in [0,1).
func (s *Stream) Float64() float64 { return s.r.Float64() }

// Range returns a pseudorandom int32 in [min,max].
func (s *Stream) Range(min, max int32) int32 {
	if max <= min {
		return min
	}
	return min + s.r.Int32N(max-min+1)
}

// RangeF returns a pseudorandom float64 in [min,max).
func (s *Stream) RangeF(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.r.Float64()*(max-min)
}

// Int31n returns a pseudorandom int32 in [0,n).
func (s *Stream) Int31n(n int32) int32 {
	if n <= 0 {
		return 0
	}
	return s.r.Int32N(n)
}

// Bool returns true with probability p.
func (s *Stream) Bool(p float64) bool { return s.r.Float64() < p }

// Weighted picks an index into weights proportionally to their value,
// used for the cave-archetype roll in §4.3 step 5.
func (s *Stream) Weighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	roll := s.r.Float64() * total
	for i, w := range weights {
		if roll < w {
			return i
		}
		roll -= w
	}
	return len(weights) - 1
}

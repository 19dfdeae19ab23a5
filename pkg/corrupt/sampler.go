package corrupt

import "math/rand/v2"

// PartSampler draws part lengths and origins from a private random stream.
//
// Lengths are uniform in [min, max] using a modulo reduction of a 64-bit
// draw. A sampler with min == max is fixed and never consumes a draw for
// [PartSampler.Len].
type PartSampler struct {
	fixed    bool
	min, max uint64
	rng      *rand.Rand
}

// NewPartSampler returns a sampler for lengths in [lo, hi] seeded by seed.
// lo and hi are swapped if lo > hi.
func NewPartSampler(lo, hi, seed uint64) *PartSampler {
	if lo > hi {
		lo, hi = hi, lo
	}

	return &PartSampler{
		fixed: lo == hi,
		min:   lo,
		max:   hi,
		rng:   newStream(seed),
	}
}

// Fixed reports whether the sampler always returns the same length.
func (s *PartSampler) Fixed() bool {
	return s.fixed
}

// Bounds returns the normalized length bounds.
func (s *PartSampler) Bounds() (lo, hi uint64) {
	return s.min, s.max
}

// Len returns the next part length.
func (s *PartSampler) Len() uint64 {
	if s.fixed {
		return s.min
	}

	span := s.max - s.min + 1
	if span == 0 {
		// [0, MaxUint64]: every draw is already in range.
		return s.rng.Uint64()
	}

	return s.rng.Uint64()%span + s.min
}

// Origin returns the next origin in [0, bound].
// The modulus saturates, so bound == MaxUint64 yields [0, MaxUint64).
func (s *PartSampler) Origin(bound uint64) uint64 {
	m := bound + 1
	if m == 0 {
		m = bound
	}

	return s.rng.Uint64() % m
}

// Float64 returns the next value in [0, 1) from the same stream.
func (s *PartSampler) Float64() float64 {
	return s.rng.Float64()
}

// streamSeq is the PCG sequence selector shared by every stream. Streams
// differ by seed only.
const streamSeq = 0x6b6f7272757074

func newStream(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, streamSeq))
}

// part draws a length clamped to regionLen, then an origin that keeps the
// part inside the region (origin + n <= regionLen).
func (s *PartSampler) part(regionLen uint64) (off, n uint64) {
	n = min(s.Len(), regionLen)
	off = s.Origin(regionLen - n)

	return off, n
}

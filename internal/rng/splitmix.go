package rng

const golden = 0x9e3779b97f4a7c15

// SplitMix is the SplitMix64 generator. It also seeds the other sources.
type SplitMix struct {
	state uint64
}

// NewSplitMix returns a SplitMix64 generator starting at seed.
func NewSplitMix(seed uint64) *SplitMix {
	return &SplitMix{state: seed}
}

// Uint64 advances the state and returns a mixed 64-bit value.
func (s *SplitMix) Uint64() uint64 {
	s.state += golden
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Uint32 returns the high half of the next 64-bit value.
func (s *SplitMix) Uint32() uint32 {
	return uint32(s.Uint64() >> 32)
}

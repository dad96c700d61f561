package rng

// Step is a counter posing as a generator: it returns start, start+inc,
// start+2*inc and so on, truncated to 32 bits. It exists for benchmarks
// and for tests that need outcomes known in advance.
type Step struct {
	value uint64
	inc   uint64
}

// NewStep returns a Step source.
func NewStep(start, inc uint64) *Step {
	return &Step{value: start, inc: inc}
}

// Uint32 returns the current counter value and advances it.
func (s *Step) Uint32() uint32 {
	v := s.value
	s.value += s.inc
	return uint32(v)
}

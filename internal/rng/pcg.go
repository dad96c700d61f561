package rng

import "golang.org/x/exp/rand"

// PCG adapts the x/exp PCG source (128-bit state, XSL-RR output).
type PCG struct {
	src rand.PCGSource
}

// NewPCG returns a PCG source seeded with seed.
func NewPCG(seed uint64) *PCG {
	p := &PCG{}
	p.src.Seed(seed)
	return p
}

// Uint32 returns the high half of the next 64-bit value.
func (p *PCG) Uint32() uint32 {
	return uint32(p.src.Uint64() >> 32)
}

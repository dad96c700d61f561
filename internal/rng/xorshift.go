package rng

// XorShift is Marsaglia's 128-bit xorshift generator. It is the default
// source: one shift-xor round per value and 16 bytes of state.
type XorShift struct {
	x, y, z, w uint32
}

// NewXorShift seeds a generator by expanding seed through SplitMix64.
// The all-zero state is a fixed point, so it is replaced by a constant.
func NewXorShift(seed uint64) *XorShift {
	sm := NewSplitMix(seed)
	a, b := sm.Uint64(), sm.Uint64()
	g := &XorShift{
		x: uint32(a),
		y: uint32(a >> 32),
		z: uint32(b),
		w: uint32(b >> 32),
	}
	if g.x|g.y|g.z|g.w == 0 {
		g.x = 0x0DDB1A5E
	}
	return g
}

// Uint32 returns the next value.
func (g *XorShift) Uint32() uint32 {
	t := g.x ^ (g.x << 11)
	g.x, g.y, g.z = g.y, g.z, g.w
	g.w = g.w ^ (g.w >> 19) ^ (t ^ (t >> 8))
	return g.w
}

// Package rng provides the fast pseudo-random sources used by the simulator.
//
// None of the sources are safe for concurrent use. Each goroutine must own
// its own instance; the parallel runner builds one per worker.
package rng

import (
	"errors"
	"fmt"
	"sort"
)

// Source produces pseudo-random 32-bit values. Implementations are
// deterministic for a given seed and make no cryptographic promises.
type Source interface {
	Uint32() uint32
}

// Registered source names.
const (
	NameXorShift = "xorshift"
	NameSplitMix = "splitmix"
	NamePCG      = "pcg"
	NameStep     = "step"
)

// DefaultName is the source used when none is configured.
const DefaultName = NameXorShift

// ErrUnknownSource is returned by New for names not in the registry.
var ErrUnknownSource = errors.New("unknown random source")

var constructors = map[string]func(seed uint64) Source{
	NameXorShift: func(seed uint64) Source { return NewXorShift(seed) },
	NameSplitMix: func(seed uint64) Source { return NewSplitMix(seed) },
	NamePCG:      func(seed uint64) Source { return NewPCG(seed) },
	NameStep:     func(seed uint64) Source { return NewStep(seed, 1) },
}

// New builds the named source seeded with seed.
func New(name string, seed uint64) (Source, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownSource, name, Names())
	}
	return ctor(seed), nil
}

// Valid reports whether name is a registered source.
func Valid(name string) bool {
	_, ok := constructors[name]
	return ok
}

// Names returns the registered source names in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

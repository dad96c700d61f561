package monty

import (
	"errors"
	"fmt"
)

// DefaultExponent gives the default run size of 10^9 trials.
const DefaultExponent = 9

// MaxExponent is the largest exponent whose power of ten fits in a uint64.
const MaxExponent = 19

// ErrExponentRange is returned for exponents above MaxExponent.
var ErrExponentRange = errors.New("exponent out of range")

// TrialsForExponent returns 10^exp.
func TrialsForExponent(exp uint) (uint64, error) {
	if exp > MaxExponent {
		return 0, fmt.Errorf("%w: %d (max %d)", ErrExponentRange, exp, MaxExponent)
	}
	n := uint64(1)
	for i := uint(0); i < exp; i++ {
		n *= 10
	}
	return n, nil
}

// Package amount scales token amounts between whole units and the mint's
// minimal fractional unit.
package amount

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrOverflow is returned when a scaled amount does not fit into 64 bits.
var ErrOverflow = errors.New("amount overflow")

// Factor returns 10^decimals.
func Factor(decimals uint8) (uint64, error) {
	factor := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		hi, lo := bits.Mul64(factor, 10)
		if hi != 0 {
			return 0, fmt.Errorf("%w: 10^%d", ErrOverflow, decimals)
		}
		factor = lo
	}
	return factor, nil
}

// ToFractions converts a whole token amount into fractions (e.g. 10^-9 units).
func ToFractions(whole uint64, decimals uint8) (uint64, error) {
	factor, err := Factor(decimals)
	if err != nil {
		return 0, err
	}
	hi, lo := bits.Mul64(whole, factor)
	if hi != 0 {
		return 0, fmt.Errorf("%w: %d*%d", ErrOverflow, whole, factor)
	}
	return lo, nil
}

// FromFractions converts fractions back into whole tokens, truncating the remainder.
func FromFractions(fractions uint64, decimals uint8) (uint64, error) {
	factor, err := Factor(decimals)
	if err != nil {
		return 0, err
	}
	return fractions / factor, nil
}

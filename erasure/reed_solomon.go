package erasure

import (
	"fmt"

	"github.com/holiman/uint256"
)

// NewRSCode returns the Reed-Solomon code that evaluates a polynomial of
// degree k-1 over a field with fsize-bit elements at n distinct points.
// Any k evaluations determine the polynomial, so the reception is k.
func NewRSCode(secpar, fsize, k, n int) (Code, error) {
	if fsize < 1 || k < 1 || n < 1 {
		return Code{}, fmt.Errorf("%w: fsize=%d k=%d n=%d", ErrInvalidLength, fsize, k, n)
	}
	if k > n {
		return Code{}, fmt.Errorf("%w: k=%d, n=%d", ErrMessageTooLong, k, n)
	}
	if !fieldCanIndex(fsize, n) {
		return Code{}, fmt.Errorf("%w: 2^%d < %d", ErrFieldTooSmall, fsize, n)
	}
	return New(secpar, fsize, fsize, k, n, k)
}

// NewTrivialCode returns the identity code on k symbols of symbolSize bits.
// Every symbol is needed to reconstruct.
func NewTrivialCode(secpar, symbolSize, k int) (Code, error) {
	return New(secpar, symbolSize, symbolSize, k, k, k)
}

// fieldCanIndex reports whether a field of 2^fsize elements has at least n
// distinct evaluation points.
func fieldCanIndex(fsize, n int) bool {
	if fsize >= 256 {
		return true
	}
	order := new(uint256.Int).Lsh(uint256.NewInt(1), uint(fsize))
	return !order.Lt(uint256.NewInt(uint64(n)))
}

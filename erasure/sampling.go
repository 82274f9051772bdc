package erasure

import "math"

// SamplesFromReception returns the number of uniformly random symbol queries
// after which, except with probability 2^-secpar, the queried symbols contain
// enough distinct positions to reconstruct a codeword of length codewordLen
// whose reception is reception.
//
// The bound is a generalized coupon collector over a fixed worst-case
// erasure pattern. It ignores any structure of the code beyond its
// reception, so it can be loose for tensor codes (see Tensor).
func SamplesFromReception(secpar, reception, codewordLen int) int {
	return int(math.Ceil(receptionBound(secpar, reception, codewordLen)))
}

// receptionBound is the unrounded value behind SamplesFromReception.
func receptionBound(secpar, reception, codewordLen int) float64 {
	// One correct symbol already reconstructs.
	if reception == 1 {
		return 1
	}

	n := float64(codewordLen)
	lambda := float64(secpar)

	// Every symbol is needed: the classical coupon collector.
	if reception == codewordLen {
		return (n / math.Log2E) * (math.Log2(n) + lambda)
	}

	delta := float64(reception - 1)
	c := delta / n
	// log_c(e) = 1 / ln(c)
	return -lambda/math.Log2(c) + (1.0-1.0/math.Log(c))*delta
}

package fri

import (
	"fmt"
	"math"
)

// NumRounds is the smallest r >= 0 with basedimension * fanin^r >= mink:
// no round represents basedimension elements, and each round multiplies
// the representable dimension by fanin.
func NumRounds(mink, fanin, basedimension int) int {
	dimension := basedimension
	rounds := 0
	for dimension < mink {
		dimension *= fanin
		rounds++
	}
	return rounds
}

// LogEps1 is log2 of the distortion (lucky set) soundness error of the
// batching and folding challenges over a domain of domainsize elements.
func LogEps1(domainsize, fsize, batchsize, fanin int) int {
	maxbf := max(fanin, batchsize)
	return 1 + ceilLog2(domainsize*(maxbf-1)) - fsize
}

// NumRepetitions returns how many times the query phase must be repeated to
// push the soundness error below 2^-soundness. It fails with
// ErrSoundnessInfeasible when the field is too small for the distortion
// error to reach the target at all.
//
// One query catches a word at distance delta* = (1 - rate)/2 with
// probability delta*, so L queries leave (1 - delta*)^L.
func NumRepetitions(soundness int, rate float64, domainsize, fsize, batchsize, fanin int) (int, error) {
	if logeps1 := LogEps1(domainsize, fsize, batchsize, fanin); logeps1 > -soundness {
		return 0, fmt.Errorf("%w: log2(eps1)=%d > -%d (field %d bits, domain %d, fan-in %d, batch %d)",
			ErrSoundnessInfeasible, logeps1, soundness, fsize, domainsize, fanin, batchsize)
	}
	deltastar := 0.5 * (1.0 - rate)
	logbase := math.Log2(1.0 - deltastar)
	if logbase >= 0 {
		return 0, fmt.Errorf("%w: rate %v", ErrInvalidRate, rate)
	}
	return int(math.Ceil(-float64(soundness) / logbase)), nil
}

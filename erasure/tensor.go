package erasure

import (
	"fmt"
	"math"
)

// Tensor returns the tensor product of row and col: the message is a
// col.MsgLen() x row.MsgLen() matrix, encoded row-wise with row and then
// column-wise with col.
//
// Both factors must use the same symbol size, their message and codeword
// symbols must coincide, and both must have been built for the same
// soundness target.
//
// Distances multiply, so the product reception is
// n - rowDist*colDist + 1 with dist = n - reception + 1 per factor. For
// RS[2,4] x RS[2,4] that is 16 - 9 + 1 = 8: the 7 positions outside a
// 3x3 block of erasures are not enough.
//
// Samples is the minimum of three bounds, see samplesViaRows.
func (row Code) Tensor(col Code) (Code, error) {
	if row.sizeMsgSymbol != col.sizeMsgSymbol || row.sizeCodeSymbol != col.sizeCodeSymbol {
		return Code{}, fmt.Errorf("%w: row %d/%d bits, col %d/%d bits", ErrTensorSymbolMismatch,
			row.sizeMsgSymbol, row.sizeCodeSymbol, col.sizeMsgSymbol, col.sizeCodeSymbol)
	}
	if row.sizeMsgSymbol != row.sizeCodeSymbol {
		return Code{}, fmt.Errorf("%w: %d/%d bits", ErrTensorNotFolded, row.sizeMsgSymbol, row.sizeCodeSymbol)
	}
	if row.soundness != col.soundness {
		return Code{}, fmt.Errorf("%w: %d vs %d", ErrSoundnessMismatch, row.soundness, col.soundness)
	}

	secpar := row.soundness
	rowDist := row.codewordLen - row.reception + 1
	colDist := col.codewordLen - col.reception + 1
	codewordLen := row.codewordLen * col.codewordLen
	reception := codewordLen - rowDist*colDist + 1

	samples := min(
		SamplesFromReception(secpar, reception, codewordLen),
		samplesViaRows(secpar, row, col),
		samplesViaColumns(secpar, row, col),
	)

	return Code{
		sizeMsgSymbol:  row.sizeMsgSymbol,
		sizeCodeSymbol: row.sizeCodeSymbol,
		msgLen:         row.msgLen * col.msgLen,
		codewordLen:    codewordLen,
		reception:      reception,
		samples:        samples,
		soundness:      secpar,
	}, nil
}

// samplesViaRows bounds the samples of row x col by the event that some row
// fails to reconstruct. A fixed row fails only if every query landing in it
// falls into some set of reception-1 positions. Union bounding over the
// col.codewordLen rows and the C(n_r, t_r - 1) such sets, with
// C(n, t) <= (n*e/t)^t, the failure probability is at most
//
//	n_c * (n_r*e/(t_r-1))^(t_r-1) * (1 - (n_r-t_r+1)/(n_r*n_c))^samples
//
// For RS[k, 2k] squared this is O(k^2 + secpar*k) queries, tighter than
// the reception bound once k is large.
func samplesViaRows(secpar int, row, col Code) int {
	n := float64(row.codewordLen) * float64(col.codewordLen)
	logBinom := 0.0
	if t := row.reception - 1; t > 0 {
		logBinom = float64(t) * (math.Log2(float64(row.codewordLen)) + math.Log2E - math.Log2(float64(t)))
	}
	logInner := math.Log2(1.0 - float64(row.codewordLen-row.reception+1)/n)
	s := math.Ceil(-(math.Log2(float64(col.codewordLen)) + logBinom + float64(secpar)) / logInner)
	// A 1x1 product has logInner = -Inf: one query reconstructs.
	if s < 1 {
		return 1
	}
	return int(s)
}

// samplesViaColumns is samplesViaRows with the roles of the factors swapped.
func samplesViaColumns(secpar int, row, col Code) int {
	return samplesViaRows(secpar, col, row)
}

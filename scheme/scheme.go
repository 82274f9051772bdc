// Package scheme turns an erasure code plus the sizes of a commitment and of
// one symbol's authentication data into communication metrics, and provides
// the catalog of commitment schemes the model compares.
package scheme

import (
	"fmt"
	"math"

	"github.com/eth2030/dacost/erasure"
)

// Scheme is an erasure code commitment: a code, a fixed-size commitment,
// and the extra bits needed to authenticate one opened codeword symbol
// (e.g. a Merkle co-path or a KZG proof). All sizes are in bits.
type Scheme struct {
	code            erasure.Code
	comSize         int
	openingOverhead int
}

// New assembles a scheme.
func New(code erasure.Code, comSize, openingOverhead int) Scheme {
	return Scheme{code: code, comSize: comSize, openingOverhead: openingOverhead}
}

// Code is the underlying erasure code.
func (s Scheme) Code() erasure.Code { return s.code }

// ComSize is the size of the commitment in bits.
func (s Scheme) ComSize() int { return s.comSize }

// OpeningOverhead is the authentication data of one opened symbol in bits.
func (s Scheme) OpeningOverhead() int { return s.openingOverhead }

// Reception is the reception of the code: the worst-case number of opened
// symbols that suffices to reconstruct.
func (s Scheme) Reception() int { return s.code.Reception() }

// EncodingLength is the number of symbols in the encoding.
func (s Scheme) EncodingLength() int { return s.code.CodewordLen() }

// Samples is the number of random queries needed to collect enough symbols
// to reconstruct, except with probability 2^-secpar.
func (s Scheme) Samples() int { return s.code.Samples() }

// CommPerQuery is the communication of one query: the position index, the
// authentication data and the symbol itself.
func (s Scheme) CommPerQuery() float64 {
	return math.Log2(float64(s.code.CodewordLen())) + float64(s.openingOverhead) + float64(s.code.SizeCodeSymbol())
}

// TotalComm is the communication of all Samples() queries.
func (s Scheme) TotalComm() float64 {
	return s.CommPerQuery() * float64(s.Samples())
}

// EncodingSize is the size of the full authenticated encoding.
func (s Scheme) EncodingSize() int {
	return s.code.CodewordLen() * (s.openingOverhead + s.code.SizeCodeSymbol())
}

func (s Scheme) String() string {
	return fmt.Sprintf("Scheme{%v com=%db overhead=%db}", s.code, s.comSize, s.openingOverhead)
}

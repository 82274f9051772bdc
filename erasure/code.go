// Package erasure models erasure codes by their parameters alone: symbol
// sizes, message and codeword lengths, reception, and the number of random
// samples needed to reconstruct. Codes compose by interleaving and by tensor
// products; every composition returns a fresh Code.
//
// Nothing is encoded here. A Code is a descriptor used to estimate
// commitment and communication costs.
package erasure

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLength        = errors.New("erasure: lengths and symbol sizes must be positive")
	ErrMessageTooLong       = errors.New("erasure: message length exceeds codeword length")
	ErrInvalidReception     = errors.New("erasure: reception must be in [1, codeword length]")
	ErrFieldTooSmall        = errors.New("erasure: field too small for evaluation domain")
	ErrInvalidInterleave    = errors.New("erasure: interleaving depth must be positive")
	ErrTensorSymbolMismatch = errors.New("erasure: tensor factors have different symbol sizes")
	ErrTensorNotFolded      = errors.New("erasure: tensor factor symbols are not single field elements")
	ErrSoundnessMismatch    = errors.New("erasure: tensor factors were built for different soundness targets")
)

// Code describes an erasure code. The zero value is not a valid code; use
// New, NewRSCode or NewTrivialCode. A Code is never modified after it is
// built.
type Code struct {
	sizeMsgSymbol  int // bits per message symbol
	sizeCodeSymbol int // bits per codeword symbol
	msgLen         int
	codewordLen    int
	reception      int // worst-case symbols sufficient to reconstruct
	samples        int // random queries sufficient to reconstruct w.h.p.
	soundness      int // secpar the samples were computed for
}

// New builds a code from its parameters and derives its sampling bound for
// the soundness target secpar via SamplesFromReception.
func New(secpar, sizeMsgSymbol, sizeCodeSymbol, msgLen, codewordLen, reception int) (Code, error) {
	if sizeMsgSymbol < 1 || sizeCodeSymbol < 1 || msgLen < 1 || codewordLen < 1 {
		return Code{}, fmt.Errorf("%w: symbols %d/%d bits, lengths %d/%d",
			ErrInvalidLength, sizeMsgSymbol, sizeCodeSymbol, msgLen, codewordLen)
	}
	if msgLen > codewordLen {
		return Code{}, fmt.Errorf("%w: k=%d, n=%d", ErrMessageTooLong, msgLen, codewordLen)
	}
	if reception < 1 || reception > codewordLen {
		return Code{}, fmt.Errorf("%w: reception=%d, n=%d", ErrInvalidReception, reception, codewordLen)
	}
	return Code{
		sizeMsgSymbol:  sizeMsgSymbol,
		sizeCodeSymbol: sizeCodeSymbol,
		msgLen:         msgLen,
		codewordLen:    codewordLen,
		reception:      reception,
		samples:        SamplesFromReception(secpar, reception, codewordLen),
		soundness:      secpar,
	}, nil
}

// SizeMsgSymbol is the size of one message symbol in bits.
func (c Code) SizeMsgSymbol() int { return c.sizeMsgSymbol }

// SizeCodeSymbol is the size of one codeword symbol in bits.
func (c Code) SizeCodeSymbol() int { return c.sizeCodeSymbol }

// MsgLen is the number of message symbols.
func (c Code) MsgLen() int { return c.msgLen }

// CodewordLen is the number of codeword symbols.
func (c Code) CodewordLen() int { return c.codewordLen }

// Reception is the worst-case number of codeword symbols that suffices to
// reconstruct the message.
func (c Code) Reception() int { return c.reception }

// Samples is the number of uniformly random queries after which the data can
// be reconstructed except with probability 2^-Soundness().
func (c Code) Samples() int { return c.samples }

// Soundness is the statistical soundness target Samples was computed for.
func (c Code) Soundness() int { return c.soundness }

// Equal reports whether two codes have the same symbol sizes, lengths and
// reception. The sampling bound is derived and does not take part.
func (c Code) Equal(other Code) bool {
	return c.sizeMsgSymbol == other.sizeMsgSymbol &&
		c.sizeCodeSymbol == other.sizeCodeSymbol &&
		c.msgLen == other.msgLen &&
		c.codewordLen == other.codewordLen &&
		c.reception == other.reception
}

// IsIdentity reports whether the code leaves the message unchanged.
func (c Code) IsIdentity() bool {
	return c.sizeMsgSymbol == c.sizeCodeSymbol && c.msgLen == c.codewordLen
}

// Interleave returns the code made of ell parallel copies of c that share
// positions. Symbols grow ell-fold; lengths, reception and samples stay,
// since a query still opens one position.
func (c Code) Interleave(ell int) (Code, error) {
	if ell < 1 {
		return Code{}, fmt.Errorf("%w: got %d", ErrInvalidInterleave, ell)
	}
	out := c
	out.sizeMsgSymbol = c.sizeMsgSymbol * ell
	out.sizeCodeSymbol = c.sizeCodeSymbol * ell
	return out, nil
}

func (c Code) String() string {
	return fmt.Sprintf("Code{msg=%dx%db code=%dx%db reception=%d samples=%d}",
		c.msgLen, c.sizeMsgSymbol, c.codewordLen, c.sizeCodeSymbol, c.reception, c.samples)
}

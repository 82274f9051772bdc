package scheme

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/eth2030/dacost/erasure"
	"github.com/eth2030/dacost/params"
)

var (
	ErrInvalidDataSize  = errors.New("scheme: data size must be positive")
	ErrInvalidChunkSize = errors.New("scheme: chunk size must be positive")
	ErrInvalidRate      = errors.New("scheme: inverse rate must be at least 1")
	ErrInvalidRepeat    = errors.New("scheme: repetition parameters must be non-negative")
)

// Catalog defaults.
const (
	DefaultMerkleChunkSize = 1024
	DefaultKZGInvRate      = 4
	DefaultTensorInvRate   = 2
)

// HashBasedOptions parameterizes NewHashBased.
type HashBasedOptions struct {
	FieldBits int // size of one field element
	P         int // parallel repetitions of the proximity test
	L         int // parallel repetitions of the consistency test
	InvRate   int
}

// DefaultHashBasedOptions returns the published parameters: a 32-bit field,
// P=8, L=64, inverse rate 4.
func DefaultHashBasedOptions() HashBasedOptions {
	return HashBasedOptions{FieldBits: 32, P: 8, L: 64, InvRate: 4}
}

// HomHashOptions parameterizes NewHomHashBased. The field is the scalar
// field of the Pedersen curve.
type HomHashOptions struct {
	P       int
	L       int
	InvRate int
}

// DefaultHomHashOptions returns P=2, L=2, inverse rate 4.
func DefaultHomHashOptions() HomHashOptions {
	return HomHashOptions{P: 2, L: 2, InvRate: 4}
}

// NewNaive puts all data in one symbol and commits to its hash.
func NewNaive(p params.Params, datasize int) (Scheme, error) {
	if datasize < 1 {
		return Scheme{}, fmt.Errorf("%w: %d", ErrInvalidDataSize, datasize)
	}
	code, err := erasure.New(p.SamplingSoundness, datasize, datasize, 1, 1, 1)
	if err != nil {
		return Scheme{}, err
	}
	return New(code, p.HashBits, 0), nil
}

// NewMerkle commits to the data with a Merkle tree over chunks of chunksize
// bits and the identity code. Opening a chunk costs its co-path.
func NewMerkle(p params.Params, datasize, chunksize int) (Scheme, error) {
	if datasize < 1 {
		return Scheme{}, fmt.Errorf("%w: %d", ErrInvalidDataSize, datasize)
	}
	if chunksize < 1 {
		return Scheme{}, fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunksize)
	}
	k := ceilDiv(datasize, chunksize)
	code, err := erasure.NewTrivialCode(p.SamplingSoundness, chunksize, k)
	if err != nil {
		return Scheme{}, err
	}
	return New(code, p.HashBits, ceilLog2(k)*p.HashBits), nil
}

// NewKZG reads a KZG polynomial commitment as a commitment to the
// Reed-Solomon code RS[k, invrate*k] over the BLS12-381 field. The
// commitment is one KZG commitment and each opened evaluation carries one
// KZG proof.
func NewKZG(p params.Params, datasize, invrate int) (Scheme, error) {
	if err := checkSizes(datasize, invrate); err != nil {
		return Scheme{}, err
	}
	k := ceilDiv(datasize, p.BLSFieldElementBits)
	rs, err := erasure.NewRSCode(p.SamplingSoundness, p.BLSFieldElementBits, k, k*invrate)
	if err != nil {
		return Scheme{}, err
	}
	return New(rs, p.KZGCommitmentBits, p.KZGProofBits), nil
}

// NewTensor treats the data as a k x k matrix and commits to RS x RS with
// one KZG commitment per row: the codeword is n x n with n = invrate*k.
func NewTensor(p params.Params, datasize, invrate int) (Scheme, error) {
	if err := checkSizes(datasize, invrate); err != nil {
		return Scheme{}, err
	}
	m := ceilDiv(datasize, p.BLSFieldElementBits)
	k := ceilSqrt(m)
	rs, err := erasure.NewRSCode(p.SamplingSoundness, p.BLSFieldElementBits, k, invrate*k)
	if err != nil {
		return Scheme{}, err
	}
	code, err := rs.Tensor(rs)
	if err != nil {
		return Scheme{}, err
	}
	return New(code, p.KZGCommitmentBits*k, p.KZGProofBits), nil
}

// NewHashBased is the hash-based code commitment over a small field: the
// data is a k x k matrix whose rows are encoded with RS[k, invrate*k], and
// a symbol is a column of the k x n codeword matrix. The commitment holds a
// hash per column plus the proximity (P) and consistency (L) responses.
func NewHashBased(p params.Params, datasize int, opts HashBasedOptions) (Scheme, error) {
	if err := checkSizes(datasize, opts.InvRate); err != nil {
		return Scheme{}, err
	}
	if opts.P < 0 || opts.L < 0 {
		return Scheme{}, fmt.Errorf("%w: P=%d L=%d", ErrInvalidRepeat, opts.P, opts.L)
	}
	f := opts.FieldBits
	if f < 1 {
		return Scheme{}, fmt.Errorf("%w: field of %d bits", erasure.ErrInvalidLength, f)
	}
	m := ceilDiv(datasize, f)
	k := ceilSqrt(m)
	n := opts.InvRate * k
	rs, err := erasure.NewRSCode(p.SamplingSoundness, f, k, n)
	if err != nil {
		return Scheme{}, err
	}
	code, err := rs.Interleave(k)
	if err != nil {
		return Scheme{}, err
	}
	com := n*p.HashBits + opts.P*n*f + opts.L*k*f
	return New(code, com, 0), nil
}

// NewHomHashBased is NewHashBased with the column hashes replaced by
// Pedersen hashes, so the field is the Pedersen scalar field and each
// column commitment is a group element.
func NewHomHashBased(p params.Params, datasize int, opts HomHashOptions) (Scheme, error) {
	if err := checkSizes(datasize, opts.InvRate); err != nil {
		return Scheme{}, err
	}
	if opts.P < 0 || opts.L < 0 {
		return Scheme{}, fmt.Errorf("%w: P=%d L=%d", ErrInvalidRepeat, opts.P, opts.L)
	}
	fe := p.PedersenFieldElementBits
	m := ceilDiv(datasize, fe)
	k := ceilSqrt(m)
	n := opts.InvRate * k
	rs, err := erasure.NewRSCode(p.SamplingSoundness, fe, k, n)
	if err != nil {
		return Scheme{}, err
	}
	code, err := rs.Interleave(k)
	if err != nil {
		return Scheme{}, err
	}
	com := n*p.PedersenGroupElementBits + opts.P*n*fe + opts.L*k*fe
	return New(code, com, 0), nil
}

func checkSizes(datasize, invrate int) error {
	if datasize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidDataSize, datasize)
	}
	if invrate < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidRate, invrate)
	}
	return nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func ceilSqrt(m int) int {
	return int(math.Ceil(math.Sqrt(float64(m))))
}

// ceilLog2 returns ceil(log2(n)) for n >= 1.
func ceilLog2(n int) int {
	return bits.Len(uint(n - 1))
}

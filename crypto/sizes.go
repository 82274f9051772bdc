// Package crypto reports the bit sizes of the cryptographic objects that the
// commitment cost model charges for: hash digests, curve field elements,
// compressed group elements, KZG commitments and proofs, and EIP-4844 blobs.
//
// No hashing or curve arithmetic happens here. The sizes are read from the
// libraries that implement those primitives, so the model cannot drift from
// the encodings real deployments use.
package crypto

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"
	"strings"

	goethkzg "github.com/crate-crypto/go-eth-kzg"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"
	blst "github.com/supranational/blst/bindings/go"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// ErrUnknownHash is returned by HashSize for an unsupported hash name.
var ErrUnknownHash = errors.New("crypto: unknown hash function")

// Hash function names accepted by HashSize.
const (
	HashSHA256     = "sha256"
	HashKeccak256  = "keccak256"
	HashSHA3_256   = "sha3-256"
	HashBlake2b256 = "blake2b-256"
	HashBlake2b512 = "blake2b-512"
)

// DefaultHash is the hash the published figures assume.
const DefaultHash = HashSHA256

var digestBytes = map[string]func() int{
	HashSHA256:     func() int { return sha256.Size },
	HashKeccak256:  func() int { return sha3.NewLegacyKeccak256().Size() },
	HashSHA3_256:   func() int { return sha3.New256().Size() },
	HashBlake2b256: func() int { return blake2b.Size256 },
	HashBlake2b512: func() int { return blake2b.Size },
}

// HashSize returns the digest size in bits of the named hash function.
// Names are matched case-insensitively.
func HashSize(name string) (int, error) {
	size, ok := digestBytes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownHash, name, strings.Join(HashNames(), ", "))
	}
	return size() * 8, nil
}

// HashNames lists the supported hash names in sorted order.
func HashNames() []string {
	names := make([]string, 0, len(digestBytes))
	for name := range digestBytes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Curve describes the serialized sizes of one elliptic curve, in bits.
type Curve struct {
	Name string
	// FieldElementBits is the size of one field element as it is sent on
	// the wire.
	FieldElementBits int
	// GroupElementBits is the size of one compressed group element.
	GroupElementBits int
}

// BLS12381 returns the sizes of BLS12-381 as serialized by blst. Field
// elements are base field (Fp) elements and group elements are compressed
// G1 points.
func BLS12381() Curve {
	return Curve{
		Name:             "bls12-381",
		FieldElementBits: blst.BLST_FP_BYTES * 8,
		GroupElementBits: blst.BLST_P1_COMPRESS_BYTES * 8,
	}
}

// Secp256k1 returns the sizes of secp256k1, the curve the Pedersen hash is
// instantiated over: 32-byte scalars and 33-byte compressed points.
func Secp256k1() Curve {
	return Curve{
		Name:             "secp256k1",
		FieldElementBits: secp256k1.PrivKeyBytesLen * 8,
		GroupElementBits: secp256k1.PubKeyBytesLenCompressed * 8,
	}
}

// KZGCommitmentBits is the size of a serialized KZG commitment.
func KZGCommitmentBits() int {
	return len(goethkzg.KZGCommitment{}) * 8
}

// KZGProofBits is the size of a serialized KZG opening proof.
func KZGProofBits() int {
	return len(goethkzg.KZGProof{}) * 8
}

// BlobBits is the size of one EIP-4844 blob.
func BlobBits() int {
	return len(kzg4844.Blob{}) * 8
}

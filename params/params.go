// Package params holds the process-wide constants of the commitment cost
// model: soundness targets, the query budget of the Fiat-Shamir random
// oracle, the grinding discount, and the sizes of hashes and curve elements.
//
// A Params value is passed explicitly to every constructor so that
// alternative soundness targets can be swept without touching code.
package params

import (
	"errors"
	"fmt"

	"github.com/eth2030/dacost/crypto"
)

// ErrInvalidParams is returned by Validate.
var ErrInvalidParams = errors.New("params: invalid parameters")

// Published default values.
const (
	// DefaultSamplingSoundness is the statistical soundness target, in bits,
	// for reconstructing data from random samples.
	DefaultSamplingSoundness = 40

	// DefaultStatisticalSecurity is the statistical security target of FRI.
	DefaultStatisticalSecurity = 40

	// DefaultROQueries is log2 of the random oracle queries an adversary
	// may make.
	DefaultROQueries = 60

	// DefaultGrinding is the proof-of-work discount in bits.
	DefaultGrinding = 20
)

// Params is the immutable configuration of the model.
type Params struct {
	SamplingSoundness   int `mapstructure:"sampling_soundness" yaml:"sampling_soundness"`
	StatisticalSecurity int `mapstructure:"statistical_security" yaml:"statistical_security"`
	ROQueries           int `mapstructure:"ro_queries" yaml:"ro_queries"`
	Grinding            int `mapstructure:"grinding" yaml:"grinding"`

	// Hash names the hash function behind Merkle trees and hash commitments.
	Hash string `mapstructure:"hash" yaml:"hash"`
	// HashBits is the digest size. When zero, Normalize derives it from Hash.
	HashBits int `mapstructure:"hash_bits" yaml:"hash_bits"`

	BLSFieldElementBits      int `mapstructure:"bls_field_element_bits" yaml:"bls_field_element_bits"`
	BLSGroupElementBits      int `mapstructure:"bls_group_element_bits" yaml:"bls_group_element_bits"`
	PedersenFieldElementBits int `mapstructure:"pedersen_field_element_bits" yaml:"pedersen_field_element_bits"`
	PedersenGroupElementBits int `mapstructure:"pedersen_group_element_bits" yaml:"pedersen_group_element_bits"`

	// KZG commitment and opening proof sizes, charged by the KZG and
	// tensor schemes.
	KZGCommitmentBits int `mapstructure:"kzg_commitment_bits" yaml:"kzg_commitment_bits"`
	KZGProofBits      int `mapstructure:"kzg_proof_bits" yaml:"kzg_proof_bits"`
}

// DefaultParams returns the configuration of the published figures:
// SHA-256, BLS12-381 for KZG and tensor commitments, secp256k1 for Pedersen.
func DefaultParams() Params {
	bls := crypto.BLS12381()
	secp := crypto.Secp256k1()
	hashBits, _ := crypto.HashSize(crypto.DefaultHash)
	return Params{
		SamplingSoundness:        DefaultSamplingSoundness,
		StatisticalSecurity:      DefaultStatisticalSecurity,
		ROQueries:                DefaultROQueries,
		Grinding:                 DefaultGrinding,
		Hash:                     crypto.DefaultHash,
		HashBits:                 hashBits,
		BLSFieldElementBits:      bls.FieldElementBits,
		BLSGroupElementBits:      bls.GroupElementBits,
		PedersenFieldElementBits: secp.FieldElementBits,
		PedersenGroupElementBits: secp.GroupElementBits,
		KZGCommitmentBits:        crypto.KZGCommitmentBits(),
		KZGProofBits:             crypto.KZGProofBits(),
	}
}

// FRISoundness is the number of bits of soundness one FRI proof must reach:
// the statistical target plus the random oracle budget, minus grinding.
func (p Params) FRISoundness() int {
	return p.StatisticalSecurity + p.ROQueries - p.Grinding
}

// Normalize fills zero-valued fields. HashBits is derived from Hash.
// Other zero fields take their defaults. It returns an error only when the
// hash name is unknown.
func (p Params) Normalize() (Params, error) {
	def := DefaultParams()
	if p.Hash == "" {
		p.Hash = def.Hash
	}
	if p.HashBits == 0 {
		bits, err := crypto.HashSize(p.Hash)
		if err != nil {
			return p, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		p.HashBits = bits
	}
	if p.SamplingSoundness == 0 {
		p.SamplingSoundness = def.SamplingSoundness
	}
	if p.StatisticalSecurity == 0 {
		p.StatisticalSecurity = def.StatisticalSecurity
	}
	if p.BLSFieldElementBits == 0 {
		p.BLSFieldElementBits = def.BLSFieldElementBits
	}
	if p.BLSGroupElementBits == 0 {
		p.BLSGroupElementBits = def.BLSGroupElementBits
	}
	if p.PedersenFieldElementBits == 0 {
		p.PedersenFieldElementBits = def.PedersenFieldElementBits
	}
	if p.PedersenGroupElementBits == 0 {
		p.PedersenGroupElementBits = def.PedersenGroupElementBits
	}
	if p.KZGCommitmentBits == 0 {
		p.KZGCommitmentBits = def.KZGCommitmentBits
	}
	if p.KZGProofBits == 0 {
		p.KZGProofBits = def.KZGProofBits
	}
	return p, nil
}

// Validate checks that every size and target is usable.
func (p Params) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"sampling_soundness", p.SamplingSoundness},
		{"statistical_security", p.StatisticalSecurity},
		{"hash_bits", p.HashBits},
		{"bls_field_element_bits", p.BLSFieldElementBits},
		{"bls_group_element_bits", p.BLSGroupElementBits},
		{"pedersen_field_element_bits", p.PedersenFieldElementBits},
		{"pedersen_group_element_bits", p.PedersenGroupElementBits},
		{"kzg_commitment_bits", p.KZGCommitmentBits},
		{"kzg_proof_bits", p.KZGProofBits},
	}
	for _, f := range positive {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidParams, f.name, f.value)
		}
	}
	if p.ROQueries < 0 {
		return fmt.Errorf("%w: ro_queries must be non-negative, got %d", ErrInvalidParams, p.ROQueries)
	}
	if p.Grinding < 0 {
		return fmt.Errorf("%w: grinding must be non-negative, got %d", ErrInvalidParams, p.Grinding)
	}
	if p.FRISoundness() <= 0 {
		return fmt.Errorf("%w: FRI soundness %d must be positive", ErrInvalidParams, p.FRISoundness())
	}
	return nil
}

// Package report sweeps scheme families over data sizes and writes the
// resulting cost series as CSV files, PNG plots and Prometheus textfiles.
package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/eth2030/dacost/fri"
	"github.com/eth2030/dacost/params"
	"github.com/eth2030/dacost/scheme"
)

// ErrUnknownFamily is returned by SelectFamilies.
var ErrUnknownFamily = errors.New("report: unknown scheme family")

// Family is a named scheme constructor taking a data size in bits.
type Family struct {
	Name  string
	Build func(datasize int) (scheme.Scheme, error)
}

// Family names.
const (
	FamilyKZG     = "rs"
	FamilyTensor  = "tensor"
	FamilyHash    = "hash"
	FamilyHomHash = "homhash"
	FamilyFRI     = "fri"
	FamilyMerkle  = "merkle"
	FamilyNaive   = "naive"
)

// DefaultFamilies returns the five families of the published comparison,
// in publication order.
func DefaultFamilies(p params.Params) []Family {
	return []Family{
		{FamilyKZG, func(ds int) (scheme.Scheme, error) {
			return scheme.NewKZG(p, ds, scheme.DefaultKZGInvRate)
		}},
		{FamilyTensor, func(ds int) (scheme.Scheme, error) {
			return scheme.NewTensor(p, ds, scheme.DefaultTensorInvRate)
		}},
		{FamilyHash, func(ds int) (scheme.Scheme, error) {
			return scheme.NewHashBased(p, ds, scheme.DefaultHashBasedOptions())
		}},
		{FamilyHomHash, func(ds int) (scheme.Scheme, error) {
			return scheme.NewHomHashBased(p, ds, scheme.DefaultHomHashOptions())
		}},
		{FamilyFRI, func(ds int) (scheme.Scheme, error) {
			s, _, err := fri.NewScheme(p, ds, fri.DefaultInvRate, fri.DefaultFieldSize)
			return s, err
		}},
	}
}

// AllFamilies returns DefaultFamilies plus the Merkle and naive baselines.
func AllFamilies(p params.Params) []Family {
	return append(DefaultFamilies(p),
		Family{FamilyMerkle, func(ds int) (scheme.Scheme, error) {
			return scheme.NewMerkle(p, ds, scheme.DefaultMerkleChunkSize)
		}},
		Family{FamilyNaive, func(ds int) (scheme.Scheme, error) {
			return scheme.NewNaive(p, ds)
		}},
	)
}

// SelectFamilies returns the named families in the given order. An empty
// list selects DefaultFamilies.
func SelectFamilies(p params.Params, names []string) ([]Family, error) {
	if len(names) == 0 {
		return DefaultFamilies(p), nil
	}
	byName := make(map[string]Family)
	for _, f := range AllFamilies(p) {
		byName[f.Name] = f
	}
	out := make([]Family, 0, len(names))
	for _, name := range names {
		f, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			known := make([]string, 0, len(byName))
			for k := range byName {
				known = append(known, k)
			}
			sort.Strings(known)
			return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownFamily, name, strings.Join(known, ", "))
		}
		out = append(out, f)
	}
	return out, nil
}

// Package fri chooses parameters for a batched FRI proximity proof over a
// Reed-Solomon code and prices the result as an erasure code commitment.
//
// The search is a heuristic over fixed candidate sets: for every fan-in and
// base dimension it picks the batch size that minimizes one query opening,
// then keeps the pair whose base layer covers the data most tightly.
package fri

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/eth2030/dacost/erasure"
	"github.com/eth2030/dacost/log"
	"github.com/eth2030/dacost/params"
	"github.com/eth2030/dacost/scheme"
)

var (
	ErrSoundnessInfeasible = errors.New("fri: field too small to reach the soundness target")
	ErrInvalidRate         = errors.New("fri: inverse rate must be at least 2")
	ErrInvalidDataSize     = errors.New("fri: data size must be positive")
	ErrInvalidFieldSize    = errors.New("fri: field size must be positive")
)

// Defaults of NewScheme.
const (
	DefaultInvRate   = 4
	DefaultFieldSize = 128

	// MaxBatchSize bounds the batch sizes GoodBatchSize scans.
	MaxBatchSize = 256
)

// Candidate sets of the grid search, in enumeration order. Changing them
// changes every reported FRI figure.
var (
	FanIns         = []int{4, 8, 16}
	BaseDimensions = []int{2, 4, 6, 8, 16, 32, 64, 128}
)

// Config is one FRI configuration found by Search.
type Config struct {
	BatchSize     int
	FanIn         int
	BaseDimension int
	Rounds        int
	Repetitions   int
	Dimension     int // basedimension * fanin^rounds
	DomainSize    int // invrate * Dimension
	Rate          float64
	FieldSize     int
	AuthSize      int // bits to open one base-layer position
}

// LogEps1 recomputes the distortion soundness exponent of c.
func (c Config) LogEps1() int {
	return LogEps1(c.DomainSize, c.FieldSize, c.BatchSize, c.FanIn)
}

// GoodBatchSize returns the batch size in [1, MaxBatchSize] that minimizes
// the size of a single query opening for the given fan-in and base
// dimension. Ties go to the larger batch size.
func GoodBatchSize(minfe, fsize, invrate, basedimension, fanin, hashBits int) int {
	rate := 1.0 / float64(invrate)
	authFor := func(b int) int {
		rounds := NumRounds(ceilDiv(minfe, b), fanin, basedimension)
		domain := basedimension * ipow(fanin, rounds) * invrate
		return AuthSize(domain, rate, fsize, b, fanin, basedimension, hashBits)
	}

	batchsize := 1
	minauth := authFor(1)
	for b := 1; b <= MaxBatchSize; b++ {
		if auth := authFor(b); auth <= minauth {
			batchsize = b
			minauth = auth
		}
	}
	return batchsize
}

type candidate struct {
	fanin, basedimension, batchsize, gap int
}

// GoodParameters returns (batchsize, fanin, basedimension) minimizing the
// gap between the dimension of the largest layer and the dimension needed
// for minfe elements. Candidates are evaluated concurrently and folded in
// enumeration order; a later candidate with an equal or smaller
// non-negative gap replaces the incumbent. It fails on an empty data size,
// an inverse rate below 2 or an empty field.
func GoodParameters(minfe, fsize, invrate, hashBits int) (batchsize, fanin, basedimension int, err error) {
	switch {
	case minfe < 1:
		return 0, 0, 0, fmt.Errorf("%w: %d field elements", ErrInvalidDataSize, minfe)
	case invrate < 2:
		return 0, 0, 0, fmt.Errorf("%w: %d", ErrInvalidRate, invrate)
	case fsize < 1:
		return 0, 0, 0, fmt.Errorf("%w: %d", ErrInvalidFieldSize, fsize)
	}

	cands := make([]candidate, 0, len(FanIns)*len(BaseDimensions))
	for _, f := range FanIns {
		for _, d := range BaseDimensions {
			cands = append(cands, candidate{fanin: f, basedimension: d})
		}
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range cands {
		c := &cands[i]
		g.Go(func() error {
			c.batchsize = GoodBatchSize(minfe, fsize, invrate, c.basedimension, c.fanin, hashBits)
			mink := ceilDiv(minfe, c.batchsize)
			rounds := NumRounds(mink, c.fanin, c.basedimension)
			c.gap = c.basedimension*ipow(c.fanin, rounds) - mink
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, 0, err
	}

	mingap := -1
	for _, c := range cands {
		if mingap == -1 || (c.gap >= 0 && c.gap <= mingap) {
			mingap = c.gap
			batchsize, fanin, basedimension = c.batchsize, c.fanin, c.basedimension
		}
	}
	return batchsize, fanin, basedimension, nil
}

// Search finds the FRI configuration for datasize bits of data at inverse
// rate invrate over a field of fsize bits.
func Search(p params.Params, datasize, invrate, fsize int) (Config, error) {
	if datasize < 1 {
		return Config{}, fmt.Errorf("%w: %d", ErrInvalidDataSize, datasize)
	}
	if invrate < 2 {
		return Config{}, fmt.Errorf("%w: %d", ErrInvalidRate, invrate)
	}
	if fsize < 1 {
		return Config{}, fmt.Errorf("%w: %d", ErrInvalidFieldSize, fsize)
	}

	minfe := ceilDiv(datasize, fsize)
	batchsize, fanin, basedimension, err := GoodParameters(minfe, fsize, invrate, p.HashBits)
	if err != nil {
		return Config{}, err
	}

	rounds := NumRounds(ceilDiv(minfe, batchsize), fanin, basedimension)
	k := basedimension * ipow(fanin, rounds)
	n := invrate * k
	rate := 1.0 / float64(invrate)

	reps, err := NumRepetitions(p.FRISoundness(), rate, n, fsize, batchsize, fanin)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BatchSize:     batchsize,
		FanIn:         fanin,
		BaseDimension: basedimension,
		Rounds:        rounds,
		Repetitions:   reps,
		Dimension:     k,
		DomainSize:    n,
		Rate:          rate,
		FieldSize:     fsize,
		AuthSize:      AuthSize(n, rate, fsize, batchsize, fanin, basedimension, p.HashBits),
	}
	log.Default().Module("fri").Debug("selected parameters",
		"minfe", minfe, "batch", cfg.BatchSize, "fanin", cfg.FanIn, "basedim", cfg.BaseDimension,
		"rounds", cfg.Rounds, "reps", cfg.Repetitions, "domain", cfg.DomainSize)
	return cfg, nil
}

// NewScheme prices the configuration Search finds for datasize bits.
//
// The code is RS[k, n] interleaved by the batch size. The commitment holds
// one root per round, one more for the batch tree, the final layer in the
// clear, and all Repetitions query openings. Opening one symbol costs the
// authentication size minus the symbol itself.
func NewScheme(p params.Params, datasize, invrate, fsize int) (scheme.Scheme, Config, error) {
	cfg, err := Search(p, datasize, invrate, fsize)
	if err != nil {
		return scheme.Scheme{}, Config{}, err
	}
	rs, err := erasure.NewRSCode(p.SamplingSoundness, fsize, cfg.Dimension, cfg.DomainSize)
	if err != nil {
		return scheme.Scheme{}, Config{}, err
	}
	code, err := rs.Interleave(cfg.BatchSize)
	if err != nil {
		return scheme.Scheme{}, Config{}, err
	}

	roots := cfg.Rounds * p.HashBits
	if cfg.BatchSize > 1 {
		roots += p.HashBits
	}
	final := cfg.BaseDimension * fsize
	openings := cfg.Repetitions * cfg.AuthSize
	overhead := cfg.AuthSize - cfg.BatchSize*fsize

	return scheme.New(code, roots+final+openings, overhead), cfg, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func ipow(base, exp int) int {
	out := 1
	for ; exp > 0; exp-- {
		out *= base
	}
	return out
}

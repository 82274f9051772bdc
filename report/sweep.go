package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/eth2030/dacost/crypto"
	"github.com/eth2030/dacost/log"
	"github.com/eth2030/dacost/scheme"
)

var (
	ErrInvalidSweep = errors.New("report: invalid sweep")
	ErrUnknownUnit  = errors.New("report: unknown data size unit")
)

// Unit is the data size unit of a sweep.
type Unit string

const (
	UnitMB   Unit = "mb"   // 10^6 bytes
	UnitBlob Unit = "blob" // one EIP-4844 blob
)

// Bits returns the size of one unit in bits.
func (u Unit) Bits() (int, error) {
	switch u {
	case UnitMB, "":
		return 8_000_000, nil
	case UnitBlob:
		return crypto.BlobBits(), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, string(u))
	}
}

// Sweep is the range of data sizes, in units, from Start up to but not
// including Stop.
type Sweep struct {
	Start int
	Stop  int
	Step  int
	Unit  Unit
}

// DefaultSweep is 1, 7, ..., 55 MB.
func DefaultSweep() Sweep {
	return Sweep{Start: 1, Stop: 60, Step: 6, Unit: UnitMB}
}

// Sizes lists the sweep points in units.
func (s Sweep) Sizes() ([]int, error) {
	if s.Start < 1 || s.Step < 1 || s.Stop <= s.Start {
		return nil, fmt.Errorf("%w: start=%d stop=%d step=%d", ErrInvalidSweep, s.Start, s.Stop, s.Step)
	}
	var out []int
	for x := s.Start; x < s.Stop; x += s.Step {
		out = append(out, x)
	}
	return out, nil
}

// Metric is one reported quantity of a scheme, scaled for display.
type Metric struct {
	Name  string // file and series suffix
	Unit  string
	Help  string
	Value func(scheme.Scheme) float64
}

// Metrics are the four published metrics in their published units.
var Metrics = []Metric{
	{"com", "megabytes", "Commitment size.", func(s scheme.Scheme) float64 {
		return float64(s.ComSize()) / 8e6
	}},
	{"comm_pq", "kilobytes", "Communication per query.", func(s scheme.Scheme) float64 {
		return s.CommPerQuery() / 8e3
	}},
	{"comm_total", "gigabytes", "Total communication of all queries.", func(s scheme.Scheme) float64 {
		return s.TotalComm() / 8e9
	}},
	{"encoding", "gigabytes", "Size of the authenticated encoding.", func(s scheme.Scheme) float64 {
		return float64(s.EncodingSize()) / 8e9
	}},
}

// Point is one (data size, value) pair. Size is in sweep units.
type Point struct {
	Size  int
	Value float64
}

// Series is the values of one metric of one family across a sweep.
type Series struct {
	Family string
	Metric Metric
	Unit   Unit
	Points []Point
}

// Run builds every family at every sweep size and returns one series per
// family and metric, ordered by family then by Metrics. It stops at the
// first construction error and checks ctx between families. A zero Unit is
// reported as UnitMB.
func Run(ctx context.Context, families []Family, sweep Sweep) ([]Series, error) {
	sizes, err := sweep.Sizes()
	if err != nil {
		return nil, err
	}
	unitBits, err := sweep.Unit.Bits()
	if err != nil {
		return nil, err
	}
	if sweep.Unit == "" {
		sweep.Unit = UnitMB
	}
	logger := log.Default().Module("report")

	out := make([]Series, 0, len(families)*len(Metrics))
	for _, fam := range families {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		series := make([]Series, len(Metrics))
		for i, m := range Metrics {
			series[i] = Series{Family: fam.Name, Metric: m, Unit: sweep.Unit, Points: make([]Point, 0, len(sizes))}
		}
		for _, x := range sizes {
			s, err := fam.Build(x * unitBits)
			if err != nil {
				return nil, fmt.Errorf("report: family %s at %d %s: %w", fam.Name, x, sweep.Unit, err)
			}
			for i, m := range Metrics {
				series[i].Points = append(series[i].Points, Point{Size: x, Value: m.Value(s)})
			}
		}
		logger.Info("family evaluated", "family", fam.Name, "points", len(sizes))
		out = append(out, series...)
	}
	return out, nil
}

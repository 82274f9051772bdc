package fri

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eth2030/dacost/params"
)

const hashBits = 256

// --- building blocks ---

func TestNumRounds(t *testing.T) {
	tests := []struct {
		mink, fanin, basedim, want int
	}{
		{1, 4, 2, 0},
		{2, 4, 2, 0},
		{3, 4, 2, 1},
		{8, 4, 2, 1},
		{9, 4, 2, 2},
		{100, 4, 2, 3},
		{2017, 16, 128, 1},
		{16204, 16, 64, 2},
	}
	for _, tt := range tests {
		got := NumRounds(tt.mink, tt.fanin, tt.basedim)
		assert.Equal(t, tt.want, got, "mink=%d fanin=%d basedim=%d", tt.mink, tt.fanin, tt.basedim)
		assert.GreaterOrEqual(t, tt.basedim*ipow(tt.fanin, got), tt.mink)
		if got > 0 {
			assert.Less(t, tt.basedim*ipow(tt.fanin, got-1), tt.mink)
		}
	}
}

func TestMerkleOpeningSize(t *testing.T) {
	// 2 * 4 * 128 + (4 - 1) * 256
	assert.Equal(t, 1792, MerkleOpeningSize(16, 4, 128, hashBits))
	assert.Equal(t, 4352, MerkleOpeningSize(1024, 8, 128, hashBits))
}

func TestAuthSize(t *testing.T) {
	assert.Equal(t, 3072, AuthSize(64, 0.25, 128, 1, 4, 2, hashBits))
	assert.Equal(t, 5376, AuthSize(64, 0.25, 128, 4, 4, 2, hashBits))
	assert.Equal(t, 9472, AuthSize(1024, 0.25, 128, 8, 4, 16, hashBits))
	// Nothing to fold: the whole layer is sent in the clear.
	assert.Equal(t, 0, AuthSize(8, 0.25, 128, 1, 16, 2, hashBits))
}

func TestNumRepetitions(t *testing.T) {
	tests := []struct {
		rate float64
		want int
	}{
		{0.25, 118},
		{0.5, 193},
		{0.125, 97},
	}
	for _, tt := range tests {
		got, err := NumRepetitions(80, tt.rate, 1024, 128, 1, 4)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "rate=%v", tt.rate)
	}
}

func TestNumRepetitionsInfeasible(t *testing.T) {
	_, err := NumRepetitions(80, 0.25, 1<<20, 64, 1, 16)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSoundnessInfeasible))
}

func TestNumRepetitionsRateOne(t *testing.T) {
	_, err := NumRepetitions(80, 1.0, 1024, 128, 1, 4)
	assert.True(t, errors.Is(err, ErrInvalidRate))
}

func TestGoodBatchSize(t *testing.T) {
	assert.Equal(t, 31, GoodBatchSize(62500, 128, 4, 128, 16, hashBits))
	assert.Equal(t, 8, GoodBatchSize(62500, 128, 4, 2, 4, hashBits))
}

// --- grid search ---

func TestGoodParameters(t *testing.T) {
	tests := []struct {
		minfe                 int
		batch, fanin, basedim int
	}{
		{62500, 31, 16, 128},
		{437500, 27, 16, 64},
		{1000, 21, 8, 6},
		{1, 1, 16, 2},
	}
	for _, tt := range tests {
		b, f, d, err := GoodParameters(tt.minfe, 128, 4, hashBits)
		require.NoError(t, err, "minfe=%d", tt.minfe)
		assert.Equal(t, tt.batch, b, "minfe=%d batch", tt.minfe)
		assert.Equal(t, tt.fanin, f, "minfe=%d fanin", tt.minfe)
		assert.Equal(t, tt.basedim, d, "minfe=%d basedim", tt.minfe)
	}
}

func TestGoodParametersDeterministic(t *testing.T) {
	b0, f0, d0, err := GoodParameters(437500, 128, 4, hashBits)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		b, f, d, err := GoodParameters(437500, 128, 4, hashBits)
		require.NoError(t, err)
		require.Equal(t, []int{b0, f0, d0}, []int{b, f, d})
	}
}

func TestGoodParametersErrors(t *testing.T) {
	tests := []struct {
		name                  string
		minfe, fsize, invrate int
		want                  error
	}{
		{"no data", 0, 128, 4, ErrInvalidDataSize},
		{"rate one", 1000, 128, 1, ErrInvalidRate},
		{"empty field", 1000, 0, 4, ErrInvalidFieldSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := GoodParameters(tt.minfe, tt.fsize, tt.invrate, hashBits)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestSearch(t *testing.T) {
	p := params.DefaultParams()
	tests := []struct {
		datasize int
		want     Config
	}{
		{8_000_000, Config{BatchSize: 31, FanIn: 16, BaseDimension: 128, Rounds: 1, Repetitions: 118,
			Dimension: 2048, DomainSize: 8192, Rate: 0.25, FieldSize: 128, AuthSize: 17152}},
		{56_000_000, Config{BatchSize: 27, FanIn: 16, BaseDimension: 64, Rounds: 2, Repetitions: 118,
			Dimension: 16384, DomainSize: 65536, Rate: 0.25, FieldSize: 128, AuthSize: 23552}},
		{128_000, Config{BatchSize: 21, FanIn: 8, BaseDimension: 6, Rounds: 1, Repetitions: 118,
			Dimension: 48, DomainSize: 192, Rate: 0.25, FieldSize: 128, AuthSize: 10240}},
		{384_000_000, Config{BatchSize: 23, FanIn: 16, BaseDimension: 32, Rounds: 3, Repetitions: 118,
			Dimension: 131072, DomainSize: 524288, Rate: 0.25, FieldSize: 128, AuthSize: 30464}},
	}
	for _, tt := range tests {
		got, err := Search(p, tt.datasize, DefaultInvRate, DefaultFieldSize)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "datasize=%d", tt.datasize)
	}
}

func TestSearchSoundnessGate(t *testing.T) {
	p := params.DefaultParams()
	for _, ds := range []int{1, 128_000, 8_000_000, 56_000_000, 384_000_000} {
		cfg, err := Search(p, ds, DefaultInvRate, DefaultFieldSize)
		require.NoError(t, err)
		assert.LessOrEqual(t, cfg.LogEps1(), -p.FRISoundness(), "datasize=%d", ds)
	}
}

func TestSearchErrors(t *testing.T) {
	p := params.DefaultParams()

	_, err := Search(p, 0, 4, 128)
	assert.True(t, errors.Is(err, ErrInvalidDataSize))

	_, err = Search(p, 8_000_000, 1, 128)
	assert.True(t, errors.Is(err, ErrInvalidRate))

	_, err = Search(p, 8_000_000, 4, 0)
	assert.True(t, errors.Is(err, ErrInvalidFieldSize))

	_, err = Search(p, 8_000_000, 4, 64)
	assert.True(t, errors.Is(err, ErrSoundnessInfeasible), "got %v", err)
}

func TestSearchStricterTargetFails(t *testing.T) {
	p := params.DefaultParams()
	p.Grinding = 0
	p.ROQueries = 100
	// 140 bits of soundness cannot be reached in a 128-bit field.
	_, err := Search(p, 8_000_000, 4, 128)
	assert.True(t, errors.Is(err, ErrSoundnessInfeasible))
}

// --- scheme ---

func TestNewScheme(t *testing.T) {
	p := params.DefaultParams()
	tests := []struct {
		datasize        int
		com, overhead   int
		samples, symbol int
		codewordLen     int
	}{
		{8_000_000, 2040832, 13184, 3544, 3968, 8192},
		{56_000_000, 2788096, 20096, 28221, 3456, 65536},
		{128_000, 1209600, 7552, 101, 2688, 192},
		{384_000_000, 3599872, 27520, 225639, 23 * 128, 524288},
	}
	for _, tt := range tests {
		s, cfg, err := NewScheme(p, tt.datasize, DefaultInvRate, DefaultFieldSize)
		require.NoError(t, err)
		assert.Equal(t, tt.com, s.ComSize(), "datasize=%d com", tt.datasize)
		assert.Equal(t, tt.overhead, s.OpeningOverhead(), "datasize=%d overhead", tt.datasize)
		assert.Equal(t, tt.samples, s.Samples(), "datasize=%d samples", tt.datasize)
		assert.Equal(t, tt.symbol, s.Code().SizeCodeSymbol(), "datasize=%d symbol", tt.datasize)
		assert.Equal(t, tt.codewordLen, s.EncodingLength(), "datasize=%d n", tt.datasize)
		assert.Equal(t, cfg.Dimension, s.Code().MsgLen())
		assert.Equal(t, cfg.BatchSize*DefaultFieldSize, s.Code().SizeMsgSymbol())
	}
}

func TestNewSchemeMetrics(t *testing.T) {
	s, _, err := NewScheme(params.DefaultParams(), 8_000_000, DefaultInvRate, DefaultFieldSize)
	require.NoError(t, err)
	assert.InDelta(t, 17165.0, s.CommPerQuery(), 1e-9)
	assert.InDelta(t, 60832760.0, s.TotalComm(), 1e-6)
	assert.Equal(t, 140509184, s.EncodingSize())
}

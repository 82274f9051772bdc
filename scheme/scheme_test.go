package scheme

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eth2030/dacost/erasure"
	"github.com/eth2030/dacost/params"
)

// oneMB is 1 MB of data in bits, the unit of the published sweeps.
const oneMB = 8_000_000

func TestSchemeMetrics(t *testing.T) {
	rs, err := erasure.NewRSCode(40, 128, 4, 16)
	require.NoError(t, err)
	s := New(rs, 256, 640)

	assert.Equal(t, rs.Samples(), s.Samples())
	assert.Equal(t, 4, s.Reception())
	assert.Equal(t, 16, s.EncodingLength())
	assert.InDelta(t, 4.0+640+128, s.CommPerQuery(), 1e-9)
	assert.InDelta(t, s.CommPerQuery()*float64(s.Samples()), s.TotalComm(), 1e-9)
	assert.Equal(t, 16*(640+128), s.EncodingSize())
	assert.Equal(t, 256, s.ComSize())
	assert.Equal(t, 640, s.OpeningOverhead())
	assert.True(t, s.Code().Equal(rs))
}

func TestCatalogPublishedValues(t *testing.T) {
	p := params.DefaultParams()

	tests := []struct {
		name         string
		build        func() (Scheme, error)
		com          int
		overhead     int
		samples      int
		reception    int
		codewordLen  int
		commPerQuery float64
		encodingSize int
	}{
		{
			name:  "naive",
			build: func() (Scheme, error) { return NewNaive(p, oneMB) },
			com:   256, overhead: 0, samples: 1, reception: 1, codewordLen: 1,
			commPerQuery: oneMB, encodingSize: oneMB,
		},
		{
			name:  "merkle",
			build: func() (Scheme, error) { return NewMerkle(p, oneMB, DefaultMerkleChunkSize) },
			com:   256, overhead: 13 * 256, samples: 286655, reception: 7813, codewordLen: 7813,
			commPerQuery: 4364.931660898852, encodingSize: 34002176,
		},
		{
			name:  "kzg",
			build: func() (Scheme, error) { return NewKZG(p, oneMB, DefaultKZGInvRate) },
			com:   384, overhead: 384, samples: 35881, reception: 20834, codewordLen: 83336,
			commPerQuery: 784.3466522341057, encodingSize: 64002048,
		},
		{
			name:  "tensor",
			build: func() (Scheme, error) { return NewTensor(p, oneMB, DefaultTensorInvRate) },
			com:   55680, overhead: 384, samples: 160115, reception: 62785, codewordLen: 84100,
			commPerQuery: 784.3598181800298, encodingSize: 84100 * 768,
		},
		{
			name:  "hash",
			build: func() (Scheme, error) { return NewHashBased(p, oneMB, DefaultHashBasedOptions()) },
			com:   2048000, overhead: 0, samples: 879, reception: 500, codewordLen: 2000,
			commPerQuery: 16010.965784284663, encodingSize: 2000 * 16000,
		},
		{
			name:  "homhash",
			build: func() (Scheme, error) { return NewHomHashBased(p, oneMB, DefaultHomHashOptions()) },
			com:   640032, overhead: 0, samples: 323, reception: 177, codewordLen: 708,
			commPerQuery: 45321.46760555008, encodingSize: 708 * 45312,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, tt.com, s.ComSize())
			assert.Equal(t, tt.overhead, s.OpeningOverhead())
			assert.Equal(t, tt.samples, s.Samples())
			assert.Equal(t, tt.reception, s.Reception())
			assert.Equal(t, tt.codewordLen, s.EncodingLength())
			assert.InDelta(t, tt.commPerQuery, s.CommPerQuery(), 1e-6)
			assert.Equal(t, tt.encodingSize, s.EncodingSize())
		})
	}
}

func TestMerkleSingleChunk(t *testing.T) {
	s, err := NewMerkle(params.DefaultParams(), 1000, 1024)
	require.NoError(t, err)
	assert.Equal(t, 0, s.OpeningOverhead())
	assert.Equal(t, 1, s.EncodingLength())
	assert.Equal(t, 1, s.Samples())
}

func TestHashSizeFlowsIntoCommitments(t *testing.T) {
	p := params.DefaultParams()
	p.HashBits = 512
	s, err := NewMerkle(p, oneMB, 1024)
	require.NoError(t, err)
	assert.Equal(t, 512, s.ComSize())
	assert.Equal(t, 13*512, s.OpeningOverhead())
}

func TestKZGSizesFlowIntoCommitments(t *testing.T) {
	p := params.DefaultParams()
	p.KZGCommitmentBits = 512
	p.KZGProofBits = 256

	kzg, err := NewKZG(p, oneMB, DefaultKZGInvRate)
	require.NoError(t, err)
	assert.Equal(t, 512, kzg.ComSize())
	assert.Equal(t, 256, kzg.OpeningOverhead())

	tensor, err := NewTensor(p, oneMB, DefaultTensorInvRate)
	require.NoError(t, err)
	// 20834 field elements fold into a 145 x 145 message.
	assert.Equal(t, 145*512, tensor.ComSize())
	assert.Equal(t, 256, tensor.OpeningOverhead())

	// The field element size is independent of the commitment sizes.
	def, err := NewKZG(params.DefaultParams(), oneMB, DefaultKZGInvRate)
	require.NoError(t, err)
	assert.Equal(t, def.EncodingLength(), kzg.EncodingLength())
}

func TestSoundnessFlowsIntoSamples(t *testing.T) {
	p := params.DefaultParams()
	base, err := NewKZG(p, oneMB, 4)
	require.NoError(t, err)
	p.SamplingSoundness = 80
	strict, err := NewKZG(p, oneMB, 4)
	require.NoError(t, err)
	assert.Greater(t, strict.Samples(), base.Samples())
	assert.True(t, strict.Code().Equal(base.Code()))
}

func TestCatalogErrors(t *testing.T) {
	p := params.DefaultParams()

	_, err := NewNaive(p, 0)
	assert.True(t, errors.Is(err, ErrInvalidDataSize))

	_, err = NewMerkle(p, oneMB, 0)
	assert.True(t, errors.Is(err, ErrInvalidChunkSize))

	_, err = NewKZG(p, oneMB, 0)
	assert.True(t, errors.Is(err, ErrInvalidRate))

	_, err = NewTensor(p, -1, 2)
	assert.True(t, errors.Is(err, ErrInvalidDataSize))

	_, err = NewHashBased(p, oneMB, HashBasedOptions{FieldBits: 32, P: -1, L: 1, InvRate: 4})
	assert.True(t, errors.Is(err, ErrInvalidRepeat))

	// A 4-bit field cannot hold the evaluation domain of 1 MB of data.
	_, err = NewHashBased(p, oneMB, HashBasedOptions{FieldBits: 4, P: 8, L: 64, InvRate: 4})
	assert.True(t, errors.Is(err, erasure.ErrFieldTooSmall), "got %v", err)
}

func TestCeilHelpers(t *testing.T) {
	assert.Equal(t, 0, ceilLog2(1))
	assert.Equal(t, 1, ceilLog2(2))
	assert.Equal(t, 2, ceilLog2(3))
	assert.Equal(t, 10, ceilLog2(1024))
	assert.Equal(t, 11, ceilLog2(1025))
	assert.Equal(t, 13, ceilLog2(7813))

	assert.Equal(t, 12, ceilSqrt(144))
	assert.Equal(t, 13, ceilSqrt(145))
	assert.Equal(t, int(math.Ceil(math.Sqrt(31250))), ceilSqrt(31250))
	assert.Equal(t, 3, ceilDiv(7, 3))
}

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-acquire-storage/internal/alloc"
)

func TestDimensionInitRejects(t *testing.T) {
	tests := []struct {
		name    string
		dimName []byte
		kind    DimensionKind
	}{
		{"null name", nil, DimensionSpatial},
		{"zero bytes", []byte{}, DimensionSpatial},
		{"empty name", []byte{0}, DimensionSpatial},
		{"none kind", CString("x"), DimensionNone},
		{"kind past end", CString("x"), dimensionKindCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Dimension
			err := d.Init(tt.dimName, tt.kind, 1, 1, 1)
			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.Equal(t, CodeDimensionInitInvalid, CodeOf(err))

			assert.Nil(t, d.Name.Bytes())
			assert.Equal(t, DimensionNone, d.Kind)
			assert.Zero(t, d.ArraySizePx)
			assert.Zero(t, d.ChunkSizePx)
			assert.Zero(t, d.ShardSizeChunks)
		})
	}
}

func TestDimensionInit(t *testing.T) {
	var d Dimension
	require.NoError(t, d.Init(CString("x"), DimensionSpatial, 1, 2, 3))
	defer d.Destroy()

	assert.Equal(t, "x", d.Name.String())
	assert.True(t, d.Name.IsOwned())
	assert.Equal(t, DimensionSpatial, d.Kind)
	assert.Equal(t, uint32(1), d.ArraySizePx)
	assert.Equal(t, uint32(2), d.ChunkSizePx)
	assert.Equal(t, uint32(3), d.ShardSizeChunks)
	assert.False(t, d.IsEmpty())
	assert.Equal(t, "x(Spatial) array=1px chunk=2px shard=3 chunks", d.String())
}

func TestDimensionInitReleasesPrevious(t *testing.T) {
	a := alloc.New(0)
	var d Dimension
	require.NoError(t, d.init(a, CString("first"), DimensionSpatial, 1, 1, 1))
	require.NoError(t, d.init(a, CString("second"), DimensionTime, 2, 2, 2))

	assert.Equal(t, "second", d.Name.String())
	assert.Equal(t, uint64(len("second")+1), a.Live())

	// a failed init leaves d as it was
	require.Error(t, d.init(a, nil, DimensionTime, 3, 3, 3))
	assert.Equal(t, "second", d.Name.String())
	assert.Equal(t, uint32(2), d.ArraySizePx)

	d.Destroy()
	assert.Equal(t, uint64(0), a.Live())
}

func TestDimensionCopy(t *testing.T) {
	a := alloc.New(0)

	var src, dst Dimension
	require.NoError(t, src.init(a, CString("channel"), DimensionChannel, 3, 1, 1))
	require.NoError(t, dst.init(a, CString("a much longer name"), DimensionSpatial, 9, 9, 9))
	before := a.Stats().TotalAllocations

	require.NoError(t, dst.copyFrom(a, &src))
	assert.Equal(t, before, a.Stats().TotalAllocations, "copy into a larger name must reuse it")

	assert.Equal(t, "channel", dst.Name.String())
	assert.Equal(t, DimensionChannel, dst.Kind)
	assert.Equal(t, uint32(3), dst.ArraySizePx)

	// independent buffers
	require.NoError(t, src.Name.Set(CString("renamed")))
	assert.Equal(t, "channel", dst.Name.String())

	require.NoError(t, dst.Copy(&dst))
	assert.Equal(t, "channel", dst.Name.String())

	src.Destroy()
	dst.Destroy()
	assert.Equal(t, uint64(0), a.Live())
}

func TestDimensionDestroyTwice(t *testing.T) {
	var d Dimension
	require.NoError(t, d.Init(CString("t"), DimensionTime, 1, 1, 1))

	d.Destroy()
	d.Destroy()

	assert.True(t, d.IsEmpty())
	assert.False(t, d.Name.IsOwned())
}

func TestDimensionKindString(t *testing.T) {
	tests := []struct {
		kind DimensionKind
		want string
	}{
		{DimensionNone, "None"},
		{DimensionSpatial, "Spatial"},
		{DimensionChannel, "Channel"},
		{DimensionTime, "Time"},
		{dimensionKindCount, "(unknown)"},
		{DimensionKind(200), "(unknown)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestDimensionKindStringDefinedForAll(t *testing.T) {
	for k := DimensionNone; k < dimensionKindCount; k++ {
		assert.NotEqual(t, byte('('), k.String()[0], "kind %d", k)
	}
}

func TestParseDimensionKind(t *testing.T) {
	tests := []struct {
		in      string
		want    DimensionKind
		wantErr bool
	}{
		{"spatial", DimensionSpatial, false},
		{"Channel", DimensionChannel, false},
		{"TIME", DimensionTime, false},
		{"none", DimensionNone, true},
		{"depth", DimensionNone, true},
		{"", DimensionNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDimensionKind(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidArgument)
				assert.Equal(t, CodeDimensionKindInvalid, CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

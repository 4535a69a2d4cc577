package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProps(t *testing.T) *StorageProperties {
	t.Helper()
	p := New()
	t.Cleanup(p.Destroy)
	require.NoError(t, p.Init(0, CString("out.zarr"), CString("{}"), PixelScale{X: 1, Y: 1}))
	pushDims(t, &p.Dimensions, xyzct)
	require.NoError(t, p.SetAppendDimension(4))
	return p
}

func TestValidate(t *testing.T) {
	p := validProps(t)
	require.NoError(t, p.Validate())

	g, err := p.Geometry()
	require.NoError(t, err)
	assert.Equal(t, 5, g.Rank())
	assert.True(t, g.Unbounded())
	assert.Equal(t, []uint64{4, 3, 3, 3, 0}, g.ChunkCounts())
	assert.Equal(t, uint64(6144), g.FrameBytes(2))
	assert.Equal(t, "t", g.Axes()[4].Name)

	chunk, err := g.FrameChunk(97)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 0, 0, 1, 1}, chunk)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, p *StorageProperties)
	}{
		{"no dimensions", func(t *testing.T, p *StorageProperties) {
			p.Dimensions.Destroy()
		}},
		{"too few dimensions", func(t *testing.T, p *StorageProperties) {
			require.NoError(t, p.Dimensions.Remove(4))
			require.NoError(t, p.Dimensions.Remove(3))
			require.NoError(t, p.Dimensions.Remove(2))
		}},
		{"first axis not spatial", func(t *testing.T, p *StorageProperties) {
			require.NoError(t, p.Dimensions.Remove(0))
			require.NoError(t, p.Dimensions.Insert(0, "c", DimensionChannel, 64, 16, 1))
		}},
		{"append dimension unset", func(t *testing.T, p *StorageProperties) {
			p.AppendDimension = 0
		}},
		{"append dimension removed", func(t *testing.T, p *StorageProperties) {
			require.NoError(t, p.Dimensions.Remove(4))
		}},
		{"zero chunk", func(t *testing.T, p *StorageProperties) {
			p.Dimensions.data[2].ChunkSizePx = 0
		}},
		{"chunk exceeds array", func(t *testing.T, p *StorageProperties) {
			p.Dimensions.data[1].ChunkSizePx = 49
		}},
		{"unbounded non-append", func(t *testing.T, p *StorageProperties) {
			p.Dimensions.data[3].ArraySizePx = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProps(t)
			tt.mutate(t, p)

			err := p.Validate()
			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.Equal(t, CodePropertiesValidateInvalid, CodeOf(err))
		})
	}
}

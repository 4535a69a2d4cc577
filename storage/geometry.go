package storage

import (
	"fmt"

	"github.com/robert-malhotra/go-acquire-storage/internal/layout"
)

// Geometry is the derived chunk and shard layout of validated properties.
type Geometry = layout.Geometry

// Axis is one axis of a Geometry.
type Axis = layout.Axis

// Validate checks that p describes an array a storage driver can lay frames
// out in: at least three dimensions, the first two spatial, a valid append
// dimension, non-zero chunk sizes no larger than their array sizes, and a
// non-zero array size on every dimension except the append dimension.
func (p *StorageProperties) Validate() error {
	_, err := p.Geometry()
	return err
}

// Geometry validates p and derives its chunk and shard layout.
func (p *StorageProperties) Geometry() (*Geometry, error) {
	n := p.Dimensions.Count()
	axes := make([]Axis, n)
	for i := 0; i < n; i++ {
		d := &p.Dimensions.data[i]
		if i < 2 && d.Kind != DimensionSpatial {
			return nil, fail(componentProperties, CodePropertiesValidateInvalid, ErrInvalidArgument,
				fmt.Sprintf("dimension %d (%s) must be spatial, got %s", i, d.Name.String(), d.Kind),
				"index", i, "kind", d.Kind.String())
		}
		axes[i] = Axis{
			Name:      d.Name.String(),
			ArraySize: uint64(d.ArraySizePx),
			ChunkSize: uint64(d.ChunkSizePx),
			ShardSize: uint64(d.ShardSizeChunks),
		}
	}

	g, err := layout.New(axes, p.AppendDimension)
	if err != nil {
		return nil, fail(componentProperties, CodePropertiesValidateInvalid, ErrInvalidArgument,
			err.Error(), "append_dimension", p.AppendDimension, "count", n)
	}
	return g, nil
}

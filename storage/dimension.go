package storage

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-acquire-storage/internal/alloc"
)

// DimensionKind classifies an axis of the output array.
type DimensionKind uint8

const (
	DimensionNone    DimensionKind = iota // Empty slot
	DimensionSpatial                      // x, y, z
	DimensionChannel                      // c
	DimensionTime                         // t
	dimensionKindCount
)

// String returns the display name of k.
func (k DimensionKind) String() string {
	switch k {
	case DimensionNone:
		return "None"
	case DimensionSpatial:
		return "Spatial"
	case DimensionChannel:
		return "Channel"
	case DimensionTime:
		return "Time"
	default:
		return "(unknown)"
	}
}

// Valid reports whether k names a real axis kind.
func (k DimensionKind) Valid() bool {
	return k > DimensionNone && k < dimensionKindCount
}

// ParseDimensionKind returns the kind whose display name matches s,
// ignoring case.
func ParseDimensionKind(s string) (DimensionKind, error) {
	for k := DimensionSpatial; k < dimensionKindCount; k++ {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return DimensionNone, fail(componentDimension, CodeDimensionKindInvalid, ErrInvalidArgument,
		fmt.Sprintf("unknown dimension kind %q", s), "kind", s)
}

// Dimension is one axis of the output array.
//
// A Dimension owns its Name. Kind DimensionNone marks an empty slot.
type Dimension struct {
	Name            String
	Kind            DimensionKind
	ArraySizePx     uint32 // Extent of the full array, in pixels
	ChunkSizePx     uint32 // Extent of a chunk, in pixels
	ShardSizeChunks uint32 // Extent of a shard, in chunks
}

// Init fills d with a freshly owned copy of name and the given extents,
// releasing whatever d held before. name must be non-nil with non-empty
// content and kind must be a valid, non-None kind; otherwise d is left
// unchanged.
func (d *Dimension) Init(name []byte, kind DimensionKind, arraySizePx, chunkSizePx, shardSizeChunks uint32) error {
	return d.init(alloc.Default(), name, kind, arraySizePx, chunkSizePx, shardSizeChunks)
}

func (d *Dimension) init(a *alloc.Allocator, name []byte, kind DimensionKind, arraySizePx, chunkSizePx, shardSizeChunks uint32) error {
	if err := checkDimension(name, kind); err != nil {
		return err
	}

	var out Dimension
	if err := out.Name.set(a, name); err != nil {
		return err
	}
	out.Kind = kind
	out.ArraySizePx = arraySizePx
	out.ChunkSizePx = chunkSizePx
	out.ShardSizeChunks = shardSizeChunks

	d.Destroy()
	*d = out
	return nil
}

func checkDimension(name []byte, kind DimensionKind) error {
	switch {
	case name == nil:
		return fail(componentDimension, CodeDimensionInitInvalid, ErrInvalidArgument,
			"dimension name cannot be null")
	case len(name) == 0:
		return fail(componentDimension, CodeDimensionInitInvalid, ErrInvalidArgument,
			"bytes of name must be positive")
	case name[0] == 0:
		return fail(componentDimension, CodeDimensionInitInvalid, ErrInvalidArgument,
			"dimension name cannot be empty")
	case !kind.Valid():
		return fail(componentDimension, CodeDimensionInitInvalid, ErrInvalidArgument,
			fmt.Sprintf("invalid dimension type: %s", kind), "kind", uint8(kind))
	}
	return nil
}

// Copy makes d a deep copy of src, reusing d's name buffer when it is large
// enough.
func (d *Dimension) Copy(src *Dimension) error {
	return d.copyFrom(alloc.Default(), src)
}

func (d *Dimension) copyFrom(a *alloc.Allocator, src *Dimension) error {
	if d == src {
		return nil
	}
	if err := d.Name.set(a, src.Name.Bytes()); err != nil {
		return err
	}
	d.Kind = src.Kind
	d.ArraySizePx = src.ArraySizePx
	d.ChunkSizePx = src.ChunkSizePx
	d.ShardSizeChunks = src.ShardSizeChunks
	return nil
}

// Destroy releases the name and resets d to an empty slot.
func (d *Dimension) Destroy() {
	d.Name.Destroy()
	*d = Dimension{}
}

// IsEmpty reports whether d is an unused slot.
func (d *Dimension) IsEmpty() bool {
	return d.Kind == DimensionNone
}

// String formats d for diagnostics.
func (d *Dimension) String() string {
	return fmt.Sprintf("%s(%s) array=%dpx chunk=%dpx shard=%d chunks",
		d.Name.String(), d.Kind, d.ArraySizePx, d.ChunkSizePx, d.ShardSizeChunks)
}

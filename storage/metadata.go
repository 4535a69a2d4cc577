package storage

import "fmt"

// Capability describes whether a driver supports a chunking or sharding
// setting and the extents it accepts.
type Capability struct {
	Supported bool
	Min       uint32 // Smallest accepted extent
	Max       uint32 // Largest accepted extent; 0 = no upper bound
}

func (c Capability) accepts(v uint32) bool {
	return v >= c.Min && (c.Max == 0 || v <= c.Max)
}

// PropertyMetadata is what a storage driver reports it can honour.
type PropertyMetadata struct {
	ChunkSize       Capability // Chunk extents, in pixels
	ShardSizeChunks Capability // Shard extents, in chunks
	Multiscale      bool
}

// CheckSupport reports the first setting of p that meta cannot honour.
//
// A dimension asks for chunking when its chunk is smaller than its array, and
// for sharding when a shard spans more than one chunk. Extents are only
// checked against bounds when the capability is supported.
func (p *StorageProperties) CheckSupport(meta PropertyMetadata) error {
	if p.EnableMultiscale && !meta.Multiscale {
		return fail(componentProperties, CodePropertiesUnsupported, ErrUnsupported,
			"multiscale is not supported", "setting", "multiscale")
	}

	for i := 0; i < p.Dimensions.Count(); i++ {
		d := &p.Dimensions.data[i]
		name := d.Name.String()

		chunked := d.ArraySizePx == 0 || d.ChunkSizePx < d.ArraySizePx
		switch {
		case chunked && !meta.ChunkSize.Supported:
			return fail(componentProperties, CodePropertiesUnsupported, ErrUnsupported,
				fmt.Sprintf("chunking along %s is not supported", name),
				"setting", "chunk_size", "dimension", name)
		case meta.ChunkSize.Supported && !meta.ChunkSize.accepts(d.ChunkSizePx):
			return fail(componentProperties, CodePropertiesUnsupported, ErrUnsupported,
				fmt.Sprintf("chunk size %d along %s is outside the supported range", d.ChunkSizePx, name),
				"setting", "chunk_size", "dimension", name, "value", d.ChunkSizePx)
		}

		sharded := d.ShardSizeChunks > 1
		switch {
		case sharded && !meta.ShardSizeChunks.Supported:
			return fail(componentProperties, CodePropertiesUnsupported, ErrUnsupported,
				fmt.Sprintf("sharding along %s is not supported", name),
				"setting", "shard_size_chunks", "dimension", name)
		case meta.ShardSizeChunks.Supported && !meta.ShardSizeChunks.accepts(max(d.ShardSizeChunks, 1)):
			return fail(componentProperties, CodePropertiesUnsupported, ErrUnsupported,
				fmt.Sprintf("shard size %d along %s is outside the supported range", d.ShardSizeChunks, name),
				"setting", "shard_size_chunks", "dimension", name, "value", d.ShardSizeChunks)
		}
	}
	return nil
}

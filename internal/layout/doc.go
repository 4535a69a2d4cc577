// Package layout derives the chunk and shard geometry of an acquisition array.
//
// A storage driver writes frames (2-d images spanning the first two axes)
// into an array of higher rank. The array is cut into chunks, and chunks are
// grouped into shards. This package answers the questions a driver asks while
// laying frames out: how many chunks and shards exist along each axis, how
// large they are in bytes, and which chunk a given frame lands in.
//
// # Axis order
//
// Axis 0 is the fastest varying. Axes 0 and 1 are the frame axes; every frame
// covers them completely. The remaining axes are walked fastest-first in index
// order, except the append axis which is always the slowest: frames extend the
// array along it. The append axis may have an array size of 0, meaning it is
// unbounded.
//
// # Chunk indexing
//
// Chunk coordinates are linearised with axis 0 varying fastest and the append
// axis slowest:
//
//	index = c[0] + n[0]*(c[1] + n[1]*(c[2] + ...))
//
// where n[d] is the chunk count along axis d. [Geometry.ChunkCoords] performs
// the inverse decomposition.
//
// # Key Types
//
//   - [Axis]: extents of one axis (array, chunk, shard)
//   - [Geometry]: validated, derived layout built by [New]
package layout

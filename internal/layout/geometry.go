package layout

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAxis = errors.New("invalid axis")
	ErrOutOfBounds = errors.New("coordinate out of bounds")
)

// Axis describes the extents of one array axis.
type Axis struct {
	Name      string
	ArraySize uint64 // Extent in pixels; 0 = unbounded (append axis only)
	ChunkSize uint64 // Extent of a chunk in pixels
	ShardSize uint64 // Extent of a shard in chunks; 0 means one chunk per shard
}

// Geometry is the derived chunk and shard layout of an array.
type Geometry struct {
	axes       []Axis
	appendAxis int

	// order lists axes fastest-first with the append axis last
	order  []int
	chunks []uint64 // chunk count per axis, 0 when unbounded
	shards []uint64 // shard count per axis, 0 when unbounded
}

// New validates axes and derives their geometry. appendAxis must not be one
// of the two frame axes.
func New(axes []Axis, appendAxis int) (*Geometry, error) {
	if len(axes) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 axes, got %d", ErrInvalidAxis, len(axes))
	}
	if appendAxis < 2 || appendAxis >= len(axes) {
		return nil, fmt.Errorf("%w: append axis %d not in [2, %d)", ErrInvalidAxis, appendAxis, len(axes))
	}

	g := &Geometry{
		axes:       make([]Axis, len(axes)),
		appendAxis: appendAxis,
		order:      make([]int, 0, len(axes)),
		chunks:     make([]uint64, len(axes)),
		shards:     make([]uint64, len(axes)),
	}
	copy(g.axes, axes)

	for d, ax := range g.axes {
		if ax.ChunkSize == 0 {
			return nil, fmt.Errorf("%w: axis %d (%s) has zero chunk size", ErrInvalidAxis, d, ax.Name)
		}
		if ax.ShardSize == 0 {
			g.axes[d].ShardSize = 1
			ax.ShardSize = 1
		}
		if ax.ArraySize == 0 {
			if d != appendAxis {
				return nil, fmt.Errorf("%w: axis %d (%s) has zero array size", ErrInvalidAxis, d, ax.Name)
			}
			continue
		}
		if ax.ChunkSize > ax.ArraySize {
			return nil, fmt.Errorf("%w: axis %d (%s) chunk size %d exceeds array size %d",
				ErrInvalidAxis, d, ax.Name, ax.ChunkSize, ax.ArraySize)
		}
		g.chunks[d] = ceilDiv(ax.ArraySize, ax.ChunkSize)
		g.shards[d] = ceilDiv(g.chunks[d], ax.ShardSize)
	}

	for d := range g.axes {
		if d != appendAxis {
			g.order = append(g.order, d)
		}
	}
	g.order = append(g.order, appendAxis)

	return g, nil
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}

// Rank returns the number of axes.
func (g *Geometry) Rank() int { return len(g.axes) }

// AppendAxis returns the index of the append axis.
func (g *Geometry) AppendAxis() int { return g.appendAxis }

// Axes returns a copy of the axes, with shard size 0 normalised to 1.
func (g *Geometry) Axes() []Axis {
	out := make([]Axis, len(g.axes))
	copy(out, g.axes)
	return out
}

// Unbounded reports whether the append axis has no fixed extent.
func (g *Geometry) Unbounded() bool {
	return g.axes[g.appendAxis].ArraySize == 0
}

// ChunkCounts returns the number of chunks along each axis.
// An unbounded append axis reports 0.
func (g *Geometry) ChunkCounts() []uint64 {
	out := make([]uint64, len(g.chunks))
	copy(out, g.chunks)
	return out
}

// ShardCounts returns the number of shards along each axis.
// An unbounded append axis reports 0.
func (g *Geometry) ShardCounts() []uint64 {
	out := make([]uint64, len(g.shards))
	copy(out, g.shards)
	return out
}

// TotalChunks returns the number of chunks in the array. The second result is
// false when the append axis is unbounded.
func (g *Geometry) TotalChunks() (uint64, bool) {
	if g.Unbounded() {
		return 0, false
	}
	n := uint64(1)
	for _, c := range g.chunks {
		n *= c
	}
	return n, true
}

// ChunksPerShard returns the number of chunks grouped into one shard.
func (g *Geometry) ChunksPerShard() uint64 {
	n := uint64(1)
	for _, ax := range g.axes {
		n *= ax.ShardSize
	}
	return n
}

// ChunkBytes returns the size in bytes of one chunk.
func (g *Geometry) ChunkBytes(bytesPerPixel uint64) uint64 {
	size := bytesPerPixel
	for _, ax := range g.axes {
		size *= ax.ChunkSize
	}
	return size
}

// ShardBytes returns the size in bytes of one full shard.
func (g *Geometry) ShardBytes(bytesPerPixel uint64) uint64 {
	return g.ChunkBytes(bytesPerPixel) * g.ChunksPerShard()
}

// FrameBytes returns the size in bytes of one frame.
func (g *Geometry) FrameBytes(bytesPerPixel uint64) uint64 {
	return bytesPerPixel * g.axes[0].ArraySize * g.axes[1].ArraySize
}

// FramesPerAppendStep returns how many frames are written before the append
// axis advances by one.
func (g *Geometry) FramesPerAppendStep() uint64 {
	n := uint64(1)
	for _, d := range g.order[:len(g.order)-1] {
		if d < 2 {
			continue
		}
		n *= g.axes[d].ArraySize
	}
	return n
}

// FrameCoords returns the pixel coordinate of frame along every axis. The
// frame axes are always 0.
func (g *Geometry) FrameCoords(frame uint64) ([]uint64, error) {
	coords := make([]uint64, len(g.axes))
	remaining := frame
	for _, d := range g.order {
		if d < 2 {
			continue
		}
		if d == g.appendAxis {
			coords[d] = remaining
			break
		}
		size := g.axes[d].ArraySize
		coords[d] = remaining % size
		remaining /= size
	}

	if !g.Unbounded() && coords[g.appendAxis] >= g.axes[g.appendAxis].ArraySize {
		return nil, fmt.Errorf("%w: frame %d past append axis extent %d",
			ErrOutOfBounds, frame, g.axes[g.appendAxis].ArraySize)
	}
	return coords, nil
}

// FrameChunk returns the coordinates of the chunk frame lands in. The frame
// axes report chunk 0; a frame spans every chunk along them.
func (g *Geometry) FrameChunk(frame uint64) ([]uint64, error) {
	coords, err := g.FrameCoords(frame)
	if err != nil {
		return nil, err
	}
	for d := range coords {
		coords[d] /= g.axes[d].ChunkSize
	}
	return coords, nil
}

// ShardOf returns the shard coordinates containing the given chunk.
func (g *Geometry) ShardOf(chunk []uint64) ([]uint64, error) {
	if err := g.checkChunk(chunk); err != nil {
		return nil, err
	}
	out := make([]uint64, len(chunk))
	for d, c := range chunk {
		out[d] = c / g.axes[d].ShardSize
	}
	return out, nil
}

// ChunkIndex linearises chunk coordinates, append axis slowest.
func (g *Geometry) ChunkIndex(chunk []uint64) (uint64, error) {
	if err := g.checkChunk(chunk); err != nil {
		return 0, err
	}
	return linearise(chunk, g.chunks, g.order), nil
}

// ShardIndex linearises shard coordinates, append axis slowest.
func (g *Geometry) ShardIndex(shard []uint64) (uint64, error) {
	if len(shard) != len(g.axes) {
		return 0, fmt.Errorf("%w: got %d coordinates for rank %d", ErrOutOfBounds, len(shard), len(g.axes))
	}
	for d, s := range shard {
		if g.shards[d] != 0 && s >= g.shards[d] {
			return 0, fmt.Errorf("%w: shard %d along axis %d, have %d", ErrOutOfBounds, s, d, g.shards[d])
		}
	}
	return linearise(shard, g.shards, g.order), nil
}

// ChunkCoords decomposes a linear chunk index into chunk coordinates.
func (g *Geometry) ChunkCoords(index uint64) ([]uint64, error) {
	coords := make([]uint64, len(g.axes))
	remaining := index
	for _, d := range g.order {
		if d == g.appendAxis {
			coords[d] = remaining
			break
		}
		coords[d] = remaining % g.chunks[d]
		remaining /= g.chunks[d]
	}
	if err := g.checkChunk(coords); err != nil {
		return nil, err
	}
	return coords, nil
}

func (g *Geometry) checkChunk(chunk []uint64) error {
	if len(chunk) != len(g.axes) {
		return fmt.Errorf("%w: got %d coordinates for rank %d", ErrOutOfBounds, len(chunk), len(g.axes))
	}
	for d, c := range chunk {
		if g.chunks[d] != 0 && c >= g.chunks[d] {
			return fmt.Errorf("%w: chunk %d along axis %d, have %d", ErrOutOfBounds, c, d, g.chunks[d])
		}
	}
	return nil
}

// linearise folds coords in the given axis order, first axis fastest.
func linearise(coords, counts []uint64, order []int) uint64 {
	var index uint64
	for i := len(order) - 1; i >= 0; i-- {
		d := order[i]
		if counts[d] == 0 {
			index = coords[d]
			continue
		}
		index = index*counts[d] + coords[d]
	}
	return index
}

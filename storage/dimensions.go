package storage

import (
	"fmt"

	"github.com/robert-malhotra/go-acquire-storage/internal/alloc"
)

const (
	// initialDimensionCapacity is the slot count of the first allocation;
	// the list doubles each time it fills up.
	initialDimensionCapacity = 4

	// MaxDimensions is the conventional upper bound on array rank. It is only
	// enforced when requested with WithMaxDimensions.
	MaxDimensions = 8
)

// Dimensions is an ordered list of Dimension. Index 0 is the fastest varying
// axis.
//
// Slots past Count are kept empty (DimensionNone), so the list never has a
// gap: scanning from 0 the first empty slot marks the end.
type Dimensions struct {
	data  []Dimension // len(data) is the capacity
	size  int
	limit int // 0 = unbounded
	alloc *alloc.Allocator
}

func (l *Dimensions) allocator() *alloc.Allocator {
	if l.alloc != nil {
		return l.alloc
	}
	return alloc.Default()
}

// Count returns the number of dimensions.
func (l *Dimensions) Count() int { return l.size }

// Capacity returns the number of slots currently allocated.
func (l *Dimensions) Capacity() int { return len(l.data) }

// Limit returns the maximum number of dimensions, or 0 when unbounded.
func (l *Dimensions) Limit() int { return l.limit }

// Insert places a new dimension at index, shifting the dimensions at index and
// after one slot toward the end. index may equal Count to append but may not
// be past it. The list is unchanged on failure.
func (l *Dimensions) Insert(index int, name string, kind DimensionKind, arraySizePx, chunkSizePx, shardSizeChunks uint32) error {
	if index < 0 || index > l.size {
		return fail(componentDimensions, CodeDimensionsInsertGap, ErrInvalidArgument,
			fmt.Sprintf("insert index %d is outside [0, %d]", index, l.size),
			"index", index, "count", l.size)
	}
	nameBytes := CString(name)
	if err := checkDimension(nameBytes, kind); err != nil {
		return err
	}
	if err := l.checkRoom(1); err != nil {
		return err
	}

	var dim Dimension
	if err := dim.init(l.allocator(), nameBytes, kind, arraySizePx, chunkSizePx, shardSizeChunks); err != nil {
		return err
	}
	l.place(index, dim)
	return nil
}

// PushBack appends a deep copy of d.
func (l *Dimensions) PushBack(d *Dimension) error {
	if d == nil {
		return fail(componentDimensions, CodeDimensionsInsertGap, ErrInvalidArgument,
			"cannot push a nil dimension")
	}
	if err := checkDimension(d.Name.Bytes(), d.Kind); err != nil {
		return err
	}
	if err := l.checkRoom(1); err != nil {
		return err
	}

	var dim Dimension
	if err := dim.copyFrom(l.allocator(), d); err != nil {
		return err
	}
	l.place(l.size, dim)
	return nil
}

func (l *Dimensions) checkRoom(n int) error {
	if l.limit > 0 && l.size+n > l.limit {
		return fail(componentDimensions, CodeDimensionsCapacity, ErrCapacityExceeded,
			fmt.Sprintf("cannot hold more than %d dimensions", l.limit),
			"count", l.size, "limit", l.limit)
	}
	return nil
}

func (l *Dimensions) place(index int, dim Dimension) {
	l.reserve(l.size + 1)
	copy(l.data[index+1:l.size+1], l.data[index:l.size])
	l.data[index] = dim
	l.size++
}

// reserve makes room for n dimensions, doubling the slot count as needed.
func (l *Dimensions) reserve(n int) {
	if n <= len(l.data) {
		return
	}
	capacity := len(l.data)
	if capacity == 0 {
		capacity = initialDimensionCapacity
	}
	for capacity < n {
		capacity *= 2
	}
	grown := make([]Dimension, capacity)
	copy(grown, l.data[:l.size])
	l.data = grown
}

// Remove releases the dimension at index and shifts later dimensions one slot
// toward the front. Capacity is kept.
func (l *Dimensions) Remove(index int) error {
	if index < 0 || index >= l.size {
		return fail(componentDimensions, CodeDimensionsRemoveRange, ErrOutOfRange,
			fmt.Sprintf("remove index %d is outside [0, %d)", index, l.size),
			"index", index, "count", l.size)
	}

	l.data[index].Destroy()
	copy(l.data[index:l.size-1], l.data[index+1:l.size])
	l.data[l.size-1] = Dimension{}
	l.size--
	return nil
}

// Get returns the dimension at index. The returned Name borrows the list's
// buffer: it stays owned by the list and is only valid until the list is next
// modified.
func (l *Dimensions) Get(index int) (Dimension, error) {
	if index < 0 || index >= l.size {
		return Dimension{}, fail(componentDimensions, CodeDimensionsGetRange, ErrOutOfRange,
			fmt.Sprintf("get index %d is outside [0, %d)", index, l.size),
			"index", index, "count", l.size)
	}
	d := l.data[index]
	d.Name = d.Name.view()
	return d, nil
}

// CopyFrom makes l a deep copy of src. Existing name buffers are reused where
// they are large enough. On failure l holds a prefix of src followed by its
// own earlier dimensions, every one of them validly owned.
func (l *Dimensions) CopyFrom(src *Dimensions) error {
	if l == src {
		return nil
	}
	if l.limit > 0 && src.size > l.limit {
		return fail(componentDimensions, CodeDimensionsCapacity, ErrCapacityExceeded,
			fmt.Sprintf("cannot hold %d dimensions, limit is %d", src.size, l.limit),
			"count", src.size, "limit", l.limit)
	}

	for i := src.size; i < l.size; i++ {
		l.data[i].Destroy()
	}
	l.size = min(l.size, src.size)
	l.reserve(src.size)

	a := l.allocator()
	for i := 0; i < src.size; i++ {
		if err := l.data[i].copyFrom(a, &src.data[i]); err != nil {
			l.size = max(l.size, i)
			return err
		}
	}
	l.size = src.size
	return nil
}

// Destroy releases every dimension and the slots holding them. The limit and
// allocator are kept. It is safe to call more than once.
func (l *Dimensions) Destroy() {
	for i := 0; i < l.size; i++ {
		l.data[i].Destroy()
	}
	l.data = nil
	l.size = 0
}

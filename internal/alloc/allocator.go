package alloc

import (
	"errors"
	"fmt"
	"sync"
)

// ErrExhausted is returned when an allocation would exceed the allocator's limit.
var ErrExhausted = errors.New("allocation limit exceeded")

// Allocator hands out byte buffers and keeps book of what is live.
// A single Allocator may back many owners, so it is safe for concurrent use.
type Allocator struct {
	mu sync.Mutex

	// limit is the maximum number of live bytes (0 = unlimited)
	limit uint64

	// live is the number of bytes currently handed out and not yet freed
	live uint64

	// stats tracks allocation statistics
	stats Stats
}

// Stats contains allocation statistics.
type Stats struct {
	TotalAllocations uint64 // Number of buffers obtained (fresh or grown)
	TotalGrows       uint64 // Number of allocations that replaced a smaller buffer
	TotalFrees       uint64 // Number of buffers released (including grown-out ones)
	TotalBytesAlloc  uint64 // Total bytes allocated
	TotalBytesFree   uint64 // Total bytes released
	LargestAlloc     uint64 // Largest single allocation
}

var defaultAllocator = New(0)

// Default returns the process-wide allocator used when no other is configured.
func Default() *Allocator {
	return defaultAllocator
}

// New creates an Allocator that refuses to keep more than limit bytes live.
// A limit of 0 means unlimited.
func New(limit uint64) *Allocator {
	return &Allocator{limit: limit}
}

// Alloc returns a zeroed buffer of the given size.
func (a *Allocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("negative allocation size %d", size)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.reserveLocked(0, uint64(size)); err != nil {
		return nil, err
	}
	a.recordLocked(uint64(size))

	return make([]byte, size), nil
}

// Grow returns a buffer of length size holding the contents of buf.
// When buf already has the capacity it is resliced and nothing is allocated.
// Otherwise a new buffer is allocated and buf is released; on failure buf is
// left untouched and still owned by the caller.
func (a *Allocator) Grow(buf []byte, size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("negative allocation size %d", size)
	}
	if size <= cap(buf) {
		return buf[:size], nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	old := uint64(cap(buf))
	if err := a.reserveLocked(old, uint64(size)); err != nil {
		return nil, err
	}
	a.recordLocked(uint64(size))
	a.stats.TotalGrows++
	a.releaseLocked(old)

	grown := make([]byte, size)
	copy(grown, buf)
	return grown, nil
}

// Free releases a buffer previously returned by Alloc or Grow.
func (a *Allocator) Free(buf []byte) {
	if cap(buf) == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseLocked(uint64(cap(buf)))
}

// reserveLocked checks that swapping a buffer of size old for one of size
// want stays within the limit.
func (a *Allocator) reserveLocked(old, want uint64) error {
	if a.limit == 0 {
		return nil
	}
	old = min(old, a.live)
	if a.live-old+want > a.limit {
		return fmt.Errorf("%w: %d bytes requested, %d of %d live", ErrExhausted, want, a.live, a.limit)
	}
	return nil
}

func (a *Allocator) recordLocked(size uint64) {
	a.live += size
	a.stats.TotalAllocations++
	a.stats.TotalBytesAlloc += size
	if size > a.stats.LargestAlloc {
		a.stats.LargestAlloc = size
	}
}

func (a *Allocator) releaseLocked(size uint64) {
	if size == 0 {
		return
	}
	if size > a.live {
		size = a.live
	}
	a.live -= size
	a.stats.TotalFrees++
	a.stats.TotalBytesFree += size
}

// Live returns the number of bytes currently allocated and not freed.
func (a *Allocator) Live() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// Limit returns the live-byte limit (0 = unlimited).
func (a *Allocator) Limit() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.limit
}

// SetLimit changes the live-byte limit. Buffers already handed out are not
// affected; only future allocations are checked.
func (a *Allocator) SetLimit(limit uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.limit = limit
}

// Stats returns a copy of the allocation statistics.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Validate checks that the live byte count agrees with the statistics.
func (a *Allocator) Validate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stats.TotalBytesFree > a.stats.TotalBytesAlloc {
		return fmt.Errorf("freed %d bytes but only %d were allocated", a.stats.TotalBytesFree, a.stats.TotalBytesAlloc)
	}
	if want := a.stats.TotalBytesAlloc - a.stats.TotalBytesFree; a.live != want {
		return fmt.Errorf("live bytes %d disagree with statistics (%d)", a.live, want)
	}
	if a.limit != 0 && a.live > a.limit {
		return fmt.Errorf("live bytes %d exceed limit %d", a.live, a.limit)
	}
	return nil
}

// Reset forgets all statistics and live bytes.
// This is primarily useful for testing.
func (a *Allocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.live = 0
	a.stats = Stats{}
}

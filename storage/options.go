package storage

import "github.com/robert-malhotra/go-acquire-storage/internal/alloc"

// Option configures a StorageProperties created with New.
type Option func(*options)

type options struct {
	byteLimit     uint64
	maxDimensions int
	allocator     *alloc.Allocator
}

func defaultOptions() *options {
	return &options{}
}

// WithByteLimit gives the properties a private allocator that refuses to keep
// more than limit bytes of string storage live. Exceeding it makes setters
// fail with ErrAllocation. 0 means unlimited.
func WithByteLimit(limit uint64) Option {
	return func(o *options) {
		o.byteLimit = limit
	}
}

// WithMaxDimensions bounds the number of dimensions. Inserts beyond it fail
// with ErrCapacityExceeded. 0 means unbounded; MaxDimensions is the
// conventional bound.
func WithMaxDimensions(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxDimensions = n
		}
	}
}

// withAllocator shares a specific allocator; tests use it to observe
// allocations.
func withAllocator(a *alloc.Allocator) Option {
	return func(o *options) {
		o.allocator = a
	}
}

// Package storage describes how a multi-dimensional acquisition stream is
// written to storage.
//
// A [StorageProperties] value carries the output filename, opaque external
// metadata, the physical pixel scale, and an ordered list of [Dimension]
// values. Each dimension has an array extent, a chunk extent and a shard
// extent (in chunks). One dimension, the append dimension, is the one frames
// extend along; the first two dimensions are the frame itself.
//
// # Ownership
//
// Strings are [String] values that either borrow caller memory or own a
// NUL-terminated buffer. Setters always copy into owned storage, reusing an
// existing allocation when it is large enough. Everything a value owns is
// released by its Destroy method, which is idempotent:
//
//	p := storage.New(storage.WithMaxDimensions(storage.MaxDimensions))
//	defer p.Destroy()
//	err := p.Init(0, storage.CString("out.zarr"), storage.CString(`{"a":1}`), storage.PixelScale{X: 1, Y: 1})
//	err = p.Dimensions.Insert(0, "x", storage.DimensionSpatial, 1920, 640, 1)
//
// Values are not safe for concurrent mutation; one owner manipulates a value
// at a time.
//
// # Errors
//
// Every failure wraps one of [ErrInvalidArgument], [ErrOutOfRange],
// [ErrCapacityExceeded], [ErrAllocation] or [ErrUnsupported], carries a
// [Code] retrievable with [CodeOf], and is reported to the diagnostic sink
// (see [SetLogger]) before being returned. Preconditions are checked before
// anything is mutated.
package storage

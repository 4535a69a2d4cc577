// Package alloc provides byte-buffer allocation for owned string storage.
//
// Every owned string in the storage package draws its bytes from an
// [Allocator]. Go's runtime never reports an out-of-memory condition to the
// caller, so the allocator is where allocation failure becomes observable: an
// optional live-byte limit turns an over-budget request into [ErrExhausted].
//
// # Allocator
//
// The [Allocator] type provides thread-safe buffer management with the
// following features:
//
//   - Fresh allocation: [Allocator.Alloc] returns a zeroed buffer.
//   - Growth: [Allocator.Grow] reuses a buffer's spare capacity and only
//     allocates when the request exceeds it. It never shrinks.
//   - Accounting: live bytes and [Stats] make leaks and redundant
//     reallocations visible.
//
// # Usage
//
//	a := alloc.New(0)          // unlimited
//	buf, err := a.Alloc(16)    // one allocation
//	buf, err = a.Grow(buf, 8)  // fits, no allocation
//	buf, err = a.Grow(buf, 32) // grows, old buffer released
//	a.Free(buf)
package alloc

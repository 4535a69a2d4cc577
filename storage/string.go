package storage

import (
	"bytes"
	"fmt"

	"github.com/robert-malhotra/go-acquire-storage/internal/alloc"
)

// String is a byte string that either borrows caller memory or owns a
// NUL-terminated buffer obtained from an allocator.
//
// The zero value is an empty borrowed string. A borrowed String never frees or
// writes its buffer. An owned String must be released with Destroy and must
// not be copied by value: two copies would both believe they own the buffer.
// Use Set to make an independent copy.
type String struct {
	buf   []byte // len(buf) is the byte length; cap(buf) the owned capacity
	owned bool
	from  *alloc.Allocator
}

var emptyCString = []byte{0}

// Borrow returns a String viewing b without copying it.
func Borrow(b []byte) String {
	return String{buf: b}
}

// CString returns s as a NUL-terminated byte slice.
func CString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// Set copies src into storage owned by s. A nil or empty src stores the empty
// string "\x00". The previous allocation is reused when it is large enough and
// grown otherwise; it is never shrunk. The last byte is always forced to NUL,
// so s is terminated even when src is not. src is never modified and may alias
// s's own buffer.
func (s *String) Set(src []byte) error {
	return s.set(alloc.Default(), src)
}

// set is Set drawing fresh buffers from a. A buffer that is already owned keeps
// growing from the allocator that produced it.
func (s *String) set(a *alloc.Allocator, src []byte) error {
	if len(src) == 0 {
		src = emptyCString
	}
	n := len(src)

	if !s.owned || s.buf == nil {
		buf, err := a.Alloc(n)
		if err != nil {
			return fail(componentString, CodeStringSetAllocation, ErrAllocation,
				fmt.Sprintf("failed to allocate %d bytes for string copy", n),
				"bytes", n, "cause", err.Error())
		}
		copy(buf, src)
		buf[n-1] = 0
		s.buf, s.owned, s.from = buf, true, a
		return nil
	}

	buf, err := s.from.Grow(s.buf, n)
	if err != nil {
		return fail(componentString, CodeStringSetAllocation, ErrAllocation,
			fmt.Sprintf("failed to grow string buffer from %d to %d bytes", cap(s.buf), n),
			"bytes", n, "capacity", cap(s.buf), "cause", err.Error())
	}
	copy(buf, src)
	// no residue from longer previous contents survives in spare capacity
	clear(buf[n:cap(buf)])
	buf[n-1] = 0
	s.buf = buf
	return nil
}

// Destroy releases the buffer if s owns it and resets s to the empty borrowed
// string. It is safe to call more than once.
func (s *String) Destroy() {
	if s.owned && s.buf != nil {
		s.from.Free(s.buf)
	}
	*s = String{}
}

// Len returns the number of bytes, including the terminator of an owned string.
func (s *String) Len() int { return len(s.buf) }

// Cap returns the owned capacity, or 0 for a borrowed string.
func (s *String) Cap() int {
	if !s.owned {
		return 0
	}
	return cap(s.buf)
}

// IsOwned reports whether s owns its buffer.
func (s *String) IsOwned() bool { return s.owned }

// IsEmpty reports whether s has no content before its first NUL.
func (s *String) IsEmpty() bool {
	return len(s.buf) == 0 || s.buf[0] == 0
}

// Bytes returns the raw bytes of s, terminator included. The slice aliases s
// and is only valid until s is next modified.
func (s *String) Bytes() []byte { return s.buf }

// String returns the content of s up to the first NUL.
func (s *String) String() string {
	if i := bytes.IndexByte(s.buf, 0); i >= 0 {
		return string(s.buf[:i])
	}
	return string(s.buf)
}

// view returns a borrowed String over the same bytes.
func (s *String) view() String {
	return String{buf: s.buf}
}

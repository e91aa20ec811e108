// Package cursor provides a bounds-checked, position-tracking reader over an
// in-memory byte buffer.
//
// The PGS wire format is big-endian, so all multi-byte reads decode with the
// big-endian engine. Reads are atomic: a read either consumes exactly its
// width and succeeds, or fails with errs.ErrUnexpectedEndOfStream without
// advancing, leaving the position at the count of bytes successfully consumed
// so far. Slice reads borrow from the underlying buffer without copying.
package cursor

import (
	"github.com/supkit/pgs/endian"
	"github.com/supkit/pgs/errs"
)

var engine = endian.GetBigEndianEngine()

// Cursor reads big-endian values sequentially from a byte slice.
// It is not safe for concurrent use.
type Cursor struct {
	data []byte
	pos  int
}

// New returns a cursor positioned at the start of data.
// The cursor borrows data; the caller must not mutate it while decoding.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the number of bytes consumed so far.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.data) }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// ReadUint8 consumes one byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	if c.Remaining() < 1 {
		return 0, errs.At(errs.ErrUnexpectedEndOfStream, c.pos)
	}

	v := c.data[c.pos]
	c.pos++

	return v, nil
}

// ReadUint16 consumes two bytes as a big-endian uint16.
func (c *Cursor) ReadUint16() (uint16, error) {
	if c.Remaining() < 2 {
		return 0, errs.At(errs.ErrUnexpectedEndOfStream, c.pos)
	}

	v := engine.Uint16(c.data[c.pos:])
	c.pos += 2

	return v, nil
}

// ReadUint24 consumes three bytes as a big-endian unsigned 24-bit value.
func (c *Cursor) ReadUint24() (uint32, error) {
	if c.Remaining() < 3 {
		return 0, errs.At(errs.ErrUnexpectedEndOfStream, c.pos)
	}

	b := c.data[c.pos:]
	v := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	c.pos += 3

	return v, nil
}

// ReadUint32 consumes four bytes as a big-endian uint32.
func (c *Cursor) ReadUint32() (uint32, error) {
	if c.Remaining() < 4 {
		return 0, errs.At(errs.ErrUnexpectedEndOfStream, c.pos)
	}

	v := engine.Uint32(c.data[c.pos:])
	c.pos += 4

	return v, nil
}

// ReadSlice consumes n bytes and returns them as a subslice of the underlying
// buffer. The returned slice aliases the cursor's data; callers that retain it
// beyond the buffer's lifetime must copy.
func (c *Cursor) ReadSlice(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, errs.At(errs.ErrUnexpectedEndOfStream, c.pos)
	}

	v := c.data[c.pos : c.pos+n : c.pos+n]
	c.pos += n

	return v, nil
}

// Skip consumes n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	if n < 0 || c.Remaining() < n {
		return errs.At(errs.ErrUnexpectedEndOfStream, c.pos)
	}

	c.pos += n

	return nil
}

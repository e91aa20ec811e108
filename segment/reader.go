package segment

import (
	"io"

	"github.com/supkit/pgs/cursor"
	"github.com/supkit/pgs/errs"
	"github.com/supkit/pgs/format"
)

// Reader walks a byte buffer segment by segment.
//
// The reader concerns itself with framing only: magic validation, header
// fields, and payload bounds. It advances its cursor by exactly the bytes it
// consumed, so after a truncation error the cursor position equals the count
// of bytes that were successfully read.
type Reader struct {
	cur *cursor.Cursor
}

// NewReader returns a reader over data, positioned at the first segment.
func NewReader(data []byte) *Reader {
	return &Reader{cur: cursor.New(data)}
}

// Pos returns the number of bytes consumed so far.
func (r *Reader) Pos() int { return r.cur.Pos() }

// Next reads one segment.
//
// Returns:
//   - *Segment: the raw segment with its payload slice borrowed from the input
//   - error: io.EOF when the buffer is exhausted exactly at a segment
//     boundary; errs.ErrInvalidMagic (at the segment's start) when the header
//     magic is wrong; errs.ErrUnexpectedEndOfStream (at the last successfully
//     consumed byte) when the buffer ends inside a header or payload
func (r *Reader) Next() (*Segment, error) {
	if r.cur.Remaining() == 0 {
		return nil, io.EOF
	}

	headerOffset := r.cur.Pos()

	magic, err := r.cur.ReadUint16()
	if err != nil {
		return nil, err
	}
	if magic != MagicNumber {
		return nil, errs.At(errs.ErrInvalidMagic, headerOffset)
	}

	typeByte, err := r.cur.ReadUint8()
	if err != nil {
		return nil, err
	}

	pts, err := r.cur.ReadUint32()
	if err != nil {
		return nil, err
	}

	dts, err := r.cur.ReadUint32()
	if err != nil {
		return nil, err
	}

	size, err := r.cur.ReadUint16()
	if err != nil {
		return nil, err
	}

	payloadOffset := r.cur.Pos()

	payload, err := r.cur.ReadSlice(int(size))
	if err != nil {
		return nil, err
	}

	return &Segment{
		Type:          format.SegmentType(typeByte),
		PTS:           pts,
		DTS:           dts,
		Payload:       payload,
		HeaderOffset:  headerOffset,
		PayloadOffset: payloadOffset,
	}, nil
}

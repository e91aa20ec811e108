package segment

import (
	"github.com/supkit/pgs/cursor"
	"github.com/supkit/pgs/errs"
	"github.com/supkit/pgs/format"
)

// dimensionFieldSize covers the width and height fields that the declared
// object data length includes on the wire.
const dimensionFieldSize = 4

// ObjectSegment is one decoded object definition fragment. Large bitmaps are
// split across several segments: the first fragment declares the total data
// length and dimensions, continuations carry only run-length data.
type ObjectSegment struct {
	ObjectID uint16
	Version  uint8
	Sequence format.SequenceFlag

	// DeclaredLength is the total run-length byte count the fragment sequence
	// must accumulate. Set on first-in-sequence fragments only.
	DeclaredLength int

	// Width and Height are the bitmap dimensions. Set on first-in-sequence
	// fragments only.
	Width  uint16
	Height uint16

	// Data is this fragment's run-length bytes (borrowed from the payload).
	Data []byte
}

func (*ObjectSegment) segmentBody() {}

// First reports whether this fragment starts an object's sequence.
func (o *ObjectSegment) First() bool { return o.Sequence.First() }

// Last reports whether this fragment is flagged as ending its sequence.
func (o *ObjectSegment) Last() bool { return o.Sequence.Last() }

// DecodeObject decodes an object definition payload: object id, version, and
// sequence flags, then, on first-in-sequence fragments, the declared total
// data length (a 24-bit count that includes the 4 width/height bytes), the
// dimensions, and the leading run-length chunk. Continuation fragments carry
// run-length bytes only.
//
// Returns:
//   - *ObjectSegment: the decoded fragment
//   - error: errs.ErrInvalidObjectDataLength (at the length field) when the
//     declared length cannot cover the dimension fields,
//     errs.ErrUnexpectedEndOfStream when the payload ends inside a field
func DecodeObject(payload []byte) (*ObjectSegment, error) {
	cur := cursor.New(payload)

	id, err := cur.ReadUint16()
	if err != nil {
		return nil, err
	}

	version, err := cur.ReadUint8()
	if err != nil {
		return nil, err
	}

	seqByte, err := cur.ReadUint8()
	if err != nil {
		return nil, err
	}

	seg := &ObjectSegment{
		ObjectID: id,
		Version:  version,
		Sequence: format.SequenceFlag(seqByte),
	}

	if seg.Sequence.First() {
		lengthPos := cur.Pos()
		declared, err := cur.ReadUint24()
		if err != nil {
			return nil, err
		}
		if declared < dimensionFieldSize {
			return nil, errs.At(errs.ErrInvalidObjectDataLength, lengthPos)
		}
		seg.DeclaredLength = int(declared) - dimensionFieldSize

		seg.Width, err = cur.ReadUint16()
		if err != nil {
			return nil, err
		}

		seg.Height, err = cur.ReadUint16()
		if err != nil {
			return nil, err
		}
	}

	seg.Data, err = cur.ReadSlice(cur.Remaining())
	if err != nil {
		return nil, err
	}

	return seg, nil
}

package segment

import (
	"github.com/supkit/pgs/errs"
	"github.com/supkit/pgs/format"
)

const (
	// MagicNumber is the "PG" marker every segment header starts with.
	MagicNumber uint16 = 0x5047

	// HeaderSize is the fixed byte size of a segment header.
	HeaderSize = 13
)

// Segment is one raw segment: the decoded header fields plus the undecoded
// payload. Payload borrows from the input buffer; decoders copy whatever they
// retain.
type Segment struct {
	// Type is the raw type byte. The reader does not validate it; unknown
	// types surface when the segment is decoded or assembled.
	Type format.SegmentType

	// PTS and DTS are 90 kHz clock ticks from the header.
	PTS uint32
	DTS uint32

	// Payload is the segment body, exactly the declared size.
	Payload []byte

	// HeaderOffset and PayloadOffset are absolute byte offsets into the
	// stream the segment was read from.
	HeaderOffset  int
	PayloadOffset int
}

// End returns the absolute offset one past the segment's last payload byte.
func (s *Segment) End() int {
	return s.PayloadOffset + len(s.Payload)
}

// Body is the decoded payload of a segment: one of *PaletteSegment,
// *ObjectSegment, *CompositionSegment, *WindowSegment, or EndSegment.
type Body interface {
	segmentBody()
}

// EndSegment closes a display set. It carries no data.
type EndSegment struct{}

func (EndSegment) segmentBody() {}

// Decode interprets the segment payload according to its type byte.
//
// Returns:
//   - Body: the typed payload
//   - error: errs.ErrUnknownSegmentType for an unrecognized type byte, or the
//     per-type decode error with an offset relative to the payload start
func Decode(seg *Segment) (Body, error) {
	switch seg.Type {
	case format.SegmentTypePDS:
		return DecodePalette(seg.Payload)
	case format.SegmentTypeODS:
		return DecodeObject(seg.Payload)
	case format.SegmentTypePCS:
		return DecodeComposition(seg.Payload)
	case format.SegmentTypeWDS:
		return DecodeWindows(seg.Payload)
	case format.SegmentTypeEND:
		// Non-empty payloads exist in the wild; discard rather than reject.
		return EndSegment{}, nil
	default:
		return nil, errs.ErrUnknownSegmentType
	}
}

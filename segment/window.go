package segment

import (
	"github.com/supkit/pgs/endian"
	"github.com/supkit/pgs/errs"
)

// windowRecordSize is the wire size of one window definition record.
const windowRecordSize = 9

// WindowDefinition is one on-screen region objects are composed into.
type WindowDefinition struct {
	ID     uint8
	X      uint16
	Y      uint16
	Width  uint16
	Height uint16
}

// WindowSegment is a decoded window definition segment.
type WindowSegment struct {
	Windows []WindowDefinition
}

func (*WindowSegment) segmentBody() {}

// DecodeWindows decodes a window definition payload: a count byte followed by
// 9-byte records. The declared count must exactly consume the remaining
// payload.
//
// Returns:
//   - *WindowSegment: the decoded windows in wire order
//   - error: errs.ErrUnexpectedEndOfStream when the count byte is missing,
//     errs.ErrWindowCountMismatch (at the count byte) when the declared count
//     and the payload length disagree
func DecodeWindows(payload []byte) (*WindowSegment, error) {
	if len(payload) < 1 {
		return nil, errs.At(errs.ErrUnexpectedEndOfStream, 0)
	}

	count := int(payload[0])
	if len(payload)-1 != count*windowRecordSize {
		return nil, errs.At(errs.ErrWindowCountMismatch, 0)
	}

	engine := endian.GetBigEndianEngine()
	seg := &WindowSegment{Windows: make([]WindowDefinition, 0, count)}

	for i := range count {
		base := 1 + i*windowRecordSize
		seg.Windows = append(seg.Windows, WindowDefinition{
			ID:     payload[base],
			X:      engine.Uint16(payload[base+1 : base+3]),
			Y:      engine.Uint16(payload[base+3 : base+5]),
			Width:  engine.Uint16(payload[base+5 : base+7]),
			Height: engine.Uint16(payload[base+7 : base+9]),
		})
	}

	return seg, nil
}

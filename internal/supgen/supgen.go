// Package supgen builds synthetic presentation graphic streams for tests.
// It is the encode-side mirror of the decoders, kept internal: the public
// module surface stays read-only.
package supgen

import (
	"github.com/supkit/pgs/endian"
	"github.com/supkit/pgs/format"
)

var engine = endian.GetBigEndianEngine()

// Segment frames payload with a 13-byte segment header.
func Segment(typ format.SegmentType, pts, dts uint32, payload []byte) []byte {
	buf := make([]byte, 0, 13+len(payload))
	buf = engine.AppendUint16(buf, 0x5047)
	buf = append(buf, byte(typ))
	buf = engine.AppendUint32(buf, pts)
	buf = engine.AppendUint32(buf, dts)
	buf = engine.AppendUint16(buf, uint16(len(payload)))
	buf = append(buf, payload...)

	return buf
}

// Concat joins whole segments into one stream buffer.
func Concat(segments ...[]byte) []byte {
	var buf []byte
	for _, s := range segments {
		buf = append(buf, s...)
	}

	return buf
}

// CompositionObject mirrors one placement record in a composition payload.
type CompositionObject struct {
	ObjectID uint16
	WindowID uint8
	Cropped  bool
	X, Y     uint16
	CropX    uint16
	CropY    uint16
	CropW    uint16
	CropH    uint16
}

// CompositionPayload builds a presentation composition payload.
func CompositionPayload(width, height uint16, frameRate uint8, number uint16,
	state format.CompositionState, paletteUpdate bool, paletteID uint8,
	objects ...CompositionObject,
) []byte {
	buf := make([]byte, 0, 11+len(objects)*16)
	buf = engine.AppendUint16(buf, width)
	buf = engine.AppendUint16(buf, height)
	buf = append(buf, frameRate)
	buf = engine.AppendUint16(buf, number)
	buf = append(buf, byte(state))

	if paletteUpdate {
		buf = append(buf, 0x80)
	} else {
		buf = append(buf, 0x00)
	}
	buf = append(buf, paletteID, uint8(len(objects)))

	for _, obj := range objects {
		buf = engine.AppendUint16(buf, obj.ObjectID)
		buf = append(buf, obj.WindowID)
		if obj.Cropped {
			buf = append(buf, 0x40)
		} else {
			buf = append(buf, 0x00)
		}
		buf = engine.AppendUint16(buf, obj.X)
		buf = engine.AppendUint16(buf, obj.Y)
		if obj.Cropped {
			buf = engine.AppendUint16(buf, obj.CropX)
			buf = engine.AppendUint16(buf, obj.CropY)
			buf = engine.AppendUint16(buf, obj.CropW)
			buf = engine.AppendUint16(buf, obj.CropH)
		}
	}

	return buf
}

// Window mirrors one window definition record.
type Window struct {
	ID   uint8
	X, Y uint16
	W, H uint16
}

// WindowPayload builds a window definition payload with a correct count byte.
func WindowPayload(windows ...Window) []byte {
	buf := make([]byte, 0, 1+len(windows)*9)
	buf = append(buf, uint8(len(windows)))
	for _, w := range windows {
		buf = append(buf, w.ID)
		buf = engine.AppendUint16(buf, w.X)
		buf = engine.AppendUint16(buf, w.Y)
		buf = engine.AppendUint16(buf, w.W)
		buf = engine.AppendUint16(buf, w.H)
	}

	return buf
}

// PaletteEntry mirrors one 5-byte palette entry record.
type PaletteEntry struct {
	ID    uint8
	Y     uint8
	Cr    uint8
	Cb    uint8
	Alpha uint8
}

// PalettePayload builds a palette definition payload.
func PalettePayload(id, version uint8, entries ...PaletteEntry) []byte {
	buf := make([]byte, 0, 2+len(entries)*5)
	buf = append(buf, id, version)
	for _, e := range entries {
		buf = append(buf, e.ID, e.Y, e.Cr, e.Cb, e.Alpha)
	}

	return buf
}

// ObjectFirstPayload builds a first-in-sequence object fragment. rleTotal is
// the run-length byte count the whole sequence declares; the wire field adds
// the 4 dimension bytes on top.
func ObjectFirstPayload(id uint16, version uint8, seq format.SequenceFlag,
	rleTotal int, width, height uint16, data []byte,
) []byte {
	buf := make([]byte, 0, 11+len(data))
	buf = engine.AppendUint16(buf, id)
	buf = append(buf, version, byte(seq))

	wireLen := uint32(rleTotal + 4) //nolint: gosec
	buf = append(buf, byte(wireLen>>16), byte(wireLen>>8), byte(wireLen))
	buf = engine.AppendUint16(buf, width)
	buf = engine.AppendUint16(buf, height)
	buf = append(buf, data...)

	return buf
}

// ObjectContPayload builds a continuation object fragment.
func ObjectContPayload(id uint16, version uint8, seq format.SequenceFlag, data []byte) []byte {
	buf := make([]byte, 0, 4+len(data))
	buf = engine.AppendUint16(buf, id)
	buf = append(buf, version, byte(seq))
	buf = append(buf, data...)

	return buf
}

// EndSegment frames an empty end segment.
func EndSegment(pts, dts uint32) []byte {
	return Segment(format.SegmentTypeEND, pts, dts, nil)
}

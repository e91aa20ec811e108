package segment

import (
	"github.com/supkit/pgs/cursor"
	"github.com/supkit/pgs/errs"
	"github.com/supkit/pgs/format"
)

const (
	// paletteUpdateFlag marks a composition that only refreshes the palette.
	paletteUpdateFlag = 0x80

	// croppedFlag marks a composition object with a forced crop rectangle.
	croppedFlag = 0x40
)

// CropRect is the forced crop rectangle of a composition object.
type CropRect struct {
	X      uint16
	Y      uint16
	Width  uint16
	Height uint16
}

// CompositionObject places one bitmap object inside a window.
type CompositionObject struct {
	ObjectID uint16
	WindowID uint8

	// Cropped reports whether the forced-crop flag was set; Crop holds the
	// rectangle and is zero otherwise.
	Cropped bool
	X       uint16
	Y       uint16
	Crop    CropRect
}

// CompositionSegment is a decoded presentation composition segment. It opens
// a display set.
type CompositionSegment struct {
	Width     uint16
	Height    uint16
	FrameRate uint8

	// Number increments per composition in the stream (wraps at 65535).
	Number uint16

	State format.CompositionState

	// PaletteUpdate reports the palette-update flag; PaletteID names the
	// palette the composition displays with.
	PaletteUpdate bool
	PaletteID     uint8

	Objects []CompositionObject
}

func (*CompositionSegment) segmentBody() {}

// DecodeComposition decodes a presentation composition payload: the fixed
// 11-byte header followed by one record per composition object (8 bytes, plus
// 8 more when the object's forced-crop flag is set).
//
// Returns:
//   - *CompositionSegment: the decoded composition
//   - error: errs.ErrInvalidCompositionState (at the state byte) for an
//     unknown state value, errs.ErrUnexpectedEndOfStream when the payload
//     ends inside the header or a record
//
// Bytes after the declared object records are ignored.
func DecodeComposition(payload []byte) (*CompositionSegment, error) {
	cur := cursor.New(payload)

	width, err := cur.ReadUint16()
	if err != nil {
		return nil, err
	}

	height, err := cur.ReadUint16()
	if err != nil {
		return nil, err
	}

	frameRate, err := cur.ReadUint8()
	if err != nil {
		return nil, err
	}

	number, err := cur.ReadUint16()
	if err != nil {
		return nil, err
	}

	statePos := cur.Pos()
	stateByte, err := cur.ReadUint8()
	if err != nil {
		return nil, err
	}
	state := format.CompositionState(stateByte)
	if !state.Valid() {
		return nil, errs.At(errs.ErrInvalidCompositionState, statePos)
	}

	updateByte, err := cur.ReadUint8()
	if err != nil {
		return nil, err
	}

	paletteID, err := cur.ReadUint8()
	if err != nil {
		return nil, err
	}

	objectCount, err := cur.ReadUint8()
	if err != nil {
		return nil, err
	}

	seg := &CompositionSegment{
		Width:         width,
		Height:        height,
		FrameRate:     frameRate,
		Number:        number,
		State:         state,
		PaletteUpdate: updateByte == paletteUpdateFlag,
		PaletteID:     paletteID,
		Objects:       make([]CompositionObject, 0, objectCount),
	}

	for range objectCount {
		obj, err := decodeCompositionObject(cur)
		if err != nil {
			return nil, err
		}

		seg.Objects = append(seg.Objects, obj)
	}

	return seg, nil
}

func decodeCompositionObject(cur *cursor.Cursor) (CompositionObject, error) {
	var obj CompositionObject

	id, err := cur.ReadUint16()
	if err != nil {
		return obj, err
	}

	windowID, err := cur.ReadUint8()
	if err != nil {
		return obj, err
	}

	cropByte, err := cur.ReadUint8()
	if err != nil {
		return obj, err
	}

	x, err := cur.ReadUint16()
	if err != nil {
		return obj, err
	}

	y, err := cur.ReadUint16()
	if err != nil {
		return obj, err
	}

	obj = CompositionObject{
		ObjectID: id,
		WindowID: windowID,
		Cropped:  cropByte == croppedFlag,
		X:        x,
		Y:        y,
	}

	if !obj.Cropped {
		return obj, nil
	}

	obj.Crop.X, err = cur.ReadUint16()
	if err != nil {
		return obj, err
	}

	obj.Crop.Y, err = cur.ReadUint16()
	if err != nil {
		return obj, err
	}

	obj.Crop.Width, err = cur.ReadUint16()
	if err != nil {
		return obj, err
	}

	obj.Crop.Height, err = cur.ReadUint16()
	if err != nil {
		return obj, err
	}

	return obj, nil
}

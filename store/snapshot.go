package store

import (
	"fmt"

	"github.com/supkit/pgs/display"
	"github.com/supkit/pgs/endian"
	"github.com/supkit/pgs/errs"
	"github.com/supkit/pgs/format"
	"github.com/supkit/pgs/internal/pool"
	"github.com/supkit/pgs/segment"
)

// The snapshot format is internal to the store: little-endian, versioned,
// and free to change between releases. Object pixel data is not inlined;
// each object record references a compressed blob in the store's blob table
// so that deduplicated bitmaps are stored once.
const (
	snapshotVersion = 1

	// snapshotHeaderSize is the fixed prefix: version, timestamps, the
	// composition's scalar fields, section counts, and the stream span.
	snapshotHeaderSize = 44

	compObjectRecordSize = 16
	windowRecordSize     = 9
	palettePrefixSize    = 4
	paletteEntrySize     = 5
	objectRecordSize     = 15
)

var engine = endian.GetLittleEndianEngine()

// objectBlobRef pairs one stored object's metadata with the index of the
// blob holding its compressed pixels.
type objectBlobRef struct {
	object *display.Object
	blob   uint32
}

// encodeSnapshot serializes set into buf, with object pixel data replaced by
// blob references. objects must be sorted by object id so snapshots of equal
// sets are byte-identical.
func encodeSnapshot(buf *pool.ByteBuffer, set *display.Set, objects []objectBlobRef) {
	comp := &set.Composition

	var hdr [snapshotHeaderSize]byte
	hdr[0] = snapshotVersion
	engine.PutUint32(hdr[1:5], set.PTS)
	engine.PutUint32(hdr[5:9], set.DTS)
	engine.PutUint16(hdr[9:11], comp.Width)
	engine.PutUint16(hdr[11:13], comp.Height)
	hdr[13] = comp.FrameRate
	engine.PutUint16(hdr[14:16], comp.Number)
	hdr[16] = uint8(comp.State)
	hdr[17] = encodeBool(comp.PaletteUpdate)
	hdr[18] = comp.PaletteID
	hdr[19] = uint8(len(comp.Objects))                      //nolint: gosec
	engine.PutUint16(hdr[20:22], uint16(len(set.Windows)))  //nolint: gosec
	engine.PutUint16(hdr[22:24], uint16(len(set.Palettes))) //nolint: gosec
	engine.PutUint32(hdr[24:28], uint32(len(objects)))      //nolint: gosec
	engine.PutUint64(hdr[28:36], uint64(set.Span.Start))    //nolint: gosec
	engine.PutUint64(hdr[36:44], uint64(set.Span.End))      //nolint: gosec
	buf.MustWrite(hdr[:])

	for i := range comp.Objects {
		obj := &comp.Objects[i]
		var rec [compObjectRecordSize]byte
		engine.PutUint16(rec[0:2], obj.ObjectID)
		rec[2] = obj.WindowID
		rec[3] = encodeBool(obj.Cropped)
		engine.PutUint16(rec[4:6], obj.X)
		engine.PutUint16(rec[6:8], obj.Y)
		engine.PutUint16(rec[8:10], obj.Crop.X)
		engine.PutUint16(rec[10:12], obj.Crop.Y)
		engine.PutUint16(rec[12:14], obj.Crop.Width)
		engine.PutUint16(rec[14:16], obj.Crop.Height)
		buf.MustWrite(rec[:])
	}

	for _, id := range sortedKeys(set.Windows) {
		w := set.Windows[id]
		var rec [windowRecordSize]byte
		rec[0] = w.ID
		engine.PutUint16(rec[1:3], w.X)
		engine.PutUint16(rec[3:5], w.Y)
		engine.PutUint16(rec[5:7], w.Width)
		engine.PutUint16(rec[7:9], w.Height)
		buf.MustWrite(rec[:])
	}

	for _, id := range sortedKeys(set.Palettes) {
		table := set.Palettes[id]
		var prefix [palettePrefixSize]byte
		prefix[0] = table.ID
		prefix[1] = table.Version
		engine.PutUint16(prefix[2:4], uint16(len(table.Entries))) //nolint: gosec
		buf.MustWrite(prefix[:])

		for _, entryID := range sortedKeys(table.Entries) {
			e := table.Entries[entryID]
			buf.MustWrite([]byte{e.ID, e.Y, e.Cr, e.Cb, e.Alpha})
		}
	}

	for _, ref := range objects {
		o := ref.object
		var rec [objectRecordSize]byte
		engine.PutUint16(rec[0:2], o.ID)
		rec[2] = o.Version
		engine.PutUint16(rec[3:5], o.Width)
		engine.PutUint16(rec[5:7], o.Height)
		engine.PutUint32(rec[7:11], uint32(len(o.Pixels))) //nolint: gosec
		engine.PutUint32(rec[11:15], ref.blob)
		buf.MustWrite(rec[:])
	}
}

// pixelLoader resolves a blob reference to decompressed pixel data of the
// given length.
type pixelLoader func(blob uint32, length int) ([]byte, error)

// snapshotReader walks a snapshot payload with bounds checks. A short read
// means the store's internal state is corrupt, not that the input stream was.
type snapshotReader struct {
	data []byte
	off  int
}

func (r *snapshotReader) take(n int) ([]byte, error) {
	if len(r.data)-r.off < n {
		return nil, fmt.Errorf("%w: truncated at byte %d", errs.ErrCorruptSnapshot, r.off)
	}

	b := r.data[r.off : r.off+n]
	r.off += n

	return b, nil
}

// decodeSnapshot reverses encodeSnapshot, resolving pixel data through
// pixels. The returned set owns all of its memory.
func decodeSnapshot(data []byte, pixels pixelLoader) (*display.Set, error) {
	r := &snapshotReader{data: data}

	hdr, err := r.take(snapshotHeaderSize)
	if err != nil {
		return nil, err
	}
	if hdr[0] != snapshotVersion {
		return nil, fmt.Errorf("%w: unknown snapshot version %d", errs.ErrCorruptSnapshot, hdr[0])
	}

	set := &display.Set{
		PTS: engine.Uint32(hdr[1:5]),
		DTS: engine.Uint32(hdr[5:9]),
		Composition: segment.CompositionSegment{
			Width:         engine.Uint16(hdr[9:11]),
			Height:        engine.Uint16(hdr[11:13]),
			FrameRate:     hdr[13],
			Number:        engine.Uint16(hdr[14:16]),
			State:         format.CompositionState(hdr[16]),
			PaletteUpdate: hdr[17] != 0,
			PaletteID:     hdr[18],
		},
		Windows:  make(map[uint8]segment.WindowDefinition),
		Palettes: make(map[uint8]*display.PaletteTable),
		Objects:  make(map[uint16]*display.Object),
		Span: display.Span{
			Start: int(engine.Uint64(hdr[28:36])), //nolint: gosec
			End:   int(engine.Uint64(hdr[36:44])), //nolint: gosec
		},
	}

	compObjectCount := int(hdr[19])
	windowCount := int(engine.Uint16(hdr[20:22]))
	paletteCount := int(engine.Uint16(hdr[22:24]))
	objectCount := int(engine.Uint32(hdr[24:28]))

	// Mirror the wire decoder, which always allocates the slice, so stored
	// sets compare deep-equal to freshly assembled ones.
	set.Composition.Objects = make([]segment.CompositionObject, 0, compObjectCount)
	for range compObjectCount {
		rec, err := r.take(compObjectRecordSize)
		if err != nil {
			return nil, err
		}

		set.Composition.Objects = append(set.Composition.Objects, segment.CompositionObject{
			ObjectID: engine.Uint16(rec[0:2]),
			WindowID: rec[2],
			Cropped:  rec[3] != 0,
			X:        engine.Uint16(rec[4:6]),
			Y:        engine.Uint16(rec[6:8]),
			Crop: segment.CropRect{
				X:      engine.Uint16(rec[8:10]),
				Y:      engine.Uint16(rec[10:12]),
				Width:  engine.Uint16(rec[12:14]),
				Height: engine.Uint16(rec[14:16]),
			},
		})
	}

	for range windowCount {
		rec, err := r.take(windowRecordSize)
		if err != nil {
			return nil, err
		}

		w := segment.WindowDefinition{
			ID:     rec[0],
			X:      engine.Uint16(rec[1:3]),
			Y:      engine.Uint16(rec[3:5]),
			Width:  engine.Uint16(rec[5:7]),
			Height: engine.Uint16(rec[7:9]),
		}
		set.Windows[w.ID] = w
	}

	for range paletteCount {
		prefix, err := r.take(palettePrefixSize)
		if err != nil {
			return nil, err
		}

		table := &display.PaletteTable{
			ID:      prefix[0],
			Version: prefix[1],
			Entries: make(map[uint8]segment.PaletteEntry),
		}

		entryCount := int(engine.Uint16(prefix[2:4]))
		for range entryCount {
			rec, err := r.take(paletteEntrySize)
			if err != nil {
				return nil, err
			}

			table.Entries[rec[0]] = segment.PaletteEntry{
				ID:    rec[0],
				Y:     rec[1],
				Cr:    rec[2],
				Cb:    rec[3],
				Alpha: rec[4],
			}
		}

		set.Palettes[table.ID] = table
	}

	for range objectCount {
		rec, err := r.take(objectRecordSize)
		if err != nil {
			return nil, err
		}

		obj := &display.Object{
			ID:      engine.Uint16(rec[0:2]),
			Version: rec[2],
			Width:   engine.Uint16(rec[3:5]),
			Height:  engine.Uint16(rec[5:7]),
		}

		pixelLen := int(engine.Uint32(rec[7:11]))
		obj.Pixels, err = pixels(engine.Uint32(rec[11:15]), pixelLen)
		if err != nil {
			return nil, err
		}

		set.Objects[obj.ID] = obj
	}

	if r.off != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", errs.ErrCorruptSnapshot, len(data)-r.off)
	}

	return set, nil
}

func encodeBool(v bool) uint8 {
	if v {
		return 1
	}

	return 0
}

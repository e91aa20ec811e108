package display

import (
	"slices"

	"github.com/supkit/pgs/endian"
	"github.com/supkit/pgs/internal/hash"
	"github.com/supkit/pgs/segment"
)

var engine = endian.GetBigEndianEngine()

// PaletteTable is the folded palette state for one palette id: the most
// recent value per entry id across every palette segment applied to it.
type PaletteTable struct {
	ID      uint8
	Version uint8
	Entries map[uint8]segment.PaletteEntry
}

// apply folds a decoded palette segment into the table. Last write per entry
// id wins.
func (t *PaletteTable) apply(seg *segment.PaletteSegment) {
	t.Version = seg.Version
	for _, e := range seg.Entries {
		t.Entries[e.ID] = e
	}
}

// Clone returns an independent copy of the table.
func (t *PaletteTable) Clone() *PaletteTable {
	entries := make(map[uint8]segment.PaletteEntry, len(t.Entries))
	for id, e := range t.Entries {
		entries[id] = e
	}

	return &PaletteTable{ID: t.ID, Version: t.Version, Entries: entries}
}

// Object is a fully reassembled and decompressed bitmap object.
type Object struct {
	ID      uint16
	Version uint8
	Width   uint16
	Height  uint16

	// Pixels holds one palette-index byte per pixel, row-major,
	// len == Width*Height.
	Pixels []byte
}

// Fingerprint returns the xxHash64 of the object's dimensions, version, and
// pixel content. Equal fingerprints mean the objects render identically.
func (o *Object) Fingerprint() uint64 {
	return hash.Object(o.Width, o.Height, o.Version, o.Pixels)
}

// Clone returns an independent copy of the object.
func (o *Object) Clone() *Object {
	cp := *o
	cp.Pixels = append([]byte(nil), o.Pixels...)

	return &cp
}

// Span is the half-open byte range [Start, End) a display set occupied in
// the stream it was parsed from.
type Span struct {
	Start int
	End   int
}

// Set is one complete display set. Sets are immutable once yielded by an
// Assembler; use Clone before modifying one.
type Set struct {
	// PTS and DTS are the 90 kHz timestamps from the composition segment's
	// header.
	PTS uint32
	DTS uint32

	// Composition is the presentation composition that opened the set.
	Composition segment.CompositionSegment

	// Windows, Palettes, and Objects are the definition tables accumulated
	// between the composition and the end segment, keyed by wire id. An
	// epoch-continue set starts from deep copies of the previous set's
	// tables.
	Windows  map[uint8]segment.WindowDefinition
	Palettes map[uint8]*PaletteTable
	Objects  map[uint16]*Object

	// Span is the byte range the set occupied in the input stream.
	Span Span
}

// Palette returns the table the composition references via its palette id,
// or nil when no palette segment defined it.
func (s *Set) Palette() *PaletteTable {
	return s.Palettes[s.Composition.PaletteID]
}

// Clone returns a deep copy: tables, palette entries, and pixel data are all
// independent of the receiver.
func (s *Set) Clone() *Set {
	cp := &Set{
		PTS:         s.PTS,
		DTS:         s.DTS,
		Composition: s.Composition,
		Windows:     make(map[uint8]segment.WindowDefinition, len(s.Windows)),
		Palettes:    make(map[uint8]*PaletteTable, len(s.Palettes)),
		Objects:     make(map[uint16]*Object, len(s.Objects)),
		Span:        s.Span,
	}
	cp.Composition.Objects = slices.Clone(s.Composition.Objects)

	for id, w := range s.Windows {
		cp.Windows[id] = w
	}
	for id, t := range s.Palettes {
		cp.Palettes[id] = t.Clone()
	}
	for id, o := range s.Objects {
		cp.Objects[id] = o.Clone()
	}

	return cp
}

// Fingerprint digests the set's definition tables (windows, palettes, and
// objects) in deterministic id order. Two sets with byte-identical tables
// produce equal fingerprints. The composition, timestamps, and span are not
// included, so an epoch-continue set that inherited unchanged tables
// fingerprints equal to its predecessor.
func (s *Set) Fingerprint() uint64 {
	d := hash.New()
	buf := make([]byte, 0, 64)

	for _, id := range sortedKeys(s.Windows) {
		w := s.Windows[id]
		buf = append(buf[:0], 'W', id)
		buf = engine.AppendUint16(buf, w.X)
		buf = engine.AppendUint16(buf, w.Y)
		buf = engine.AppendUint16(buf, w.Width)
		buf = engine.AppendUint16(buf, w.Height)
		_, _ = d.Write(buf)
	}

	for _, id := range sortedKeys(s.Palettes) {
		t := s.Palettes[id]
		buf = append(buf[:0], 'P', t.ID, t.Version)
		buf = engine.AppendUint16(buf, uint16(len(t.Entries))) //nolint: gosec
		for _, entryID := range sortedKeys(t.Entries) {
			e := t.Entries[entryID]
			buf = append(buf, e.ID, e.Y, e.Cr, e.Cb, e.Alpha)
		}
		_, _ = d.Write(buf)
	}

	for _, id := range sortedKeys(s.Objects) {
		buf = append(buf[:0], 'O')
		buf = engine.AppendUint16(buf, id)
		buf = engine.AppendUint64(buf, s.Objects[id].Fingerprint())
		_, _ = d.Write(buf)
	}

	return d.Sum64()
}

// sortedKeys returns the map's keys in ascending order, for deterministic
// digest and error reporting.
func sortedKeys[K uint8 | uint16, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

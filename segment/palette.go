package segment

import (
	"github.com/supkit/pgs/errs"
)

// paletteEntrySize is the wire size of one palette entry record.
const paletteEntrySize = 5

// PaletteEntry is one color: luminance, chrominance, and alpha, keyed by its
// entry id within the palette table.
type PaletteEntry struct {
	ID    uint8
	Y     uint8
	Cr    uint8
	Cb    uint8
	Alpha uint8
}

// PaletteSegment is a decoded palette definition segment. Entries preserves
// wire order, including repeated ids; table folding applies last-write-wins.
type PaletteSegment struct {
	ID      uint8
	Version uint8
	Entries []PaletteEntry
}

func (*PaletteSegment) segmentBody() {}

// DecodePalette decodes a palette definition payload: palette id, version,
// then 5-byte entry records until the payload ends.
//
// Returns:
//   - *PaletteSegment: the decoded palette
//   - error: errs.ErrTruncatedPalette (at the offset where the truncated
//     header or record begins) when the payload ends mid-record
func DecodePalette(payload []byte) (*PaletteSegment, error) {
	if len(payload) < 2 {
		return nil, errs.At(errs.ErrTruncatedPalette, len(payload))
	}

	rest := len(payload) - 2
	count := rest / paletteEntrySize
	if rest%paletteEntrySize != 0 {
		return nil, errs.At(errs.ErrTruncatedPalette, 2+count*paletteEntrySize)
	}

	seg := &PaletteSegment{
		ID:      payload[0],
		Version: payload[1],
		Entries: make([]PaletteEntry, 0, count),
	}

	for i := range count {
		base := 2 + i*paletteEntrySize
		seg.Entries = append(seg.Entries, PaletteEntry{
			ID:    payload[base],
			Y:     payload[base+1],
			Cr:    payload[base+2],
			Cb:    payload[base+3],
			Alpha: payload[base+4],
		})
	}

	return seg, nil
}

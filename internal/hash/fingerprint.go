// Package hash computes the xxHash64 fingerprints shared by the display and
// store packages.
package hash

import (
	"github.com/cespare/xxhash/v2"

	"github.com/supkit/pgs/endian"
)

var engine = endian.GetBigEndianEngine()

// Object fingerprints a decoded bitmap object. Equal fingerprints mean equal
// dimensions, version, and pixel content.
func Object(width, height uint16, version uint8, pixels []byte) uint64 {
	hdr := make([]byte, 0, 5)
	hdr = engine.AppendUint16(hdr, width)
	hdr = engine.AppendUint16(hdr, height)
	hdr = append(hdr, version)

	d := xxhash.New()
	_, _ = d.Write(hdr)
	_, _ = d.Write(pixels)

	return d.Sum64()
}

// New returns an empty streaming digest for composite fingerprints, such as
// a display set's table digest.
func New() *xxhash.Digest {
	return xxhash.New()
}

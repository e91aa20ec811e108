// Package store retains decoded display sets in compressed form.
//
// Pipelines that revisit subtitle bitmaps (OCR, thumbnailing, frame-accurate
// seeking) cannot afford to keep every decoded set resident: a two-hour film
// easily decodes to gigabytes of raw palette-index pixels. The store keeps
// each set as a compressed snapshot and decodes on demand, with a small LRU
// cache over recently accessed sets.
//
// # Basic Usage
//
//	st, err := store.New()
//	if err != nil {
//		return err
//	}
//	for set, err := range parser.All() {
//		if err != nil {
//			return err
//		}
//		if err := st.Append(set); err != nil {
//			return err
//		}
//	}
//
//	// Later, revisit any set by index.
//	set, err := st.At(17)
//
// # Deduplication
//
// Subtitle streams repeat bitmaps heavily: epoch-continue sets carry the
// previous epoch's objects forward, and dialogue styles reuse glyph
// compositions. With deduplication enabled (the default), object bitmaps are
// fingerprinted with xxHash64 and identical bitmaps share one stored copy,
// so repeating a set costs metadata only.
//
// # Snapshot Format
//
// Snapshots use an internal little-endian layout, not the PGS wire format:
// they carry decoded pixels rather than RLE, never leave the process, and
// make no compatibility promises between versions.
//
// # Concurrency
//
// A Store is safe for concurrent use. Sets returned by At are independent
// copies; mutating them does not affect the store or other callers.
package store

// Package segment defines the wire-level structures of a presentation graphic
// stream: the segment header, the raw segment reader, and the per-type payload
// decoders.
//
// # Overview
//
// A PGS stream is a flat sequence of segments. Every segment starts with a
// fixed 13-byte header followed by a payload of the declared size:
//
//	┌─────────────────────────────────────────────┐
//	│ Magic "PG" (2 bytes, 0x5047)                │
//	│ Type (1 byte): PDS/ODS/PCS/WDS/END          │
//	│ PTS (4 bytes): presentation time, 90 kHz    │
//	│ DTS (4 bytes): decode time, 90 kHz          │
//	│ Size (2 bytes): payload byte count          │
//	├─────────────────────────────────────────────┤
//	│ Payload (Size bytes)                        │
//	└─────────────────────────────────────────────┘
//
// All multi-byte integers are big-endian.
//
// The package splits framing from interpretation:
//
//  1. Reader walks the stream and produces raw Segment values: header fields
//     plus a borrowed payload slice. It validates the magic number and payload
//     bounds, nothing else.
//  2. Decode (or the per-type DecodePalette, DecodeWindows, DecodeComposition,
//     DecodeObject functions) turns a raw payload into a typed Body.
//
// Payload decode errors carry offsets relative to the payload; callers that
// track stream positions re-base them with errs.Shift.
//
// # Segment Types
//
//   - Palette definition (PDS): color table entries in YCbCr + alpha.
//   - Object definition (ODS): run-length-encoded bitmap data, possibly split
//     into fragments across several segments.
//   - Presentation composition (PCS): screen geometry, composition state, and
//     object placements; opens a display set.
//   - Window definition (WDS): on-screen regions objects are composed into.
//   - End (END): closes a display set. Its payload should be empty; non-empty
//     payloads are tolerated and ignored.
package segment

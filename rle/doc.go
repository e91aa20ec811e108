// Package rle decompresses the run-length encoding used by object definition
// segments into flat, row-major palette-index bitmaps.
//
// # Code Forms
//
// A non-zero byte is a single pixel of that color. A zero byte starts a
// multi-byte code whose second byte selects the form:
//
//	┌──────────────────────┬─────────────────────────────────────────────┐
//	│ 0xNN (non-zero)      │ one pixel, color NN                         │
//	│ 0x00 0x00            │ end of line                                 │
//	│ 0x00 0b00LLLLLL      │ L zero pixels (1-63)                        │
//	│ 0x00 0b01LLLLLL 0xNN │ L pixels of color NN (1-63)                 │
//	│ 0x00 0b10LLLLLL 0xLL │ L zero pixels, 14-bit length                │
//	│ 0x00 0b11LLLLLL 0xLL │ + 0xNN: L pixels of color NN, 14-bit length │
//	└──────────────────────┴─────────────────────────────────────────────┘
//
// The end-of-line marker is the length-zero case of the short zero run.
//
// # Row Accounting
//
// Every row must produce exactly the bitmap width in pixels. A row may end
// with an explicit end-of-line marker or implicitly when the next code begins
// after the row is full; the marker after the final row is optional. A marker
// arriving early is a row-length error unless WithShortRowPadding is set, in
// which case the rest of the row is filled with color 0 (the conventionally
// transparent entry). A run that would cross its row boundary is always an
// error: runs do not wrap.
package rle

// Package errs defines the sentinel errors shared across the pgs packages.
//
// Decode failures are terminal: the stream parser does not resynchronize
// after reporting one. Callers classify failures with errors.Is against the
// sentinels below, and recover the byte offset at which a failure was
// detected with Offset.
package errs

import (
	"errors"
	"fmt"
)

// Structural errors reported by the segment reader and stream parser.
var (
	// ErrInvalidMagic indicates a segment header whose magic number is not "PG".
	ErrInvalidMagic = errors.New("invalid segment magic")

	// ErrUnexpectedEndOfStream indicates the input ended inside a header,
	// payload, record, or RLE code.
	ErrUnexpectedEndOfStream = errors.New("unexpected end of stream")

	// ErrUnterminatedDisplaySet indicates the input ended while a display set
	// was still open (no end segment).
	ErrUnterminatedDisplaySet = errors.New("unterminated display set")

	// ErrUnexpectedComposition indicates a composition segment arrived while a
	// display set was already open.
	ErrUnexpectedComposition = errors.New("unexpected composition segment")

	// ErrStraySegment indicates a palette, window, object, or end segment
	// arrived while no display set was open.
	ErrStraySegment = errors.New("segment outside display set")

	// ErrUnknownSegmentType indicates a segment type byte that is not one of
	// the five defined segment types.
	ErrUnknownSegmentType = errors.New("unknown segment type")
)

// Payload errors reported by the per-type segment decoders.
var (
	// ErrTruncatedPalette indicates a palette payload that ends inside its
	// fixed header or inside a 5-byte entry record.
	ErrTruncatedPalette = errors.New("truncated palette segment")

	// ErrWindowCountMismatch indicates a window payload whose declared count
	// does not exactly consume the remaining bytes.
	ErrWindowCountMismatch = errors.New("window count mismatch")

	// ErrInvalidCompositionState indicates an unrecognized composition state
	// byte in a composition segment.
	ErrInvalidCompositionState = errors.New("invalid composition state")

	// ErrInvalidObjectDataLength indicates a first-in-sequence object fragment
	// whose declared data length is smaller than the 4 bytes it must cover for
	// the width and height fields.
	ErrInvalidObjectDataLength = errors.New("invalid object data length")
)

// Fragment reassembly errors.
var (
	// ErrDuplicateObjectStart indicates a first-in-sequence fragment for an
	// object id that already has an incomplete fragment sequence in flight.
	ErrDuplicateObjectStart = errors.New("duplicate object start")

	// ErrUnknownObjectFragment indicates a continuation fragment for an object
	// id with no fragment sequence in flight.
	ErrUnknownObjectFragment = errors.New("unknown object fragment")

	// ErrObjectOverflow indicates accumulated fragment data exceeding the
	// declared total length.
	ErrObjectOverflow = errors.New("object data overflow")

	// ErrIncompleteObject indicates a display set boundary while an object's
	// fragment sequence was still incomplete.
	ErrIncompleteObject = errors.New("incomplete object")
)

// Bitmap decode errors.
var (
	// ErrRowLengthMismatch indicates an RLE row that ended early or a run that
	// crossed the row boundary.
	ErrRowLengthMismatch = errors.New("row length mismatch")

	// ErrBitmapSizeMismatch indicates a decoded pixel count different from
	// width times height.
	ErrBitmapSizeMismatch = errors.New("bitmap size mismatch")

	// ErrObjectTooLarge indicates object dimensions beyond the decode guard.
	ErrObjectTooLarge = errors.New("object dimensions too large")
)

// Display-set store errors.
var (
	// ErrSetIndexOutOfRange indicates a store lookup with an index outside
	// [0, Len).
	ErrSetIndexOutOfRange = errors.New("display set index out of range")

	// ErrCorruptSnapshot indicates a stored display-set snapshot that fails
	// internal validation. It signals store corruption, not input corruption.
	ErrCorruptSnapshot = errors.New("corrupt display set snapshot")
)

// ParseError attaches the byte offset at which a decode failure was detected.
// It wraps the underlying sentinel so errors.Is continues to match.
type ParseError struct {
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// At wraps err with the byte offset at which it was detected.
// It returns nil when err is nil, and returns err unchanged when it already
// carries an offset, so the innermost (most precise) offset survives nested
// wrapping.
func At(err error, offset int) error {
	if err == nil {
		return nil
	}

	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}

	return &ParseError{Offset: offset, Err: err}
}

// Shift re-bases the offset carried by err by delta bytes, turning an offset
// relative to a payload slice into an absolute stream offset. An error without
// an offset is wrapped as if it occurred at delta.
//
// ParseError is always the outermost wrapper in this codebase, so Shift only
// inspects the top level and preserves everything beneath it.
func Shift(err error, delta int) error {
	if err == nil {
		return nil
	}

	if pe, ok := err.(*ParseError); ok {
		return &ParseError{Offset: pe.Offset + delta, Err: pe.Err}
	}

	return &ParseError{Offset: delta, Err: err}
}

// Offset reports the byte offset carried by err, if any.
func Offset(err error) (int, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Offset, true
	}

	return 0, false
}

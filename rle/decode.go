package rle

import (
	"github.com/supkit/pgs/errs"
	"github.com/supkit/pgs/internal/options"
)

// DefaultMaxPixels caps decoded bitmap size at 4096x2304, comfortably above
// any Blu-ray resolution. Dimensions are attacker-controlled 16-bit fields;
// the cap bounds the allocation a hostile stream can force.
const DefaultMaxPixels = 4096 * 2304

type config struct {
	padShortRows bool
	maxPixels    int
}

// Option configures the decoder.
type Option = options.Option[*config]

// WithShortRowPadding fills rows that end early with color 0 instead of
// failing with a row-length error. Some encoders emit a bare end-of-line for
// fully transparent rows.
func WithShortRowPadding() Option {
	return options.NoError(func(c *config) {
		c.padShortRows = true
	})
}

// WithMaxPixels overrides the decoded-size guard. Values below 1 disable it.
func WithMaxPixels(n int) Option {
	return options.NoError(func(c *config) {
		c.maxPixels = n
	})
}

// Decode expands run-length data into a width*height byte slice of palette
// indexes, row-major.
//
// Parameters:
//   - data: the complete run-length byte sequence of one object
//   - width, height: the bitmap dimensions declared by the object
//
// Returns:
//   - []byte: decoded pixels, len == width*height
//   - error: errs.ErrRowLengthMismatch, errs.ErrBitmapSizeMismatch,
//     errs.ErrObjectTooLarge, or errs.ErrUnexpectedEndOfStream for a code cut
//     off by the end of data; offsets are relative to data
func Decode(data []byte, width, height int, opts ...Option) ([]byte, error) {
	cfg := &config{maxPixels: DefaultMaxPixels}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if width < 0 || height < 0 {
		return nil, errs.At(errs.ErrBitmapSizeMismatch, 0)
	}
	if cfg.maxPixels > 0 && width*height > cfg.maxPixels {
		return nil, errs.At(errs.ErrObjectTooLarge, 0)
	}

	pixels := make([]byte, width*height)
	row, col := 0, 0
	pos := 0

	for pos < len(data) {
		codeStart := pos

		if data[pos] == 0 && pos+1 < len(data) && data[pos+1] == 0 {
			// End-of-line marker.
			pos += 2

			if col == width && col > 0 {
				row++
				col = 0

				continue
			}
			if row >= height {
				return nil, errs.At(errs.ErrBitmapSizeMismatch, codeStart)
			}
			if !cfg.padShortRows {
				return nil, errs.At(errs.ErrRowLengthMismatch, codeStart)
			}

			// Padding fills the remainder with color 0; the slice is already
			// zeroed.
			row++
			col = 0

			continue
		}

		runLen, color, codeLen, err := readCode(data, pos)
		if err != nil {
			return nil, err
		}
		pos += codeLen

		if runLen == 0 {
			// Explicit zero-length run: no pixels.
			continue
		}

		if col == width && col > 0 {
			// Implicit row end: the previous row filled exactly and the
			// stream moved on without a marker.
			row++
			col = 0
		}

		if row >= height {
			return nil, errs.At(errs.ErrBitmapSizeMismatch, codeStart)
		}
		if col+runLen > width {
			return nil, errs.At(errs.ErrRowLengthMismatch, codeStart)
		}

		if color != 0 {
			base := row*width + col
			for i := range runLen {
				pixels[base+i] = color
			}
		}
		col += runLen
	}

	if col == width && col > 0 {
		row++
		col = 0
	}
	if row != height || col != 0 {
		return nil, errs.At(errs.ErrBitmapSizeMismatch, len(data))
	}

	return pixels, nil
}

// readCode decodes one code starting at pos. The caller intercepts
// end-of-line markers first, so a zero length here is an explicit empty run.
//
// Returns the pixel count, the pixel color, and the encoded byte length.
func readCode(data []byte, pos int) (runLen int, color byte, codeLen int, err error) {
	b := data[pos]
	if b != 0 {
		return 1, b, 1, nil
	}

	if pos+1 >= len(data) {
		return 0, 0, 0, errs.At(errs.ErrUnexpectedEndOfStream, pos)
	}
	flag := data[pos+1]

	switch flag >> 6 {
	case 0b00:
		// Short zero run.
		return int(flag & 0x3F), 0, 2, nil

	case 0b01:
		// Short colored run.
		if pos+2 >= len(data) {
			return 0, 0, 0, errs.At(errs.ErrUnexpectedEndOfStream, pos)
		}

		return int(flag & 0x3F), data[pos+2], 3, nil

	case 0b10:
		// Long zero run, 14-bit length.
		if pos+2 >= len(data) {
			return 0, 0, 0, errs.At(errs.ErrUnexpectedEndOfStream, pos)
		}

		return int(flag&0x3F)<<8 | int(data[pos+2]), 0, 3, nil

	default:
		// Long colored run, 14-bit length.
		if pos+3 >= len(data) {
			return 0, 0, 0, errs.At(errs.ErrUnexpectedEndOfStream, pos)
		}

		return int(flag&0x3F)<<8 | int(data[pos+2]), data[pos+3], 4, nil
	}
}

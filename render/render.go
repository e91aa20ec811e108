// Package render converts decoded palette entries and object bitmaps into
// colors and images.
//
// Palette entries carry BT.601 YCbCr plus alpha. ARGB performs the usual
// YCbCr to RGB conversion; Gray produces an inverted intensity (opaque bright
// pixels come out dark on a white background), the form OCR engines prefer.
//
// Object pixels are palette indexes. Indexes with no palette entry render
// white, matching established player behavior for streams that reference
// colors they never define.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/supkit/pgs/display"
	"github.com/supkit/pgs/errs"
	"github.com/supkit/pgs/segment"
)

// ARGB converts one palette entry to a packed 32-bit color: alpha in the top
// byte, then red, green, blue. Channels are straight (not premultiplied).
func ARGB(e segment.PaletteEntry) uint32 {
	return uint32(blue(e.Y, e.Cb)) |
		uint32(green(e.Y, e.Cb, e.Cr))<<8 |
		uint32(red(e.Y, e.Cr))<<16 |
		uint32(e.Alpha)<<24
}

// Gray converts one palette entry to a packed 24-bit inverted gray:
// 255 - alpha*Y/255 replicated across the three channels. A fully opaque
// bright pixel maps to black, a transparent one to white.
func Gray(e segment.PaletteEntry) uint32 {
	v := 255 - uint32(e.Alpha)*uint32(e.Y)/255

	return v | v<<8 | v<<16
}

// red recovers the red channel from luminance and the red-difference chroma.
func red(y, cr uint8) uint8 {
	return clamp(float32(y) + 1.402*(float32(cr)-128))
}

// green recovers the green channel from luminance and both chroma values.
func green(y, cb, cr uint8) uint8 {
	return clamp(float32(y) - 0.34414*(float32(cb)-128) - 0.71414*(float32(cr)-128))
}

// blue recovers the blue channel from luminance and the blue-difference chroma.
func blue(y, cb uint8) uint8 {
	return clamp(float32(y) + 1.772*(float32(cb)-128))
}

func clamp(v float32) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}

	return uint8(v)
}

// ObjectNRGBA renders an object bitmap through a palette table into a
// non-premultiplied RGBA image. Pixel indexes missing from the table render
// as white with zero alpha.
//
// Parameters:
//   - obj: decoded object bitmap; must carry Width*Height pixels
//   - pal: palette table resolving pixel indexes to colors
//
// Returns:
//   - *image.NRGBA: rendered image, bounds (0,0)-(Width,Height)
//   - error: nil argument, or errs.ErrBitmapSizeMismatch when the pixel
//     count contradicts the object dimensions
func ObjectNRGBA(obj *display.Object, pal *display.PaletteTable) (*image.NRGBA, error) {
	if err := validateRender(obj, pal); err != nil {
		return nil, err
	}

	var lut [256]color.NRGBA
	for i := range lut {
		lut[i] = color.NRGBA{R: 255, G: 255, B: 255, A: 0}
	}
	for id, e := range pal.Entries {
		lut[id] = color.NRGBA{
			R: red(e.Y, e.Cr),
			G: green(e.Y, e.Cb, e.Cr),
			B: blue(e.Y, e.Cb),
			A: e.Alpha,
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(obj.Width), int(obj.Height)))
	for i, idx := range obj.Pixels {
		c := lut[idx]
		img.Pix[i*4] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = c.A
	}

	return img, nil
}

// ObjectGray renders an object bitmap through a palette table into an
// inverted grayscale image (see Gray). Pixel indexes missing from the table
// render as white.
//
// Parameters:
//   - obj: decoded object bitmap; must carry Width*Height pixels
//   - pal: palette table resolving pixel indexes to intensities
//
// Returns:
//   - *image.Gray: rendered image, bounds (0,0)-(Width,Height)
//   - error: nil argument, or errs.ErrBitmapSizeMismatch when the pixel
//     count contradicts the object dimensions
func ObjectGray(obj *display.Object, pal *display.PaletteTable) (*image.Gray, error) {
	if err := validateRender(obj, pal); err != nil {
		return nil, err
	}

	var lut [256]uint8
	for i := range lut {
		lut[i] = 255
	}
	for id, e := range pal.Entries {
		lut[id] = uint8(255 - uint32(e.Alpha)*uint32(e.Y)/255) //nolint: gosec
	}

	img := image.NewGray(image.Rect(0, 0, int(obj.Width), int(obj.Height)))
	for i, idx := range obj.Pixels {
		img.Pix[i] = lut[idx]
	}

	return img, nil
}

func validateRender(obj *display.Object, pal *display.PaletteTable) error {
	if obj == nil {
		return errors.New("nil object")
	}
	if pal == nil {
		return errors.New("nil palette table")
	}
	if len(obj.Pixels) != int(obj.Width)*int(obj.Height) {
		return fmt.Errorf("%w: %dx%d object carries %d pixels",
			errs.ErrBitmapSizeMismatch, obj.Width, obj.Height, len(obj.Pixels))
	}

	return nil
}

package render

import (
	"fmt"
	"testing"

	"github.com/supkit/pgs/display"
	"github.com/supkit/pgs/segment"
)

// benchObject builds an object shaped like subtitle content: mostly index 0
// with bands of outline and fill, plus a palette covering the indexes used.
func benchObject(width, height int) (*display.Object, *display.PaletteTable) {
	pixels := make([]byte, width*height)
	for row := range height {
		base := row * width
		for col := width / 3; col < 2*width/3; col++ {
			switch {
			case col%7 == 0:
				pixels[base+col] = 1
			case col%3 == 0:
				pixels[base+col] = 2
			}
		}
	}

	obj := &display.Object{
		ID:     1,
		Width:  uint16(width),  //nolint: gosec
		Height: uint16(height), //nolint: gosec
		Pixels: pixels,
	}
	pal := &display.PaletteTable{
		Entries: map[uint8]segment.PaletteEntry{
			0: {Alpha: 0},
			1: {Y: 16, Cb: 128, Cr: 128, Alpha: 255},
			2: {Y: 235, Cb: 128, Cr: 128, Alpha: 255},
		},
	}

	return obj, pal
}

func BenchmarkObjectNRGBA(b *testing.B) {
	sizes := []struct{ w, h int }{
		{720, 120},
		{1920, 180},
	}

	for _, size := range sizes {
		obj, pal := benchObject(size.w, size.h)

		b.Run(fmt.Sprintf("%dx%d", size.w, size.h), func(b *testing.B) {
			b.SetBytes(int64(len(obj.Pixels)))
			b.ReportAllocs()

			for b.Loop() {
				if _, err := ObjectNRGBA(obj, pal); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkObjectGray(b *testing.B) {
	obj, pal := benchObject(1920, 180)

	b.SetBytes(int64(len(obj.Pixels)))
	b.ReportAllocs()

	for b.Loop() {
		if _, err := ObjectGray(obj, pal); err != nil {
			b.Fatal(err)
		}
	}
}

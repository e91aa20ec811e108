package store

import (
	"slices"
	"testing"

	"github.com/supkit/pgs/format"
)

func BenchmarkStoreAppend(b *testing.B) {
	for _, compression := range []format.CompressionType{
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		b.Run(compression.String(), func(b *testing.B) {
			pixels := glyphPixels(1920 * 180)
			set := sampleSet(1, pixels)

			st, err := New(WithCompression(compression))
			if err != nil {
				b.Fatal(err)
			}

			b.ReportAllocs()
			b.SetBytes(int64(len(pixels)))

			for b.Loop() {
				if err := st.Append(set); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkStoreAt(b *testing.B) {
	const sets = 32

	cases := []struct {
		name string
		opts []Option
	}{
		{name: "cached", opts: []Option{WithCacheSize(sets)}},
		{name: "uncached", opts: []Option{WithCacheSize(0)}},
	}

	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			st, err := New(tc.opts...)
			if err != nil {
				b.Fatal(err)
			}

			pixels := glyphPixels(1920 * 90)
			for i := range sets {
				p := slices.Clone(pixels)
				p[0] = byte(i)
				if err := st.Append(sampleSet(uint16(i), p)); err != nil {
					b.Fatal(err)
				}
			}

			b.ReportAllocs()
			b.SetBytes(int64(len(pixels)))

			i := 0
			for b.Loop() {
				if _, err := st.At(i % sets); err != nil {
					b.Fatal(err)
				}
				i++
			}
		})
	}
}

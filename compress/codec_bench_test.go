package compress

import (
	"fmt"
	"testing"
)

// benchmarkBitmap creates decoded-bitmap test data at the given
// compressibility level.
func benchmarkBitmap(size int, compressibility string) []byte {
	data := make([]byte, size)

	switch compressibility {
	case "blank":
		// All transparent, maximum compression.
	case "subtitle":
		// Transparent margins around short index runs, the usual shape of
		// rendered dialogue.
		for i := range data {
			if i%100 >= 30 && i%100 < 70 {
				data[i] = byte(1 + i%15)
			}
		}
	default:
		// Incompressible.
		for i := range data {
			data[i] = byte((i*31 + i*i*7 + i*i*i*3) % 256)
		}
	}

	return data
}

// BenchmarkAllCodecs_Compress benchmarks compression for all codecs across
// typical decoded-bitmap sizes.
func BenchmarkAllCodecs_Compress(b *testing.B) {
	sizes := []int{
		720 * 48,   // ~34KB, small dialogue line
		1280 * 90,  // ~113KB, 720p subtitle band
		1920 * 180, // ~338KB, full-width 1080p band
	}

	compressibilities := []string{"blank", "subtitle", "noise"}

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				for _, comp := range compressibilities {
					b.Run(fmt.Sprintf("%dKB_%s", size/1024, comp), func(b *testing.B) {
						data := benchmarkBitmap(size, comp)

						b.ReportAllocs()
						b.SetBytes(int64(len(data)))
						b.ResetTimer()

						for b.Loop() {
							_, err := codec.Compress(data)
							if err != nil {
								b.Fatal(err)
							}
						}
					})
				}
			}
		})
	}
}

// BenchmarkAllCodecs_Decompress benchmarks decompression for all codecs.
func BenchmarkAllCodecs_Decompress(b *testing.B) {
	sizes := []int{
		720 * 48,
		1280 * 90,
		1920 * 180,
	}

	compressibilities := []string{"blank", "subtitle", "noise"}

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				for _, comp := range compressibilities {
					b.Run(fmt.Sprintf("%dKB_%s", size/1024, comp), func(b *testing.B) {
						data := benchmarkBitmap(size, comp)

						compressed, err := codec.Compress(data)
						if err != nil {
							b.Fatal(err)
						}

						b.ReportAllocs()
						b.SetBytes(int64(len(data)))
						b.ResetTimer()

						for b.Loop() {
							_, err := codec.Decompress(compressed)
							if err != nil {
								b.Fatal(err)
							}
						}
					})
				}
			}
		})
	}
}

// BenchmarkAllCodecs_RoundTrip benchmarks the full compress/decompress cycle
// on a representative subtitle bitmap.
func BenchmarkAllCodecs_RoundTrip(b *testing.B) {
	data := benchmarkBitmap(1920*180, "subtitle")

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		b.Run(codecName, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()

			for b.Loop() {
				compressed, err := codec.Compress(data)
				if err != nil {
					b.Fatal(err)
				}
				_, err = codec.Decompress(compressed)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkAllCodecs_CompressionRatio reports the ratio each codec achieves
// on a representative subtitle bitmap alongside its throughput.
func BenchmarkAllCodecs_CompressionRatio(b *testing.B) {
	data := benchmarkBitmap(1920*180, "subtitle")

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		b.Run(codecName, func(b *testing.B) {
			compressed, err := codec.Compress(data)
			if err != nil {
				b.Fatal(err)
			}

			ratio := float64(len(compressed)) / float64(len(data)) * 100
			b.ReportMetric(ratio, "ratio%")

			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()

			for b.Loop() {
				_, err := codec.Compress(data)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkZstdDecompress_Parallel tests decoder pool behavior under
// concurrent load.
func BenchmarkZstdDecompress_Parallel(b *testing.B) {
	data := benchmarkBitmap(1280*90, "subtitle")
	compressor := NewZstdCompressor()
	compressed, err := compressor.Compress(data)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = compressor.Decompress(compressed)
		}
	})
}

// BenchmarkLZ4Compress_Parallel tests compressor pool behavior under
// concurrent load.
func BenchmarkLZ4Compress_Parallel(b *testing.B) {
	data := benchmarkBitmap(1280*90, "subtitle")
	compressor := NewLZ4Compressor()

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = compressor.Compress(data)
		}
	})
}

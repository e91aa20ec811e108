package compress

import (
	"fmt"

	"github.com/supkit/pgs/format"
)

// Compressor compresses snapshot payloads.
//
// Payloads are decoded display set snapshots: palette tables, window records,
// and palette-index pixel buffers, typically a few KB to a few MB each.
type Compressor interface {
	// Compress compresses the input and returns the result.
	//
	// Memory management:
	//   - The returned slice is newly allocated and owned by the caller
	//   - The input slice is not modified
	//   - Internal scratch buffers may be pooled and reused
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses Compress.
type Decompressor interface {
	// Decompress decompresses data previously produced by the matching
	// Compressor.
	//
	// Error conditions:
	//   - The input is corrupted or truncated
	//   - The input was compressed with a different algorithm
	//
	// Memory management mirrors Compress: the result is newly allocated,
	// the input untouched.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. All implementations in this package are
// stateless values, safe for concurrent use.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats aggregates byte totals across compression operations,
// for store accounting and benchmarks.
type CompressionStats struct {
	// Algorithm identifies the codec that produced the stored bytes.
	Algorithm format.CompressionType

	// OriginalSize is the byte total before compression.
	OriginalSize int64

	// CompressedSize is the byte total actually stored.
	CompressedSize int64
}

// CompressionRatio returns compressed size over original size.
//
// Values less than 1.0 indicate successful compression; values above 1.0
// indicate overhead (tiny or incompressible payloads).
//
// Returns:
//   - float64: the ratio, or 0.0 when nothing was compressed yet
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved fraction as a percentage (0-100 for
// effective compression).
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec creates a fresh Codec for the given compression type.
//
// Returns:
//   - Codec: a codec value owned by the caller
//   - error: an invalid-compression-type error
func CreateCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid compression type: %s", compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the shared built-in Codec for the given compression
// type. The shared instances are stateless and safe for concurrent use.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

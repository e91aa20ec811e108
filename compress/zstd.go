package compress

// ZstdCompressor provides Zstandard compression, the store's default codec.
//
// Zstd gives the best ratio on palette-index pixel data (long transparent
// runs collapse to almost nothing) at a moderate CPU cost, which suits
// snapshots that are written once and decompressed only on access.
//
// The implementation is selected at build time: valyala/gozstd (cgo) under
// the cgo_zstd build tag, klauspost/compress/zstd (pure Go) otherwise.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

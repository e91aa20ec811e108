// Package compress provides the compression codecs used for stored display
// set snapshots.
//
// Decoded subtitle bitmaps are flat palette-index buffers: long runs of the
// transparent index broken by glyph strokes. That shape compresses extremely
// well with every general-purpose codec, which is what makes compressed
// retention (see the store package) practical for whole movies.
//
// # Codecs
//
//   - Zstd: best ratio, the store's default. Built on valyala/gozstd when the
//     cgo_zstd build tag is set, and on klauspost/compress/zstd otherwise, so
//     a cgo toolchain is never required.
//   - S2: fastest compression, moderate ratio.
//   - LZ4: fastest decompression, moderate ratio.
//   - None: pass-through, for callers that keep snapshots raw.
//
// All implementations are stateless values, safe for concurrent use; pooled
// scratch state lives in package-level sync.Pools.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	stored, err := codec.Compress(snapshot)
//	snapshot, err = codec.Decompress(stored)
//
// GetCodec returns shared instances; CreateCodec returns a fresh value when
// an API needs to own its codec.
package compress

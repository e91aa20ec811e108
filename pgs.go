// Package pgs decodes Presentation Graphic Stream (PGS) subtitles, the
// bitmap subtitle format carried by Blu-ray discs and commonly stored in
// standalone "SUP" files.
//
// A PGS stream is a flat sequence of segments. Each segment carries a pair of
// 90 kHz timestamps and one typed payload: a composition (PCS) opens a
// display set and places objects on screen, windows (WDS) bound the drawable
// regions, palettes (PDS) define indexed YCbCr colors, objects (ODS) carry
// run-length-encoded bitmaps split across fragments, and an end segment (END)
// completes the set. This module reads the wire format, decodes every payload
// kind, reassembles fragmented objects, decompresses their bitmaps, and folds
// the result into display sets ready for rendering, OCR, or retention.
//
// # Core Features
//
//   - Sequential segment reader with offset-carrying errors for corrupt input
//   - Typed decoders for all five segment kinds
//   - Run-length bitmap decoding with configurable size guards
//   - Multi-fragment object reassembly and display-set assembly
//   - Whole-file and concurrent multi-file reading helpers
//   - Compressed in-memory retention store (zstd, s2, lz4) with
//     bitmap deduplication
//   - Palette color conversion and image rendering (render package)
//
// # Basic Usage
//
// Decoding a SUP file:
//
//	sets, err := pgs.ReadFile("movie.sup")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, set := range sets {
//	    fmt.Printf("PTS=%d objects=%d\n", set.PTS, len(set.Objects))
//	}
//
// Iterating a stream one display set at a time:
//
//	parser, err := pgs.NewParser(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for set, err := range parser.All() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    process(set)
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the stream, sup,
// and store packages, simplifying the most common use cases. For advanced
// usage and fine-grained control, use those packages directly: stream for
// incremental parsing, segment for single-payload decoding, rle for raw
// bitmap decompression, display for the assembly state machine, store for
// compressed retention, and render for palette and image conversion.
package pgs

import (
	"context"
	"io"

	"github.com/supkit/pgs/display"
	"github.com/supkit/pgs/store"
	"github.com/supkit/pgs/stream"
	"github.com/supkit/pgs/sup"
)

// Parse decodes every display set in a complete in-memory stream.
//
// This is the simplest entry point when the whole stream is already in a
// byte slice. Segments are validated and decoded in order; decoding stops at
// the first malformed byte.
//
// Parameters:
//   - data: the raw stream, starting at a segment header
//   - opts: optional configuration (see stream.Option)
//
// Returns:
//   - []*display.Set: every display set, in stream order
//   - error: an *errs.ParseError locating the first malformed byte, or an
//     option error
//
// Available options:
//   - stream.WithShortRowPadding()
//   - stream.WithMaxObjectPixels(n)
//
// Example:
//
//	sets, err := pgs.Parse(data)
//	if err != nil {
//	    var perr *errs.ParseError
//	    if errors.As(err, &perr) {
//	        log.Fatalf("corrupt stream at byte %d: %v", perr.Offset, perr.Err)
//	    }
//	    log.Fatal(err)
//	}
func Parse(data []byte, opts ...stream.Option) ([]*display.Set, error) {
	return stream.Parse(data, opts...)
}

// NewParser creates an incremental parser over a complete in-memory stream.
//
// Use this instead of Parse when display sets should be consumed one at a
// time: subtitle streams for a feature film decode to thousands of bitmaps,
// and a pull parser keeps at most one decoded set alive.
//
// Parameters:
//   - data: the raw stream, starting at a segment header
//   - opts: optional configuration (see stream.Option)
//
// Returns:
//   - *stream.Parser: a parser positioned at the first segment
//   - error: an option error
//
// The parser provides two access patterns:
//  1. Pull: parser.Next() returning io.EOF at clean exhaustion
//  2. Range: for set, err := range parser.All()
//
// Example:
//
//	parser, err := pgs.NewParser(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    set, err := parser.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    process(set)
//	}
func NewParser(data []byte, opts ...stream.Option) (*stream.Parser, error) {
	return stream.New(data, opts...)
}

// Read slurps a stream from r and decodes every display set.
//
// Parameters:
//   - r: source of a complete stream
//   - opts: optional configuration (see stream.Option)
//
// Returns:
//   - []*display.Set: every display set, in stream order
//   - error: a read error from r, or a parse error (see Parse)
func Read(r io.Reader, opts ...stream.Option) ([]*display.Set, error) {
	return sup.Read(r, opts...)
}

// ReadFile decodes every display set in a SUP file.
//
// Parameters:
//   - path: filesystem path of the file
//   - opts: optional configuration (see stream.Option)
//
// Returns:
//   - []*display.Set: every display set, in stream order
//   - error: the underlying *os.PathError when the file cannot be read, or a
//     parse error (see Parse)
//
// Example:
//
//	sets, err := pgs.ReadFile("movie.sup")
func ReadFile(path string, opts ...stream.Option) ([]*display.Set, error) {
	return sup.ReadFile(path, opts...)
}

// ReadFiles decodes several SUP files concurrently, one goroutine per file.
//
// Results arrive in input order regardless of completion order. The first
// failure cancels the remaining reads and is returned with the offending
// path in its message.
//
// Parameters:
//   - ctx: cancels in-flight reads early
//   - paths: filesystem paths, one result per path
//   - opts: optional configuration applied to every file (see stream.Option)
//
// Returns:
//   - []sup.File: per-file results in input order
//   - error: the first read or parse error, wrapped with its path
//
// Example:
//
//	files, err := pgs.ReadFiles(ctx, []string{"ep1.sup", "ep2.sup"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range files {
//	    fmt.Printf("%s: %d display sets\n", f.Path, len(f.Sets))
//	}
func ReadFiles(ctx context.Context, paths []string, opts ...stream.Option) ([]sup.File, error) {
	return sup.ReadFiles(ctx, paths, opts...)
}

// NewStore creates an in-memory retention store for decoded display sets.
//
// Stores hold sets snapshot-encoded and compressed, with identical object
// bitmaps deduplicated, so pipelines that revisit subtitles (OCR queues,
// thumbnail services) avoid keeping raw indexed pixels resident.
//
// Parameters:
//   - opts: optional configuration (see store.Option)
//
// Returns:
//   - *store.Store: an empty store
//   - error: an option error
//
// Available options:
//   - store.WithCompression(format.CompressionZstd|S2|LZ4|None)
//   - store.WithCacheSize(n)
//   - store.WithDeduplication(true|false)
//
// Example:
//
//	st, err := pgs.NewStore(store.WithCompression(format.CompressionS2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for set, err := range parser.All() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := st.Append(set); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	fmt.Printf("%d sets, %.0f%% space saved\n",
//	    st.Len(), st.Stats().Compression.SpaceSavings())
func NewStore(opts ...store.Option) (*store.Store, error) {
	return store.New(opts...)
}

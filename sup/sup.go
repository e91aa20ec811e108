// Package sup reads SUP subtitle files: whole-input convenience wrappers
// around the stream parser, plus concurrent multi-file reading.
//
// A single file parses on one goroutine; parallelism across independent
// files is the supported concurrency model. ReadFiles fans one goroutine
// out per path and collects results in input order.
package sup

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/supkit/pgs/display"
	"github.com/supkit/pgs/stream"
)

// File pairs a parsed SUP file with the path it was read from.
type File struct {
	Path string
	Sets []*display.Set
}

// Read slurps r and parses it as a SUP stream.
//
// Parameters:
//   - r: SUP stream source, read to EOF
//   - opts: parser options, see stream.Option
//
// Returns:
//   - []*display.Set: all display sets in stream order
//   - error: a read error, or the parse error with its byte offset
func Read(r io.Reader, opts ...stream.Option) ([]*display.Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}

	return stream.Parse(data, opts...)
}

// ReadFile reads and parses one SUP file.
func ReadFile(path string, opts ...stream.Option) ([]*display.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return stream.Parse(data, opts...)
}

// ReadFiles parses several SUP files concurrently, one goroutine per path.
// The first failure cancels the remaining work and is returned wrapped with
// the failing path; on success results are in input order.
func ReadFiles(ctx context.Context, paths []string, opts ...stream.Option) ([]File, error) {
	g, ctx := errgroup.WithContext(ctx)

	files := make([]File, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			// The parse itself has no cancellation points; checking here
			// stops queued goroutines once a sibling has failed.
			if err := ctx.Err(); err != nil {
				return err
			}

			sets, err := ReadFile(path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			files[i] = File{Path: path, Sets: sets}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

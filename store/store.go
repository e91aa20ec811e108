package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/supkit/pgs/compress"
	"github.com/supkit/pgs/display"
	"github.com/supkit/pgs/errs"
	"github.com/supkit/pgs/format"
	"github.com/supkit/pgs/internal/options"
	"github.com/supkit/pgs/internal/pool"
)

// DefaultCacheSize is the number of decoded sets the LRU cache retains when
// WithCacheSize is not given.
const DefaultCacheSize = 16

type config struct {
	compression format.CompressionType
	cacheSize   int
	dedup       bool
}

// Option configures a Store.
type Option = options.Option[*config]

// WithCompression selects the codec snapshots and pixel blobs are stored
// with. The default is Zstd.
func WithCompression(compressionType format.CompressionType) Option {
	return options.New(func(cfg *config) error {
		if _, err := compress.GetCodec(compressionType); err != nil {
			return err
		}
		cfg.compression = compressionType

		return nil
	})
}

// WithCacheSize sets how many decoded sets the LRU cache retains. Zero
// disables the cache entirely; every At then decodes from the compressed
// snapshot.
func WithCacheSize(n int) Option {
	return options.New(func(cfg *config) error {
		if n < 0 {
			return fmt.Errorf("cache size must not be negative, got %d", n)
		}
		cfg.cacheSize = n

		return nil
	})
}

// WithDeduplication controls whether identical object bitmaps (same
// dimensions, version, and pixels, keyed by xxHash64 fingerprint) share one
// stored blob. Enabled by default.
func WithDeduplication(enabled bool) Option {
	return options.NoError(func(cfg *config) {
		cfg.dedup = enabled
	})
}

// Stats reports what the store holds and what it costs.
type Stats struct {
	// Sets is the number of appended display sets.
	Sets int

	// Objects is the number of distinct pixel blobs stored.
	Objects int

	// SharedObjects counts object appends that matched an existing blob
	// and stored nothing new.
	SharedObjects int

	// Compression aggregates raw byte totals against stored byte totals
	// across snapshots and pixel blobs. Deduplicated objects count toward
	// OriginalSize but not CompressedSize, so the ratio reflects the
	// combined savings.
	Compression compress.CompressionStats
}

// Store is an append-only, compressed retention structure for decoded
// display sets. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	codec compress.Codec

	// snapshots holds one compressed snapshot per appended set; blobs holds
	// compressed object pixel data referenced by snapshot object records.
	snapshots [][]byte
	blobs     [][]byte

	// blobIndex maps object fingerprints to blob table indexes; nil when
	// deduplication is disabled.
	blobIndex map[uint64]uint32

	cache *lru.Cache[int, *display.Set]

	stats Stats
}

// New creates a Store.
//
// Returns:
//   - *Store: an empty store
//   - error: an option validation error
func New(opts ...Option) (*Store, error) {
	cfg := &config{
		compression: format.CompressionZstd,
		cacheSize:   DefaultCacheSize,
		dedup:       true,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	st := &Store{
		codec: codec,
		stats: Stats{Compression: compress.CompressionStats{Algorithm: cfg.compression}},
	}
	if cfg.dedup {
		st.blobIndex = make(map[uint64]uint32)
	}
	if cfg.cacheSize > 0 {
		st.cache, err = lru.New[int, *display.Set](cfg.cacheSize)
		if err != nil {
			return nil, err
		}
	}

	return st, nil
}

// Append snapshot-encodes and compresses set, retaining nothing of the
// caller's memory. The set keeps index Len()-1.
func (s *Store) Append(set *display.Set) error {
	if set == nil {
		return errors.New("cannot append nil display set")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	refs := make([]objectBlobRef, 0, len(set.Objects))
	for _, id := range sortedKeys(set.Objects) {
		obj := set.Objects[id]

		ref, err := s.storeBlob(obj)
		if err != nil {
			return err
		}
		refs = append(refs, objectBlobRef{object: obj, blob: ref})
	}

	buf := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(buf)

	encodeSnapshot(buf, set, refs)

	compressed, err := s.codec.Compress(buf.Bytes())
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}

	// Stored bytes must not alias pooled or caller-owned memory (pass-through
	// compression returns its input), so keep an owned copy.
	s.snapshots = append(s.snapshots, slices.Clone(compressed))

	s.stats.Sets++
	s.stats.Compression.OriginalSize += int64(buf.Len())
	s.stats.Compression.CompressedSize += int64(len(compressed))

	return nil
}

// storeBlob compresses the object's pixels into the blob table, reusing an
// existing blob when deduplication finds the same fingerprint. The caller
// must hold the write lock.
func (s *Store) storeBlob(obj *display.Object) (uint32, error) {
	var fp uint64
	if s.blobIndex != nil {
		fp = obj.Fingerprint()
		if ref, ok := s.blobIndex[fp]; ok {
			s.stats.SharedObjects++
			s.stats.Compression.OriginalSize += int64(len(obj.Pixels))

			return ref, nil
		}
	}

	compressed, err := s.codec.Compress(obj.Pixels)
	if err != nil {
		return 0, fmt.Errorf("compress object %d pixels: %w", obj.ID, err)
	}

	ref := uint32(len(s.blobs)) //nolint: gosec
	s.blobs = append(s.blobs, slices.Clone(compressed))
	if s.blobIndex != nil {
		s.blobIndex[fp] = ref
	}

	s.stats.Objects++
	s.stats.Compression.OriginalSize += int64(len(obj.Pixels))
	s.stats.Compression.CompressedSize += int64(len(compressed))

	return ref, nil
}

// At decodes the i-th appended set. The result is an independent copy; the
// caller may mutate it freely.
//
// Returns:
//   - *display.Set: the decoded set
//   - error: errs.ErrSetIndexOutOfRange, a decompression error, or
//     errs.ErrCorruptSnapshot
func (s *Store) At(i int) (*display.Set, error) {
	if s.cache != nil {
		if set, ok := s.cache.Get(i); ok {
			return set.Clone(), nil
		}
	}

	s.mu.RLock()
	if i < 0 || i >= len(s.snapshots) {
		n := len(s.snapshots)
		s.mu.RUnlock()

		return nil, fmt.Errorf("%w: %d of %d", errs.ErrSetIndexOutOfRange, i, n)
	}
	snapshot := s.snapshots[i]
	s.mu.RUnlock()

	payload, err := s.codec.Decompress(snapshot)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot %d: %w", i, err)
	}

	set, err := decodeSnapshot(payload, s.loadPixels)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %d: %w", i, err)
	}

	if s.cache != nil {
		s.cache.Add(i, set)
	}

	// The decoded master may share memory with the store under pass-through
	// compression; hand the caller a private copy.
	return set.Clone(), nil
}

// loadPixels resolves a snapshot blob reference to decompressed pixel data.
func (s *Store) loadPixels(blob uint32, length int) ([]byte, error) {
	s.mu.RLock()
	if int(blob) >= len(s.blobs) {
		n := len(s.blobs)
		s.mu.RUnlock()

		return nil, fmt.Errorf("%w: blob %d of %d", errs.ErrCorruptSnapshot, blob, n)
	}
	data := s.blobs[blob]
	s.mu.RUnlock()

	pixels, err := s.codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress object blob %d: %w", blob, err)
	}
	if len(pixels) != length {
		return nil, fmt.Errorf("%w: blob %d decoded to %d bytes, want %d",
			errs.ErrCorruptSnapshot, blob, len(pixels), length)
	}

	return pixels, nil
}

// Len returns the number of appended sets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.snapshots)
}

// Stats returns a copy of the store's accounting counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stats
}

func sortedKeys[K uint8 | uint16, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

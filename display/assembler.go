package display

import (
	"fmt"

	"github.com/supkit/pgs/errs"
	"github.com/supkit/pgs/format"
	"github.com/supkit/pgs/internal/options"
	"github.com/supkit/pgs/rle"
	"github.com/supkit/pgs/segment"
)

type config struct {
	rleOpts []rle.Option
}

// Option configures an Assembler.
type Option = options.Option[*config]

// WithShortRowPadding makes object decoding pad rows that a line terminator
// ends early with color 0 instead of failing. Forwarded to the run-length
// decoder; see rle.WithShortRowPadding.
func WithShortRowPadding() Option {
	return options.NoError(func(c *config) {
		c.rleOpts = append(c.rleOpts, rle.WithShortRowPadding())
	})
}

// WithMaxObjectPixels adjusts the object size guard, forwarded to
// rle.WithMaxPixels. n <= 0 disables the guard.
func WithMaxObjectPixels(n int) Option {
	return options.NoError(func(c *config) {
		c.rleOpts = append(c.rleOpts, rle.WithMaxPixels(n))
	})
}

// Assembler folds a segment stream into display sets. Feed it segments in
// stream order; it yields a *Set whenever an end segment completes one.
//
// An Assembler is not safe for concurrent use.
type Assembler struct {
	cfg config

	open    bool
	pending *Set
	objects *reassembler

	// prev is the last yielded set; epoch-continue compositions inherit
	// deep copies of its tables.
	prev *Set
}

// NewAssembler creates an assembler in the Idle state.
func NewAssembler(opts ...Option) (*Assembler, error) {
	a := &Assembler{}
	if err := options.Apply(&a.cfg, opts...); err != nil {
		return nil, err
	}
	a.objects = newReassembler(a.cfg.rleOpts)

	return a, nil
}

// Feed advances the state machine with one raw segment. Errors are terminal:
// the assembler's state is undefined afterwards and the caller must not feed
// further segments.
//
// Returns:
//   - *Set: the completed display set when seg closes one, nil otherwise
//   - error: a structural error at the segment's header offset, or a payload
//     decode error at the absolute offset of the failing byte
func (a *Assembler) Feed(seg *segment.Segment) (*Set, error) {
	switch seg.Type {
	case format.SegmentTypePCS:
		if a.open {
			return nil, errs.At(errs.ErrUnexpectedComposition, seg.HeaderOffset)
		}
	case format.SegmentTypePDS, format.SegmentTypeWDS, format.SegmentTypeODS, format.SegmentTypeEND:
		if !a.open {
			return nil, errs.At(errs.ErrStraySegment, seg.HeaderOffset)
		}
	default:
		return nil, errs.At(errs.ErrUnknownSegmentType, seg.HeaderOffset)
	}

	body, err := segment.Decode(seg)
	if err != nil {
		return nil, errs.Shift(err, seg.PayloadOffset)
	}

	switch b := body.(type) {
	case *segment.CompositionSegment:
		a.openSet(seg, b)

	case *segment.PaletteSegment:
		a.pending.applyPalette(b)

	case *segment.WindowSegment:
		for _, w := range b.Windows {
			a.pending.Windows[w.ID] = w
		}

	case *segment.ObjectSegment:
		obj, err := a.objects.add(b, seg.End()-len(b.Data))
		if err != nil {
			return nil, errs.At(err, seg.HeaderOffset)
		}
		if obj != nil {
			a.pending.Objects[obj.ID] = obj
		}

	case segment.EndSegment:
		return a.closeSet(seg)
	}

	return nil, nil
}

// Close reports whether the stream may end in the assembler's current state.
//
// Returns errs.ErrUnterminatedDisplaySet when a display set is still open;
// the error names the offending composition's offset and the caller attaches
// the position input ended at.
func (a *Assembler) Close() error {
	if !a.open {
		return nil
	}

	return fmt.Errorf("%w (composition at offset %d)",
		errs.ErrUnterminatedDisplaySet, a.pending.Span.Start)
}

func (a *Assembler) openSet(seg *segment.Segment, comp *segment.CompositionSegment) {
	set := &Set{
		PTS:         seg.PTS,
		DTS:         seg.DTS,
		Composition: *comp,
		Windows:     make(map[uint8]segment.WindowDefinition),
		Palettes:    make(map[uint8]*PaletteTable),
		Objects:     make(map[uint16]*Object),
		Span:        Span{Start: seg.HeaderOffset},
	}

	if comp.State == format.CompositionStateEpochContinue && a.prev != nil {
		set.inheritTables(a.prev)
	}

	a.pending = set
	a.open = true
}

func (a *Assembler) closeSet(seg *segment.Segment) (*Set, error) {
	if err := a.objects.assertEmpty(); err != nil {
		return nil, errs.At(err, seg.HeaderOffset)
	}

	set := a.pending
	set.Span.End = seg.End()

	a.pending = nil
	a.open = false
	a.prev = set

	return set, nil
}

// applyPalette folds a palette segment into the table for its palette id,
// creating the table on first sight.
func (s *Set) applyPalette(seg *segment.PaletteSegment) {
	t, ok := s.Palettes[seg.ID]
	if !ok {
		t = &PaletteTable{
			ID:      seg.ID,
			Entries: make(map[uint8]segment.PaletteEntry, len(seg.Entries)),
		}
		s.Palettes[seg.ID] = t
	}
	t.apply(seg)
}

// inheritTables deep-copies the definition tables of prev into s. The
// composition, timestamps, and span stay the new set's own.
func (s *Set) inheritTables(prev *Set) {
	for id, w := range prev.Windows {
		s.Windows[id] = w
	}
	for id, t := range prev.Palettes {
		s.Palettes[id] = t.Clone()
	}
	for id, o := range prev.Objects {
		s.Objects[id] = o.Clone()
	}
}

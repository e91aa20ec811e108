package display

import (
	"fmt"

	"github.com/supkit/pgs/errs"
	"github.com/supkit/pgs/internal/pool"
	"github.com/supkit/pgs/rle"
	"github.com/supkit/pgs/segment"
)

// fragmentSpan records where one fragment's bytes landed in the accumulation
// buffer and where they came from in the stream, so a decode failure inside
// reassembled data can be reported at an input offset.
type fragmentSpan struct {
	bufStart int
	stream   int
}

// pendingObject accumulates one object's fragment sequence.
type pendingObject struct {
	id       uint16
	version  uint8
	width    uint16
	height   uint16
	expected int
	buf      *pool.ByteBuffer
	spans    []fragmentSpan
}

// reassembler tracks in-flight object fragment sequences keyed by object id.
// Completion is length-driven: an object closes exactly when its accumulated
// bytes reach the declared total. The last-in-sequence flag is advisory.
type reassembler struct {
	pending map[uint16]*pendingObject
	rleOpts []rle.Option
}

func newReassembler(rleOpts []rle.Option) *reassembler {
	return &reassembler{
		pending: make(map[uint16]*pendingObject),
		rleOpts: rleOpts,
	}
}

// add feeds one object fragment. dataOffset is the absolute stream offset of
// the fragment's first data byte, used to re-base decode errors.
//
// Returns:
//   - *Object: the completed, decompressed object when this fragment closes
//     its sequence; nil while more data is expected
//   - error: errs.ErrDuplicateObjectStart, errs.ErrUnknownObjectFragment,
//     errs.ErrObjectOverflow (positioned by the caller), or a bitmap decode
//     error carrying the absolute offset of the failing input byte
func (r *reassembler) add(frag *segment.ObjectSegment, dataOffset int) (*Object, error) {
	p, inFlight := r.pending[frag.ObjectID]

	if frag.First() {
		if inFlight {
			return nil, fmt.Errorf("%w: object %d", errs.ErrDuplicateObjectStart, frag.ObjectID)
		}

		p = &pendingObject{
			id:       frag.ObjectID,
			version:  frag.Version,
			width:    frag.Width,
			height:   frag.Height,
			expected: frag.DeclaredLength,
			buf:      pool.GetFragmentBuffer(),
		}
		r.pending[frag.ObjectID] = p
	} else if !inFlight {
		return nil, fmt.Errorf("%w: object %d", errs.ErrUnknownObjectFragment, frag.ObjectID)
	}

	p.spans = append(p.spans, fragmentSpan{bufStart: p.buf.Len(), stream: dataOffset})
	p.buf.MustWrite(frag.Data)

	switch {
	case p.buf.Len() > p.expected:
		r.release(p)
		return nil, fmt.Errorf("%w: object %d", errs.ErrObjectOverflow, frag.ObjectID)
	case p.buf.Len() < p.expected:
		return nil, nil
	}

	return r.complete(p)
}

// complete decompresses the accumulated data and releases the pending state.
func (r *reassembler) complete(p *pendingObject) (*Object, error) {
	defer r.release(p)

	pixels, err := rle.Decode(p.buf.Bytes(), int(p.width), int(p.height), r.rleOpts...)
	if err != nil {
		return nil, rebase(p.spans, err)
	}

	return &Object{
		ID:      p.id,
		Version: p.version,
		Width:   p.width,
		Height:  p.height,
		Pixels:  pixels,
	}, nil
}

func (r *reassembler) release(p *pendingObject) {
	pool.PutFragmentBuffer(p.buf)
	p.buf = nil
	delete(r.pending, p.id)
}

// assertEmpty reports errs.ErrIncompleteObject when fragment sequences are
// still in flight at a display set boundary, naming the lowest incomplete
// object id.
func (r *reassembler) assertEmpty() error {
	if len(r.pending) == 0 {
		return nil
	}

	id := sortedKeys(r.pending)[0]
	p := r.pending[id]

	return fmt.Errorf("%w: object %d has %d of %d bytes",
		errs.ErrIncompleteObject, id, p.buf.Len(), p.expected)
}

// rebase translates an error offset relative to reassembled data into the
// stream offset of the same byte, using the fragment span containing it.
func rebase(spans []fragmentSpan, err error) error {
	rel, ok := errs.Offset(err)
	if !ok || len(spans) == 0 {
		return err
	}

	span := spans[0]
	for _, s := range spans[1:] {
		if s.bufStart > rel {
			break
		}
		span = s
	}

	return errs.Shift(err, span.stream-span.bufStart)
}

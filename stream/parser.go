package stream

import (
	"errors"
	"io"
	"iter"

	"github.com/supkit/pgs/display"
	"github.com/supkit/pgs/errs"
	"github.com/supkit/pgs/segment"
)

// Option configures a Parser. Options are forwarded to the display
// assembler; display package options are accepted interchangeably.
type Option = display.Option

// WithShortRowPadding makes object decoding pad short bitmap rows with color
// 0 instead of failing. See rle.WithShortRowPadding.
func WithShortRowPadding() Option {
	return display.WithShortRowPadding()
}

// WithMaxObjectPixels adjusts the object size guard. See rle.WithMaxPixels.
func WithMaxObjectPixels(n int) Option {
	return display.WithMaxObjectPixels(n)
}

// Parser decodes display sets from an in-memory presentation graphic stream.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	rd  *segment.Reader
	asm *display.Assembler

	// err is the terminal state: io.EOF after clean exhaustion, or the first
	// decode failure. Every call after it is set returns it again.
	err error
}

// New creates a parser over data. The buffer is borrowed until the parser is
// exhausted; yielded sets never alias it.
func New(data []byte, opts ...Option) (*Parser, error) {
	asm, err := display.NewAssembler(opts...)
	if err != nil {
		return nil, err
	}

	return &Parser{rd: segment.NewReader(data), asm: asm}, nil
}

// Next returns the next complete display set.
//
// Returns:
//   - *display.Set: the next set in stream order
//   - error: io.EOF on clean exhaustion; errs.ErrUnterminatedDisplaySet when
//     input ends inside a set; otherwise the terminal decode error, carrying
//     the absolute offset at which it was detected
func (p *Parser) Next() (*display.Set, error) {
	if p.err != nil {
		return nil, p.err
	}

	for {
		seg, err := p.rd.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = p.asm.Close()
				if err == nil {
					err = io.EOF
				} else {
					err = errs.At(err, p.rd.Pos())
				}
			}
			p.err = err

			return nil, err
		}

		set, err := p.asm.Feed(seg)
		if err != nil {
			p.err = err
			return nil, err
		}
		if set != nil {
			return set, nil
		}
	}
}

// All returns an iterator over the remaining display sets. Iteration ends at
// clean stream exhaustion; any other failure is yielded once as (nil, err)
// and then iteration stops.
func (p *Parser) All() iter.Seq2[*display.Set, error] {
	return func(yield func(*display.Set, error) bool) {
		for {
			set, err := p.Next()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield(nil, err)
				}

				return
			}
			if !yield(set, nil) {
				return
			}
		}
	}
}

// Offset reports the count of input bytes consumed so far.
func (p *Parser) Offset() int {
	return p.rd.Pos()
}

// Parse decodes every display set in data.
//
// Returns:
//   - []*display.Set: all sets in stream order
//   - error: the first decode failure, with the sets decoded before it
//     discarded
func Parse(data []byte, opts ...Option) ([]*display.Set, error) {
	p, err := New(data, opts...)
	if err != nil {
		return nil, err
	}

	var sets []*display.Set
	for {
		set, err := p.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return sets, nil
			}

			return nil, err
		}
		sets = append(sets, set)
	}
}

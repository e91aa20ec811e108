package stream

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/supkit/pgs/display"
	"github.com/supkit/pgs/errs"
	"github.com/supkit/pgs/format"
	"github.com/supkit/pgs/internal/supgen"
	"github.com/supkit/pgs/segment"
)

// displaySetStream builds one complete display set: composition, window,
// palette, a 3x1 object, and the end segment.
func displaySetStream(pts, dts uint32, number uint16, state format.CompositionState) []byte {
	return supgen.Concat(
		supgen.Segment(format.SegmentTypePCS, pts, dts, supgen.CompositionPayload(
			1920, 1080, 0x10, number, state, false, 0,
			supgen.CompositionObject{ObjectID: 1, WindowID: 0, X: 96, Y: 780},
		)),
		supgen.Segment(format.SegmentTypeWDS, pts, dts, supgen.WindowPayload(
			supgen.Window{ID: 0, X: 96, Y: 780, W: 1728, H: 180},
		)),
		supgen.Segment(format.SegmentTypePDS, pts, dts, supgen.PalettePayload(0, 0,
			supgen.PaletteEntry{ID: 5, Y: 235, Cr: 128, Cb: 128, Alpha: 255},
		)),
		supgen.Segment(format.SegmentTypeODS, pts, dts, supgen.ObjectFirstPayload(
			1, 0, format.SequenceBoth, 5, 3, 1, []byte{0x00, 0x43, 0x05, 0x00, 0x00},
		)),
		supgen.EndSegment(pts, dts),
	)
}

func TestParser_YieldsSetsInOrder(t *testing.T) {
	first := displaySetStream(1000, 900, 1, format.CompositionStateEpochStart)
	second := displaySetStream(2000, 1900, 2, format.CompositionStateNormal)
	data := supgen.Concat(first, second)

	p, err := New(data)
	require.NoError(t, err)

	s1, err := p.Next()
	require.NoError(t, err)
	require.Equal(t, uint32(1000), s1.PTS)
	require.Equal(t, []byte{5, 5, 5}, s1.Objects[1].Pixels)

	s2, err := p.Next()
	require.NoError(t, err)
	require.Equal(t, uint32(2000), s2.PTS)

	// Spans tile the consumed byte range exactly.
	require.Equal(t, display.Span{Start: 0, End: len(first)}, s1.Span)
	require.Equal(t, s1.Span.End, s2.Span.Start)
	require.Equal(t, len(data), s2.Span.End)

	_, err = p.Next()
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, len(data), p.Offset())

	// Exhaustion is sticky.
	_, err = p.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestParser_EmptyInput(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	_, err = p.Next()
	require.ErrorIs(t, err, io.EOF)

	sets, err := Parse(nil)
	require.NoError(t, err)
	require.Empty(t, sets)
}

func TestParser_InvalidMagicIsSticky(t *testing.T) {
	first := displaySetStream(1000, 900, 1, format.CompositionStateEpochStart)
	bad := supgen.EndSegment(0, 0)
	bad[0] = 0xFF
	data := supgen.Concat(first, bad)

	p, err := New(data)
	require.NoError(t, err)

	_, err = p.Next()
	require.NoError(t, err)

	_, err = p.Next()
	require.ErrorIs(t, err, errs.ErrInvalidMagic)

	off, ok := errs.Offset(err)
	require.True(t, ok)
	require.Equal(t, len(first), off)

	_, again := p.Next()
	require.Equal(t, err, again)
}

func TestParser_UnterminatedDisplaySet(t *testing.T) {
	full := displaySetStream(1000, 900, 1, format.CompositionStateEpochStart)
	data := full[:len(full)-13] // drop the end segment

	p, err := New(data)
	require.NoError(t, err)

	_, err = p.Next()
	require.ErrorIs(t, err, errs.ErrUnterminatedDisplaySet)
	require.ErrorContains(t, err, "composition at offset 0")

	off, ok := errs.Offset(err)
	require.True(t, ok)
	require.Equal(t, len(data), off)
}

func TestParser_Truncation(t *testing.T) {
	t.Run("mid header", func(t *testing.T) {
		full := displaySetStream(1000, 900, 1, format.CompositionStateEpochStart)
		headerStart := len(full) - 13
		data := full[:headerStart+5] // magic and type survive, the pts field does not

		p, err := New(data)
		require.NoError(t, err)

		_, err = p.Next()
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfStream)

		off, ok := errs.Offset(err)
		require.True(t, ok)
		require.Equal(t, headerStart+3, off)
	})

	t.Run("mid payload", func(t *testing.T) {
		pcs := supgen.Segment(format.SegmentTypePCS, 1000, 900, supgen.CompositionPayload(
			1920, 1080, 0x10, 1, format.CompositionStateEpochStart, false, 0))
		wds := supgen.Segment(format.SegmentTypeWDS, 1000, 900, supgen.WindowPayload(
			supgen.Window{ID: 0, X: 96, Y: 780, W: 1728, H: 180}))
		data := supgen.Concat(pcs, wds)[:len(pcs)+segment.HeaderSize+4]

		p, err := New(data)
		require.NoError(t, err)

		_, err = p.Next()
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfStream)

		off, ok := errs.Offset(err)
		require.True(t, ok)
		require.Equal(t, len(pcs)+segment.HeaderSize, off)
	})
}

func TestParser_All(t *testing.T) {
	first := displaySetStream(1000, 900, 1, format.CompositionStateEpochStart)
	second := displaySetStream(2000, 1900, 2, format.CompositionStateNormal)

	t.Run("clean stream", func(t *testing.T) {
		p, err := New(supgen.Concat(first, second))
		require.NoError(t, err)

		var pts []uint32
		for set, err := range p.All() {
			require.NoError(t, err)
			pts = append(pts, set.PTS)
		}
		require.Equal(t, []uint32{1000, 2000}, pts)
	})

	t.Run("failure yielded once", func(t *testing.T) {
		bad := supgen.EndSegment(0, 0)
		bad[0] = 0xFF

		p, err := New(supgen.Concat(first, bad))
		require.NoError(t, err)

		var sets, failures int
		for set, err := range p.All() {
			if err != nil {
				failures++
				require.ErrorIs(t, err, errs.ErrInvalidMagic)
				require.Nil(t, set)

				continue
			}
			sets++
		}
		require.Equal(t, 1, sets)
		require.Equal(t, 1, failures)
	})

	t.Run("early break leaves parser usable", func(t *testing.T) {
		p, err := New(supgen.Concat(first, second))
		require.NoError(t, err)

		for range p.All() {
			break
		}

		set, err := p.Next()
		require.NoError(t, err)
		require.Equal(t, uint32(2000), set.PTS)
	})
}

func TestParse(t *testing.T) {
	first := displaySetStream(1000, 900, 1, format.CompositionStateEpochStart)
	second := displaySetStream(2000, 1900, 2, format.CompositionStateNormal)

	t.Run("collects all sets", func(t *testing.T) {
		sets, err := Parse(supgen.Concat(first, second))
		require.NoError(t, err)
		require.Len(t, sets, 2)
		require.Equal(t, uint32(1000), sets[0].PTS)
		require.Equal(t, uint32(2000), sets[1].PTS)
	})

	t.Run("propagates failures", func(t *testing.T) {
		_, err := Parse(supgen.Concat(first, second)[:len(first)+7])
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfStream)
	})

	t.Run("forwards options", func(t *testing.T) {
		shortRow := supgen.Concat(
			supgen.Segment(format.SegmentTypePCS, 1000, 900, supgen.CompositionPayload(
				1920, 1080, 0x10, 1, format.CompositionStateEpochStart, false, 0)),
			supgen.Segment(format.SegmentTypeODS, 1000, 900, supgen.ObjectFirstPayload(
				1, 0, format.SequenceBoth, 4, 3, 1, []byte{0x05, 0x05, 0x00, 0x00})),
			supgen.EndSegment(1000, 900),
		)

		_, err := Parse(shortRow)
		require.ErrorIs(t, err, errs.ErrRowLengthMismatch)

		sets, err := Parse(shortRow, WithShortRowPadding())
		require.NoError(t, err)
		require.Equal(t, []byte{5, 5, 0}, sets[0].Objects[1].Pixels)
	})
}

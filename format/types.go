package format

type (
	SegmentType      uint8
	CompositionState uint8
	SequenceFlag     uint8
	CompressionType  uint8
)

const (
	SegmentTypePDS SegmentType = 0x14 // SegmentTypePDS is a palette definition segment.
	SegmentTypeODS SegmentType = 0x15 // SegmentTypeODS is an object definition segment.
	SegmentTypePCS SegmentType = 0x16 // SegmentTypePCS is a presentation composition segment.
	SegmentTypeWDS SegmentType = 0x17 // SegmentTypeWDS is a window definition segment.
	SegmentTypeEND SegmentType = 0x80 // SegmentTypeEND closes a display set.

	CompositionStateNormal           CompositionState = 0x00 // CompositionStateNormal updates the previous composition.
	CompositionStateAcquisitionPoint CompositionState = 0x40 // CompositionStateAcquisitionPoint refreshes the composition mid-epoch.
	CompositionStateEpochStart       CompositionState = 0x80 // CompositionStateEpochStart begins a new epoch with fresh tables.
	CompositionStateEpochContinue    CompositionState = 0xC0 // CompositionStateEpochContinue carries the previous tables forward.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Sequence flag bits carried by object definition segments. A single-fragment
// object sets both bits.
const (
	SequenceFirst SequenceFlag = 0x80
	SequenceLast  SequenceFlag = 0x40
	SequenceBoth  SequenceFlag = SequenceFirst | SequenceLast
)

// Valid reports whether t is one of the five defined segment types.
func (t SegmentType) Valid() bool {
	switch t {
	case SegmentTypePDS, SegmentTypeODS, SegmentTypePCS, SegmentTypeWDS, SegmentTypeEND:
		return true
	default:
		return false
	}
}

func (t SegmentType) String() string {
	switch t {
	case SegmentTypePDS:
		return "PDS"
	case SegmentTypeODS:
		return "ODS"
	case SegmentTypePCS:
		return "PCS"
	case SegmentTypeWDS:
		return "WDS"
	case SegmentTypeEND:
		return "END"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is one of the four defined composition states.
func (s CompositionState) Valid() bool {
	switch s {
	case CompositionStateNormal, CompositionStateAcquisitionPoint, CompositionStateEpochStart, CompositionStateEpochContinue:
		return true
	default:
		return false
	}
}

func (s CompositionState) String() string {
	switch s {
	case CompositionStateNormal:
		return "Normal"
	case CompositionStateAcquisitionPoint:
		return "AcquisitionPoint"
	case CompositionStateEpochStart:
		return "EpochStart"
	case CompositionStateEpochContinue:
		return "EpochContinue"
	default:
		return "Unknown"
	}
}

// First reports whether the first-in-sequence bit is set.
func (f SequenceFlag) First() bool { return f&SequenceFirst != 0 }

// Last reports whether the last-in-sequence bit is set.
func (f SequenceFlag) Last() bool { return f&SequenceLast != 0 }

func (f SequenceFlag) String() string {
	switch f & SequenceBoth {
	case SequenceBoth:
		return "FirstAndLast"
	case SequenceFirst:
		return "First"
	case SequenceLast:
		return "Last"
	default:
		return "Continuation"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

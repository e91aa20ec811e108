// Package stream parses complete presentation graphic streams into display
// sets.
//
// The Parser walks an in-memory buffer segment by segment, feeds a display
// assembler, and yields each finished set in stream order. Errors are
// terminal and sticky: the format gives no way to resynchronize after a
// malformed segment, so the parser reports the same failure on every call
// once one occurs. Every error carries the absolute byte offset at which it
// was detected.
//
//	sets, err := stream.Parse(data)
//
// or, lazily:
//
//	p, err := stream.New(data)
//	for set, err := range p.All() { ... }
//
// A Parser owns its buffer walk and is not safe for concurrent use; parse
// independent streams on independent parsers. See the sup package for
// whole-file helpers that fan out across files.
package stream

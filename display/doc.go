// Package display assembles decoded segments into complete display sets.
//
// A display set is everything a player needs to update the screen at one
// presentation timestamp: the composition that opened it, the window and
// palette tables in effect, and every bitmap object the set defined, fully
// reassembled and decompressed.
//
// # Lifecycle
//
// Segments arrive in stream order and drive a two-state machine:
//
//	          composition segment
//	   Idle ──────────────────────► Open
//	    ▲                            │
//	    │        end segment         │  palette / window / object
//	    └────────────────────────────┘  segments mutate the pending set
//
// The Assembler owns the machine. Feed advances it one segment at a time and
// yields a *Set whenever an end segment closes one. A composition while Open,
// or any other segment while Idle, is a structural error: the decoder fails
// fast rather than guessing which display set a stray segment belongs to.
//
// # Object reassembly
//
// Bitmap objects larger than one segment arrive as fragment sequences. The
// first fragment declares the total data length and the dimensions;
// continuations carry only run-length bytes. The reassembler accumulates
// fragments per object id and closes an object exactly when the accumulated
// bytes reach the declared total; the last-in-sequence flag is advisory.
// Completed objects are run-length decoded immediately, so a yielded set
// holds ready-to-render pixels.
//
// # Inheritance
//
// An epoch-continue composition starts from a deep copy of the previous
// yielded set's window, palette, and object tables. Yielded sets are never
// mutated afterwards; Clone gives callers their own deep copy when they need
// to modify one.
package display

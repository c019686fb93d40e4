// Package idgen produces 64-bit, time-ordered identifiers for a single node
// using a Snowflake-style bit layout.
//
// # Format
//
// An ID packs three contiguous bit fields, most significant first:
//
//	[timestamp: TimestampBits][node id: NodeBits][sequence: SequenceBits]
//
// The timestamp is the number of milliseconds since the generator's epoch.
// The widths are described by a Layout and always sum to 64.
//
// # Ordering
//
// A Generator serializes every call under one mutex. Within a millisecond
// the sequence field increases by one per call. When the sequence space of a
// millisecond is exhausted the generator spins, still holding the lock, until
// the clock reaches the next millisecond. If the clock reports a time earlier
// than the last issued timestamp, Generate fails with ErrClockMovedBack and
// leaves its state untouched.
//
// Usage
//
//	g, err := idgen.New(3, idgen.WithEpoch(epoch))
//	if err != nil {
//		return err
//	}
//	id, err := g.Generate()
//	parts := g.Decompose(id)
package idgen

package idgen

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgerror"
)

// WordBits is the width of an ID.
const WordBits = 64

// DefaultLayout reserves 42 bits for the timestamp, 10 for the node id and 12
// for the sequence. With the Unix epoch the timestamp field lasts until 2109.
var DefaultLayout = Layout{TimestampBits: 42, NodeBits: 10, SequenceBits: 12}

// ID is a packed identifier.
type ID uint64

// Int64 returns the id as a signed integer. Ids whose timestamp reaches the
// top bit come out negative.
func (id ID) Int64() int64 { return int64(id) }

// String returns the decimal representation.
func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Parts is an unpacked ID.
type Parts struct {
	Timestamp int64
	NodeID    int64
	Sequence  int64
}

// Time converts the timestamp field back to wall-clock time.
func (p Parts) Time(epoch time.Time) time.Time {
	return epoch.Add(time.Duration(p.Timestamp) * time.Millisecond)
}

// Layout describes the widths of the three bit fields of an ID.
type Layout struct {
	TimestampBits uint8
	NodeBits      uint8
	SequenceBits  uint8
}

// Validate checks that every field is non-empty and that the widths fill the word.
func (l Layout) Validate() error {
	if l.TimestampBits == 0 || l.NodeBits == 0 || l.SequenceBits == 0 {
		return pkgerror.NewInvalidInput(fmt.Errorf("%w: %s has an empty field", ErrInvalidLayout, l))
	}
	if sum := int(l.TimestampBits) + int(l.NodeBits) + int(l.SequenceBits); sum != WordBits {
		return pkgerror.NewInvalidInput(fmt.Errorf("%w: %s sums to %d bits, want %d", ErrInvalidLayout, l, sum, WordBits))
	}
	return nil
}

func (l Layout) String() string {
	return fmt.Sprintf("%d/%d/%d", l.TimestampBits, l.NodeBits, l.SequenceBits)
}

// MaxNodeID is the largest node id the layout can hold.
func (l Layout) MaxNodeID() int64 { return int64(mask(l.NodeBits)) }

// MaxSequence is the largest sequence value within one millisecond.
func (l Layout) MaxSequence() int64 { return int64(mask(l.SequenceBits)) }

// MaxTimestamp is the largest timestamp the layout can hold.
func (l Layout) MaxTimestamp() uint64 { return mask(l.TimestampBits) }

// Pack assembles an ID. Each field is truncated to its width.
func (l Layout) Pack(timestamp, nodeID, sequence int64) ID {
	ts := uint64(timestamp) & mask(l.TimestampBits)
	node := uint64(nodeID) & mask(l.NodeBits)
	seq := uint64(sequence) & mask(l.SequenceBits)

	return ID(ts<<(l.NodeBits+l.SequenceBits) | node<<l.SequenceBits | seq)
}

// Unpack splits an ID into its fields. It is the inverse of Pack for
// in-range fields.
func (l Layout) Unpack(id ID) Parts {
	v := uint64(id)
	return Parts{
		Timestamp: int64(v >> (l.NodeBits + l.SequenceBits) & mask(l.TimestampBits)),
		NodeID:    int64(v >> l.SequenceBits & mask(l.NodeBits)),
		Sequence:  int64(v & mask(l.SequenceBits)),
	}
}

// ValidateNodeID reports whether nodeID fits in nodeBits bits, i.e. lies in
// [0, 2^nodeBits).
func ValidateNodeID(nodeID int64, nodeBits uint8) error {
	limit := mask(nodeBits)
	if nodeID < 0 || uint64(nodeID) > limit {
		return pkgerror.NewOutOfRange(fmt.Errorf("%w: %d not in [0, %d]", ErrNodeIDOutOfRange, nodeID, limit))
	}
	return nil
}

func mask(bits uint8) uint64 {
	if bits >= WordBits {
		return ^uint64(0)
	}
	return 1<<bits - 1
}

package idgen

import "errors"

var (
	// ErrNodeIDOutOfRange is returned when the node id does not fit the node field.
	ErrNodeIDOutOfRange = errors.New("node id out of range")
	// ErrClockMovedBack is returned when the clock reports a time before the last issued timestamp.
	ErrClockMovedBack = errors.New("clock moved back")
	// ErrInvalidLayout is returned for a layout whose widths are zero or do not sum to WordBits.
	ErrInvalidLayout = errors.New("invalid bit layout")
	// ErrTimestampOutOfRange is returned when the clock value does not fit the timestamp field.
	ErrTimestampOutOfRange = errors.New("timestamp out of range")
	// ErrInvalidEpoch is returned for an epoch later than the current time.
	ErrInvalidEpoch = errors.New("invalid epoch")
	// ErrInvalidBatchSize is returned by Batch for a non-positive size.
	ErrInvalidBatchSize = errors.New("invalid batch size")
)

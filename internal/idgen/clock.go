package idgen

import "time"

// DefaultEpoch is the Unix epoch.
var DefaultEpoch = time.UnixMilli(0).UTC()

// Clock supplies the current time in milliseconds since a fixed epoch.
type Clock interface {
	Now() int64
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() int64

// Now calls f.
func (f ClockFunc) Now() int64 { return f() }

// SystemClock reads the wall clock. It does not smooth over NTP corrections,
// so a regression of the system time is visible to the generator.
type SystemClock struct {
	epochMs int64
}

// NewSystemClock returns a Clock counting milliseconds from epoch.
func NewSystemClock(epoch time.Time) SystemClock {
	return SystemClock{epochMs: epoch.UnixMilli()}
}

// Now returns the milliseconds elapsed since the epoch.
func (c SystemClock) Now() int64 {
	return time.Now().UnixMilli() - c.epochMs
}

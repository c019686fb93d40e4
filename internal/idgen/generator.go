package idgen

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgerror"
)

// Option configures a Generator.
type Option func(*Generator)

// WithLayout overrides DefaultLayout.
func WithLayout(l Layout) Option {
	return func(g *Generator) { g.layout = l }
}

// WithEpoch sets the reference instant for timestamps. It also drives the
// system clock unless WithClock is given.
func WithEpoch(epoch time.Time) Option {
	return func(g *Generator) { g.epoch = epoch }
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(g *Generator) { g.clock = c }
}

// Generator issues IDs for one node. It is safe for concurrent use.
type Generator struct {
	layout Layout
	epoch  time.Time
	clock  Clock
	nodeID int64

	mu            sync.Mutex
	lastTimestamp int64 // -1 until the first id is issued
	sequence      int64
}

// New returns a Generator for nodeID.
func New(nodeID int64, opts ...Option) (*Generator, error) {
	g := &Generator{
		layout:        DefaultLayout,
		epoch:         DefaultEpoch,
		nodeID:        nodeID,
		lastTimestamp: -1,
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := g.layout.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateNodeID(nodeID, g.layout.NodeBits); err != nil {
		return nil, err
	}
	if g.epoch.After(time.Now()) {
		return nil, pkgerror.NewInvalidInput(fmt.Errorf("%w: %s is in the future", ErrInvalidEpoch, g.epoch.Format(time.RFC3339)))
	}
	if g.clock == nil {
		g.clock = NewSystemClock(g.epoch)
	}
	if err := g.checkTimestamp(g.clock.Now()); err != nil {
		return nil, err
	}

	return g, nil
}

// NodeID returns the node id fixed at construction.
func (g *Generator) NodeID() int64 { return g.nodeID }

// Layout returns the bit layout in use.
func (g *Generator) Layout() Layout { return g.layout }

// Epoch returns the reference instant of the timestamp field.
func (g *Generator) Epoch() time.Time { return g.epoch }

// Decompose splits id using the generator's layout.
func (g *Generator) Decompose(id ID) Parts { return g.layout.Unpack(id) }

// Generate returns the next ID.
func (g *Generator) Generate() (ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.next()
}

// Batch returns n consecutive IDs issued under a single lock acquisition.
// On error no ids are returned.
func (g *Generator) Batch(n int) ([]ID, error) {
	if n <= 0 {
		return nil, pkgerror.NewInvalidInput(fmt.Errorf("%w: %d", ErrInvalidBatchSize, n))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	ids := make([]ID, 0, n)
	for i := 0; i < n; i++ {
		id, err := g.next()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// next must be called with g.mu held.
func (g *Generator) next() (ID, error) {
	if err := ValidateNodeID(g.nodeID, g.layout.NodeBits); err != nil {
		return 0, err
	}

	ts := g.clock.Now()
	if err := g.checkTimestamp(ts); err != nil {
		return 0, err
	}
	if ts < g.lastTimestamp {
		return 0, pkgerror.NewUnavailable(fmt.Errorf("%w: now %dms, last issued %dms", ErrClockMovedBack, ts, g.lastTimestamp))
	}

	var seq int64
	if ts == g.lastTimestamp {
		seq = (g.sequence + 1) & g.layout.MaxSequence()
		if seq == 0 {
			ts = g.waitNextMilli(ts)
			if err := g.checkTimestamp(ts); err != nil {
				return 0, err
			}
		}
	}

	g.sequence = seq
	g.lastTimestamp = ts
	return g.layout.Pack(ts, g.nodeID, g.sequence), nil
}

// checkTimestamp rejects clock values the timestamp field cannot hold.
// Packing them would wrap and break ordering.
func (g *Generator) checkTimestamp(ts int64) error {
	if ts < 0 || uint64(ts) > g.layout.MaxTimestamp() {
		return pkgerror.NewOutOfRange(fmt.Errorf("%w: %dms not in [0, %d] for layout %s", ErrTimestampOutOfRange, ts, g.layout.MaxTimestamp(), g.layout))
	}
	return nil
}

// waitNextMilli spins until the clock passes ts. The lock stays held so no
// caller observes the exhausted millisecond.
func (g *Generator) waitNextMilli(ts int64) int64 {
	for {
		if now := g.clock.Now(); now > ts {
			return now
		}
		runtime.Gosched()
	}
}

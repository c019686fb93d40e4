package emitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sayan2306/distributed-idgen/internal/idgen"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgerror"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgroutine"
)

// Source is the part of *idgen.Generator the emitter needs.
type Source interface {
	Generate() (idgen.ID, error)
	Batch(n int) ([]idgen.ID, error)
}

type Config struct {
	Count   int
	Workers int
	Batch   int
	Format  string
	Verify  bool
	Retries int
	Backoff time.Duration
}

type Result struct {
	Written  int
	Duration time.Duration
}

type Emitter struct {
	cfg    Config
	source Source
	out    io.Writer
}

func NewEmitter(source Source, out io.Writer, cfg Config) *Emitter {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Batch < 1 {
		cfg.Batch = 1
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 10 * time.Millisecond
	}

	return &Emitter{cfg: cfg, source: source, out: out}
}

// Run issues cfg.Count ids across cfg.Workers goroutines and writes them.
// Output lines follow publication order, which is id order only with a
// single worker.
func (e *Emitter) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	bus := NewBus(e.cfg.Workers * e.cfg.Batch)
	writer := NewWriter(bus, e.out, WriterConfig{Format: e.cfg.Format, Verify: e.cfg.Verify})
	writer.Start()

	workers := pkgroutine.NewManager(e.cfg.Workers)
	for i, share := range split(e.cfg.Count, e.cfg.Workers) {
		if share == 0 {
			continue
		}
		i, share := i, share
		workers.Go(ctx, fmt.Sprintf("emitter-worker-%d", i), func(ctx context.Context) error {
			return e.work(ctx, bus, share)
		})
	}

	genErr := workers.Wait()
	bus.Close()
	writeErr := writer.Stop(context.Background())

	res := Result{Written: writer.Written(), Duration: time.Since(start)}
	if err := errors.Join(genErr, writeErr); err != nil {
		return res, err
	}

	slog.InfoContext(ctx, "emission finished", "count", res.Written, "workers", e.cfg.Workers, "duration", res.Duration)
	return res, nil
}

func (e *Emitter) work(ctx context.Context, bus *Bus, n int) error {
	for issued := 0; issued < n; {
		if err := ctx.Err(); err != nil {
			return err
		}
		ids, err := e.issue(ctx, min(e.cfg.Batch, n-issued))
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := bus.Publish(ctx, id); err != nil {
				return err
			}
		}
		issued += len(ids)
	}
	return nil
}

// issue retries transient generator failures with exponential backoff.
func (e *Emitter) issue(ctx context.Context, size int) ([]idgen.ID, error) {
	backoff := e.cfg.Backoff
	for attempt := 0; ; attempt++ {
		ids, err := e.generate(size)
		if err == nil {
			return ids, nil
		}

		if !pkgerror.IsRetryable(err) || attempt == e.cfg.Retries {
			return nil, err
		}

		slog.WarnContext(ctx, "generator unavailable, backing off", "attempt", attempt+1, "backoff", backoff, "error", err)
		if err := sleepBackoff(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= 2
	}
}

func (e *Emitter) generate(size int) ([]idgen.ID, error) {
	if size == 1 {
		id, err := e.source.Generate()
		if err != nil {
			return nil, err
		}
		return []idgen.ID{id}, nil
	}
	return e.source.Batch(size)
}

func sleepBackoff(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// split divides count into parts shares that differ by at most one.
func split(count, parts int) []int {
	if count < 0 {
		count = 0
	}
	shares := make([]int, parts)
	for i := range shares {
		shares[i] = count / parts
		if i < count%parts {
			shares[i]++
		}
	}
	return shares
}

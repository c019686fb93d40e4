package emitter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/sayan2306/distributed-idgen/internal/idgen"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgerror"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkguid"
)

// ErrDuplicateID is reported when verification sees the same id twice.
var ErrDuplicateID = errors.New("duplicate id")

type WriterConfig struct {
	Format string
	Verify bool
}

// Writer drains a Bus and writes each id on its own line.
type Writer struct {
	bus    *Bus
	out    *bufio.Writer
	format string
	verify bool
	seen   map[idgen.ID]struct{}

	wg      sync.WaitGroup
	err     error
	written int
}

func NewWriter(bus *Bus, out io.Writer, cfg WriterConfig) *Writer {
	format := cfg.Format
	if format == "" {
		format = pkguid.FormatDecimal
	}

	w := &Writer{
		bus:    bus,
		out:    bufio.NewWriter(out),
		format: format,
		verify: cfg.Verify,
	}
	if w.verify {
		w.seen = make(map[idgen.ID]struct{})
	}
	return w
}

func (w *Writer) Start() {
	w.wg.Add(1)
	go w.drain()
}

// Stop waits until the bus is closed and drained, then flushes the output.
// The bus must be closed by the caller.
func (w *Writer) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return w.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Written returns the number of lines written. Only valid after Stop.
func (w *Writer) Written() int {
	return w.written
}

func (w *Writer) drain() {
	defer w.wg.Done()

	// Keep receiving after a failure so publishers never block on a full bus.
	for id := range w.bus.Subscribe() {
		if w.err != nil {
			continue
		}
		w.err = w.write(id)
	}

	if err := w.out.Flush(); err != nil && w.err == nil {
		w.err = err
	}
}

func (w *Writer) write(id idgen.ID) error {
	if w.verify {
		if _, loaded := w.seen[id]; loaded {
			slog.Error("duplicate id emitted", "id", id.String())
			return fmt.Errorf("%w: %s: %w", ErrDuplicateID, id, pkgerror.NewBusiness("duplicate id emitted", pkgerror.CodeConflict))
		}
		w.seen[id] = struct{}{}
	}

	line, err := pkguid.Format(id, w.format)
	if err != nil {
		return err
	}
	if _, err := w.out.WriteString(line + "\n"); err != nil {
		return err
	}
	w.written++
	return nil
}

package emitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sayan2306/distributed-idgen/internal/idgen"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgerror"
)

type sourceFunc func() (idgen.ID, error)

func (f sourceFunc) Generate() (idgen.ID, error) { return f() }

func (f sourceFunc) Batch(n int) ([]idgen.ID, error) {
	ids := make([]idgen.ID, 0, n)
	for i := 0; i < n; i++ {
		id, err := f()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func clockMovedBack() error {
	return pkgerror.NewUnavailable(fmt.Errorf("%w: now 1ms, last issued 2ms", idgen.ErrClockMovedBack))
}

func parseLines(t *testing.T, out string) []uint64 {
	t.Helper()
	var ids []uint64
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			t.Fatalf("parse %q: %v", line, err)
		}
		ids = append(ids, v)
	}
	return ids
}

func TestEmitterRunConcurrentUnique(t *testing.T) {
	t.Parallel()

	gen, err := idgen.New(12)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out bytes.Buffer
	em := NewEmitter(gen, &out, Config{Count: 1000, Workers: 4, Batch: 7, Verify: true})

	res, err := em.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Written != 1000 {
		t.Fatalf("Written = %d, want 1000", res.Written)
	}

	ids := parseLines(t, out.String())
	if len(ids) != 1000 {
		t.Fatalf("got %d lines, want 1000", len(ids))
	}
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
		if node := gen.Decompose(idgen.ID(id)).NodeID; node != 12 {
			t.Fatalf("id %d carries node %d", id, node)
		}
	}
}

func TestEmitterRunSingleWorkerIsOrdered(t *testing.T) {
	t.Parallel()

	gen, err := idgen.New(1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out bytes.Buffer
	if _, err := NewEmitter(gen, &out, Config{Count: 300, Batch: 50}).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	ids := parseLines(t, out.String())
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("line %d: %d not greater than %d", i, ids[i], ids[i-1])
		}
	}
}

func TestEmitterRunHexFormat(t *testing.T) {
	t.Parallel()

	gen, err := idgen.New(3,
		idgen.WithLayout(idgen.Layout{TimestampBits: 47, NodeBits: 5, SequenceBits: 12}),
		idgen.WithClock(idgen.ClockFunc(func() int64 { return 1000 })),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out bytes.Buffer
	if _, err := NewEmitter(gen, &out, Config{Count: 2, Format: "hex"}).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := out.String(), "7d03000\n7d03001\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestEmitterRetriesClockRegression(t *testing.T) {
	t.Parallel()

	var calls int32
	src := sourceFunc(func() (idgen.ID, error) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			return 0, clockMovedBack()
		}
		return 99, nil
	})

	var out bytes.Buffer
	em := NewEmitter(src, &out, Config{Count: 1, Retries: 3, Backoff: time.Millisecond})
	if _, err := em.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if out.String() != "99\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestEmitterGivesUpAfterRetries(t *testing.T) {
	t.Parallel()

	var calls int32
	src := sourceFunc(func() (idgen.ID, error) {
		atomic.AddInt32(&calls, 1)
		return 0, clockMovedBack()
	})

	em := NewEmitter(src, &bytes.Buffer{}, Config{Count: 1, Retries: 2, Backoff: time.Millisecond})
	_, err := em.Run(context.Background())
	if !errors.Is(err, idgen.ErrClockMovedBack) {
		t.Fatalf("expected ErrClockMovedBack, got %v", err)
	}
	if got := pkgerror.ExitCodeOf(err); got != pkgerror.ExitTempFail {
		t.Fatalf("expected exit code %d, got %d", pkgerror.ExitTempFail, got)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestEmitterDoesNotRetryValidationErrors(t *testing.T) {
	t.Parallel()

	var calls int32
	src := sourceFunc(func() (idgen.ID, error) {
		atomic.AddInt32(&calls, 1)
		return 0, pkgerror.NewOutOfRange(idgen.ErrNodeIDOutOfRange)
	})

	em := NewEmitter(src, &bytes.Buffer{}, Config{Count: 1, Retries: 5, Backoff: time.Millisecond})
	if _, err := em.Run(context.Background()); !errors.Is(err, idgen.ErrNodeIDOutOfRange) {
		t.Fatalf("expected ErrNodeIDOutOfRange, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 attempt, got %d", calls)
	}
}

func TestEmitterVerifyDetectsDuplicates(t *testing.T) {
	t.Parallel()

	src := sourceFunc(func() (idgen.ID, error) { return 7, nil })

	var out bytes.Buffer
	res, err := NewEmitter(src, &out, Config{Count: 3, Verify: true}).Run(context.Background())
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if res.Written != 1 {
		t.Fatalf("Written = %d, want 1", res.Written)
	}
}

func TestEmitterCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := sourceFunc(func() (idgen.ID, error) { return 1, nil })
	if _, err := NewEmitter(src, &bytes.Buffer{}, Config{Count: 10}).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEmitterZeroCount(t *testing.T) {
	t.Parallel()

	src := sourceFunc(func() (idgen.ID, error) {
		t.Errorf("generator should not be called")
		return 0, nil
	})

	var out bytes.Buffer
	res, err := NewEmitter(src, &out, Config{Count: 0, Workers: 3}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Written != 0 || out.Len() != 0 {
		t.Fatalf("expected no output, got %d lines %q", res.Written, out.String())
	}
}

func TestSplit(t *testing.T) {
	cases := []struct {
		count, parts int
		want         []int
	}{
		{10, 3, []int{4, 3, 3}},
		{2, 4, []int{1, 1, 0, 0}},
		{0, 2, []int{0, 0}},
		{-1, 1, []int{0}},
	}
	for _, c := range cases {
		if got := split(c.count, c.parts); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("split(%d, %d) = %v, want %v", c.count, c.parts, got, c.want)
		}
	}
}

package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sayan2306/distributed-idgen/internal/idgen"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgconfig"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgerror"
)

func newConfig(t *testing.T, overrides map[string]any) pkgconfig.Config {
	t.Helper()
	values := defaults()
	for k, v := range overrides {
		values[k] = v
	}
	cfg, err := pkgconfig.NewViper(filepath.Join(t.TempDir(), "config.yaml"), values)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}
	return cfg
}

func TestAppEmitsConfiguredIDs(t *testing.T) {
	var out bytes.Buffer
	app, err := newApp(newConfig(t, map[string]any{
		"node.id":      9,
		"epoch":        "2024-01-01T00:00:00Z",
		"emit.count":   50,
		"emit.workers": 3,
		"emit.verify":  true,
	}), &out)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	select {
	case <-app.Start():
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for emission")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 50 {
		t.Fatalf("got %d lines, want 50", len(lines))
	}

	gen := app.generator
	for _, line := range lines {
		v, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			t.Fatalf("parse %q: %v", line, err)
		}
		parts := gen.Decompose(idgen.ID(v))
		if parts.NodeID != 9 {
			t.Fatalf("id %d carries node %d", v, parts.NodeID)
		}
		if ts := parts.Time(gen.Epoch()); time.Since(ts) > time.Minute || ts.After(time.Now()) {
			t.Fatalf("decoded time %v is not recent", ts)
		}
	}
}

func TestNewAppRejectsInvalidSettings(t *testing.T) {
	cases := map[string]struct {
		overrides map[string]any
		target    error
	}{
		"missing node id":   {map[string]any{}, ErrNodeIDMissing},
		"negative node id":  {map[string]any{"node.id": -1}, idgen.ErrNodeIDOutOfRange},
		"node id too large": {map[string]any{"node.id": 1024}, idgen.ErrNodeIDOutOfRange},
		"bad layout":        {map[string]any{"node.id": 1, "layout.node_bits": 11}, idgen.ErrInvalidLayout},
		"non-numeric id":    {map[string]any{"node.id": "node-seven"}, ErrInvalidSetting},
		"fractional id":     {map[string]any{"node.id": "7.5"}, ErrInvalidSetting},
		"wide node bits":    {map[string]any{"node.id": 1, "layout.node_bits": 266}, ErrInvalidSetting},
		"negative bits":     {map[string]any{"node.id": 1, "layout.sequence_bits": -12}, ErrInvalidSetting},
		"non-numeric bits":  {map[string]any{"node.id": 1, "layout.timestamp_bits": "forty"}, ErrInvalidSetting},
	}

	for name, c := range cases {
		_, err := newApp(newConfig(t, c.overrides), &bytes.Buffer{})
		if !errors.Is(err, c.target) {
			t.Fatalf("%s: expected %v, got %v", name, c.target, err)
		}
		if got := pkgerror.ExitCodeOf(err); got != pkgerror.ExitUsage {
			t.Fatalf("%s: expected exit code %d, got %d", name, pkgerror.ExitUsage, got)
		}
	}
}

func TestNewAppRejectsFutureEpoch(t *testing.T) {
	future := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	_, err := newApp(newConfig(t, map[string]any{"node.id": 1, "epoch": future}), &bytes.Buffer{})
	if !errors.Is(err, idgen.ErrInvalidEpoch) {
		t.Fatalf("expected %v, got %v", idgen.ErrInvalidEpoch, err)
	}
	if got := pkgerror.ExitCodeOf(err); err == nil || got != pkgerror.ExitUsage {
		t.Fatalf("expected usage error, got %v (exit %d)", err, got)
	}
}

func TestNewAppRandomNodeID(t *testing.T) {
	app, err := newApp(newConfig(t, map[string]any{"node.random": true, "layout.timestamp_bits": 47, "layout.node_bits": 5}), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if id := app.generator.NodeID(); id < 0 || id > 31 {
		t.Fatalf("random node id %d outside 5-bit range", id)
	}
}

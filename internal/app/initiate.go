package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sayan2306/distributed-idgen/internal/idgen"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgconfig"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgerror"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkglog"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgroutine"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkguid"
)

var (
	// ErrNodeIDMissing is returned when neither node.id nor node.random is configured.
	ErrNodeIDMissing = errors.New("node.id is not configured")
	// ErrInvalidSetting is returned for a setting that does not parse or fit its type.
	ErrInvalidSetting = errors.New("invalid setting")
)

func defaults() map[string]any {
	return map[string]any{
		"node.random":           false,
		"layout.timestamp_bits": idgen.DefaultLayout.TimestampBits,
		"layout.node_bits":      idgen.DefaultLayout.NodeBits,
		"layout.sequence_bits":  idgen.DefaultLayout.SequenceBits,
		"emit.count":            1,
		"emit.workers":          1,
		"emit.batch":            1,
		"emit.format":           pkguid.FormatDecimal,
		"emit.verify":           false,
		"emit.retries":          3,
		"emit.backoff":          "10ms",
		"log.level":             "info",
	}
}

func configPath() string {
	if p := os.Getenv("IDGEN_CONFIG"); p != "" {
		return p
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

func loadConfig() (pkgconfig.Config, error) {
	return pkgconfig.NewViper(configPath(), defaults())
}

func (a *App) initLibraries() error {
	a.goroutine = pkgroutine.NewManager(1)
	a.uuid = pkguid.NewUUID()
	a.ctx = pkglog.SetCorrelationID(a.ctx, a.uuid.Generate())

	layout, err := a.layout()
	if err != nil {
		return err
	}

	epoch, err := a.epoch()
	if err != nil {
		return err
	}

	nodeID, err := a.nodeID(layout)
	if err != nil {
		return err
	}

	a.generator, err = idgen.New(nodeID, idgen.WithLayout(layout), idgen.WithEpoch(epoch))
	if err != nil {
		return err
	}

	slog.InfoContext(a.ctx, "generator ready",
		"node_id", nodeID,
		"layout", layout.String(),
		"epoch", epoch.Format(time.RFC3339),
	)
	return nil
}

func (a *App) epoch() (time.Time, error) {
	if !a.config.IsSet("epoch") {
		return idgen.DefaultEpoch, nil
	}

	epoch := a.config.GetTime("epoch")
	if epoch.IsZero() {
		return time.Time{}, pkgerror.NewInvalidInput(fmt.Errorf("epoch %q is not a valid timestamp", a.config.GetString("epoch")))
	}
	return epoch, nil
}

func (a *App) nodeID(layout idgen.Layout) (int64, error) {
	if a.config.GetBool("node.random") {
		nodeID, err := pkguid.RandomNodeID(layout.NodeBits)
		if err != nil {
			return 0, pkgerror.NewServer(err)
		}
		slog.WarnContext(a.ctx, "using random node id; uniqueness across nodes is not guaranteed", "node_id", nodeID)
		return nodeID, nil
	}

	if !a.config.IsSet("node.id") {
		return 0, pkgerror.NewInvalidInput(ErrNodeIDMissing)
	}
	return a.parseInt("node.id", 64)
}

func (a *App) layout() (idgen.Layout, error) {
	var widths [3]uint8
	for i, key := range []string{"layout.timestamp_bits", "layout.node_bits", "layout.sequence_bits"} {
		v, err := a.parseInt(key, 8)
		if err != nil {
			return idgen.Layout{}, err
		}
		if v < 0 {
			return idgen.Layout{}, pkgerror.NewInvalidInput(fmt.Errorf("%w: %s is negative", ErrInvalidSetting, key))
		}
		widths[i] = uint8(v)
	}

	layout := idgen.Layout{TimestampBits: widths[0], NodeBits: widths[1], SequenceBits: widths[2]}
	if err := layout.Validate(); err != nil {
		return idgen.Layout{}, err
	}
	return layout, nil
}

// parseInt reads key as a base-10 integer of at most bitSize bits. Going
// through the raw string keeps a typo from silently becoming 0 and a large
// width from wrapping.
func (a *App) parseInt(key string, bitSize int) (int64, error) {
	raw := strings.TrimSpace(a.config.GetString(key))
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || (bitSize < 64 && v >= 1<<bitSize) {
		return 0, pkgerror.NewInvalidInput(fmt.Errorf("%w: %s=%q is not an integer of %d bits", ErrInvalidSetting, key, raw, bitSize))
	}
	return v, nil
}

func (a *App) initClosers() error {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
	return nil
}

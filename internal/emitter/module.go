package emitter

import (
	"errors"
	"fmt"
	"io"

	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgconfig"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgerror"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkguid"
)

// ErrInvalidConfig is returned by New for unusable emit.* settings.
var ErrInvalidConfig = errors.New("invalid emitter config")

type Dependency struct {
	Config    pkgconfig.Config
	Generator Source
	Output    io.Writer
}

// New builds an Emitter from the emit.* configuration keys.
func New(dep Dependency) (*Emitter, error) {
	cfg := Config{
		Count:   int(dep.Config.GetInt("emit.count")),
		Workers: int(dep.Config.GetInt("emit.workers")),
		Batch:   int(dep.Config.GetInt("emit.batch")),
		Format:  dep.Config.GetString("emit.format"),
		Verify:  dep.Config.GetBool("emit.verify"),
		Retries: int(dep.Config.GetInt("emit.retries")),
		Backoff: dep.Config.GetDuration("emit.backoff"),
	}

	if cfg.Count < 0 {
		return nil, pkgerror.NewInvalidInput(fmt.Errorf("%w: emit.count %d is negative", ErrInvalidConfig, cfg.Count))
	}
	if cfg.Workers < 1 || cfg.Batch < 1 {
		return nil, pkgerror.NewInvalidInput(fmt.Errorf("%w: emit.workers and emit.batch must be positive", ErrInvalidConfig))
	}
	if err := pkguid.ValidateFormat(cfg.Format); err != nil {
		return nil, err
	}
	if dep.Generator == nil || dep.Output == nil {
		return nil, pkgerror.NewInvalidInput(fmt.Errorf("%w: generator and output are required", ErrInvalidConfig))
	}

	return NewEmitter(dep.Generator, dep.Output, cfg), nil
}

package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/sayan2306/distributed-idgen/internal/emitter"
	"github.com/sayan2306/distributed-idgen/internal/idgen"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgconfig"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgerror"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkglog"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgroutine"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	goroutine *pkgroutine.Manager
	generator *idgen.Generator

	// modules
	output  io.Writer
	emitter *emitter.Emitter

	//
	interrupted chan struct{}
	closerFn    map[string]func(context.Context) error
}

// New builds the application from the config file and environment. It exits
// the process when any part cannot be initialized.
func New() *App {
	pkglog.InitLogging("info")

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(pkgerror.ExitCodeOf(err))
	}

	app, err := newApp(cfg, os.Stdout)
	if err != nil {
		slog.Error("failed to init application", "error", err)
		os.Exit(pkgerror.ExitCodeOf(err))
	}

	return app
}

func newApp(cfg pkgconfig.Config, output io.Writer) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:         ctx,
		cancel:      cancel,
		config:      cfg,
		output:      output,
		interrupted: make(chan struct{}),
	}

	pkglog.InitLogging(cfg.GetString("log.level"))

	steps := []func() error{
		app.initLibraries,
		app.initModules,
		app.initClosers,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			cancel()
			return nil, err
		}
	}

	return app, nil
}

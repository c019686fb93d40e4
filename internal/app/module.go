package app

import (
	"github.com/sayan2306/distributed-idgen/internal/emitter"
)

func (a *App) initModules() error {
	em, err := emitter.New(emitter.Dependency{
		Config:    a.config,
		Generator: a.generator,
		Output:    a.output,
	})
	if err != nil {
		return err
	}

	a.emitter = em
	return nil
}

package main

import (
	"context"
	"os"
	"time"

	"github.com/sayan2306/distributed-idgen/internal/app"
	"github.com/sayan2306/distributed-idgen/internal/pkg/pkgerror"
)

func main() {
	application := app.New()    // Load config and build the generator
	wait := application.Start() // Start emitting and watch for termination signals
	<-wait                      // Wait for the emission to finish or a signal

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err := application.Stop(ctx)
	cancel()

	os.Exit(pkgerror.ExitCodeOf(err))
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"courier-dispatch/internal/app"
)

// worker consumes dispatch events and runs the pending-order sweep.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container := app.MustBuildWorkerContainer(ctx)
	app.NewWorkerRunner().MustRun(container)
	log.Println("worker stopped")
}

// Storycat - Offline-First Story Catalog
//
// A CLI client for the Story API that keeps working without a network
// connection: stories authored offline are queued locally and synced
// automatically when connectivity returns.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/story-catalog/storycat/internal/cli"
	"github.com/story-catalog/storycat/internal/config"
	"github.com/story-catalog/storycat/internal/log"
	"github.com/story-catalog/storycat/internal/store"
	"github.com/story-catalog/storycat/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Open the store once here for the persistent tracking id. Commands
	// open their own handle; sqlite's busy timeout covers the overlap.
	var telemetryClient telemetry.Client
	if cfg, err := config.Load(); err == nil {
		paths := config.GetPaths(cfg)
		if st, err := store.New(store.DefaultConfig(paths.Database)); err == nil {
			telemetryClient = telemetry.New(st)
			_ = st.Close()
		}
	}
	if telemetryClient == nil {
		telemetryClient = telemetry.New(nil)
	}
	defer telemetryClient.Close()
	defer func() { _ = log.Close() }()

	if err := cli.Execute(ctx, telemetryClient); err != nil {
		os.Exit(1)
	}
}

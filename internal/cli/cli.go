// Package cli provides the command-line interface for Storycat.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/story-catalog/storycat/internal/config"
	"github.com/story-catalog/storycat/internal/gateway"
	"github.com/story-catalog/storycat/internal/log"
	"github.com/story-catalog/storycat/internal/store"
	syncengine "github.com/story-catalog/storycat/internal/sync"
	"github.com/story-catalog/storycat/internal/telemetry"
	"github.com/story-catalog/storycat/pkg/version"
)

var telemetryClient telemetry.Client

var commandStartTime time.Time

var rootCmd = &cobra.Command{
	Use:   "storycat",
	Short: "Offline-first story catalog client",
	Long: `Offline-first story catalog client.

Browse, add, and favorite location-tagged stories from the Story API.
Stories authored while offline are queued locally and synced
automatically when connectivity returns.

Telemetry:
  Telemetry is enabled by default, always anonymous, and will never track
  personal information, story content, or IP addresses.

  Opt-out with:
  	STORYCAT_TELEMETRY_TRACKING_ENABLED=false`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commandStartTime = time.Now()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() != "storycat" {
			durationMs := time.Since(commandStartTime).Milliseconds()
			hasFlags := cmd.Flags().NFlag() > 0
			telemetryClient.TrackCLICommandExecuted(cmd.Name(), hasFlags, durationMs)
		}
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(storiesCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(notifyCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context, tc telemetry.Client) error {
	if tc == nil {
		tc = telemetry.New(nil)
	}
	telemetryClient = tc

	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.Commit),
	)
}

// app bundles the collaborators every command needs.
type app struct {
	cfg    *config.Config
	store  *store.Store
	client *gateway.Client
	engine *syncengine.Engine
}

// setup builds the application stack: config, store (with in-memory
// fallback when durable storage is unavailable), gateway, and engine.
// The returned cleanup closes the store.
func setup() (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	paths := config.GetPaths(cfg)
	if err := log.Init(paths.Logs); err != nil {
		return nil, nil, fmt.Errorf("initialize logging: %w", err)
	}

	st, err := store.New(store.DefaultConfig(paths.Database))
	if err != nil {
		if !errors.Is(err, store.ErrStorageUnavailable) {
			return nil, nil, fmt.Errorf("initialize store: %w", err)
		}
		log.Errorf("durable storage unavailable, using session-only store: %v", err)
		st, err = store.NewInMemory()
		if err != nil {
			return nil, nil, fmt.Errorf("initialize fallback store: %w", err)
		}
	}

	client := gateway.NewClient(cfg.API.BaseURL, st, cfg.API.RateLimit)
	engine := syncengine.NewEngine(st, client)

	cleanup := func() { _ = st.Close() }
	return &app{cfg: cfg, store: st, client: client, engine: engine}, cleanup, nil
}

// connect probes the API once and feeds the result into the engine, so
// commands queue immediately instead of waiting out network timeouts
// while offline. With auto sync enabled, pending work is drained before
// the command proceeds.
func (a *app) connect(ctx context.Context) {
	wasOnline := a.engine.Online()
	online := a.client.Ping(ctx) == nil
	if online != wasOnline {
		telemetryClient.TrackConnectivityChanged(online)
	}
	a.engine.SetOnline(ctx, online)

	if online && a.cfg.Sync.AutoSync {
		if err := a.engine.Initialize(ctx); err != nil {
			log.Errorf("auto sync: %v", err)
		}
	}
}

// trackCLIError wraps an error with telemetry tracking.
// Call this before returning errors from CLI commands.
func trackCLIError(cmdName string, err error) error {
	if err == nil {
		return nil
	}
	errorType := classifyError(err)
	telemetryClient.TrackCLIError(cmdName, errorType)
	return err
}

// classifyError determines the error type for telemetry.
func classifyError(err error) string {
	switch {
	case errors.Is(err, gateway.ErrNetworkFailure):
		return "network_error"
	case errors.Is(err, gateway.ErrAuthenticationRequired):
		return "auth_error"
	case errors.Is(err, store.ErrStorageUnavailable):
		return "storage_error"
	case errors.Is(err, syncengine.ErrOffline):
		return "offline_error"
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "config"):
		return "config_error"
	case strings.Contains(errStr, "not found"):
		return "not_found_error"
	case strings.Contains(errStr, "invalid"):
		return "validation_error"
	default:
		return "unknown_error"
	}
}

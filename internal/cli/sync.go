package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	syncengine "github.com/story-catalog/storycat/internal/sync"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push pending stories to the API",
	Long: `Run one reconciliation pass: push all locally queued stories to the
Story API and refresh the local cache.

Stories that keep failing are retried on later passes, up to three
attempts, then marked failed and kept for inspection via 'storycat status'.

With --watch, stay running after the initial pass and keep probing
connectivity, draining pending work whenever the connection comes back.`,
	Args: cobra.NoArgs,
	RunE: runSyncCmd,
}

var syncWatch bool

func init() {
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false, "keep running and sync on reconnect")
}

func runSyncCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, cleanup, err := setup()
	if err != nil {
		return trackCLIError("sync", err)
	}
	defer cleanup()

	okStyle := lipgloss.NewStyle().Bold(true)

	id := a.engine.Notifier().Subscribe(func(event syncengine.Event) {
		switch event.Type {
		case syncengine.EventStorySynced:
			if event.Success {
				fmt.Printf("  %s %s\n", okStyle.Render("synced"), event.Story.DisplayID())
			} else {
				fmt.Printf("  failed %s: %v\n", event.Story.DisplayID(), event.Err)
			}
		case syncengine.EventSyncError:
			fmt.Printf("  sync error: %v\n", event.Err)
		}
	})
	defer a.engine.Notifier().Unsubscribe(id)

	a.engine.SetOnline(ctx, a.client.Ping(ctx) == nil)

	start := time.Now()
	result, err := a.engine.ForceSync(ctx)
	switch {
	case errors.Is(err, syncengine.ErrOffline) && syncWatch:
		fmt.Println("Offline; will sync when the connection comes back.")
	case err != nil:
		telemetryClient.TrackSyncFailed(classifyError(err))
		return trackCLIError("sync", fmt.Errorf("sync: %w", err))
	case result == nil:
		fmt.Println("Sync already in progress.")
		return nil
	default:
		telemetryClient.TrackSyncCompleted(result.SyncedCount, result.FailedCount,
			result.TotalProcessed, time.Since(start).Milliseconds())

		fmt.Printf("Sync complete: %d synced, %d failed, %d processed.\n",
			result.SyncedCount, result.FailedCount, result.TotalProcessed)
	}

	if syncWatch {
		interval := time.Duration(a.cfg.Sync.ProbeIntervalSeconds) * time.Second
		fmt.Printf("Watching connectivity (probe every %s, Ctrl-C to stop).\n", interval)
		a.engine.Monitor(ctx, a.client, interval)
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/story-catalog/storycat/pkg/version"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity, sync state, and local store statistics",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, cleanup, err := setup()
	if err != nil {
		return trackCLIError("status", err)
	}
	defer cleanup()

	// Probe once so the report reflects current reachability rather
	// than the engine's initial assumption.
	reachable := a.client.Ping(ctx) == nil
	a.engine.SetOnline(ctx, reachable)

	status := a.engine.GetStatus()
	stats, err := a.store.GetStats()
	if err != nil {
		return trackCLIError("status", fmt.Errorf("store stats: %w", err))
	}

	titleStyle := lipgloss.NewStyle().Bold(true)

	fmt.Println(titleStyle.Render("Storycat " + version.Short()))
	fmt.Println()

	conn := "offline"
	if status.Online {
		conn = "online"
	}
	fmt.Printf("Connectivity:    %s\n", conn)
	fmt.Printf("Sync state:      %s\n", status.State)
	if status.LastSyncAt != nil {
		fmt.Printf("Last full sync:  %s\n", status.LastSyncAt.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Printf("Last full sync:  never\n")
	}

	session, err := a.store.GetSession()
	if err == nil && session.IsAuthenticated() {
		fmt.Printf("Logged in as:    %s\n", session.Name)
	} else {
		fmt.Printf("Logged in as:    (not logged in)\n")
	}

	fmt.Println()
	fmt.Printf("Cached stories:  %d\n", stats.Stories)
	fmt.Printf("Favorites:       %d\n", stats.Favorites)
	fmt.Printf("Pending stories: %d\n", stats.PendingStories)
	fmt.Printf("Sync queue:      %d\n", stats.SyncQueue)
	fmt.Printf("Cache size:      %d bytes\n", stats.CacheSizeBytes)
	if a.store.InMemory() {
		fmt.Println()
		fmt.Println("Warning: running on a session-only in-memory store.")
	}

	failed, err := a.store.GetFailedStories()
	if err != nil {
		return trackCLIError("status", fmt.Errorf("failed stories: %w", err))
	}
	if len(failed) > 0 {
		fmt.Println()
		fmt.Printf("%d stories gave up after repeated sync failures:\n", len(failed))
		for _, p := range failed {
			fmt.Printf("  %s  %s (%s)\n", p.DisplayID(), firstLine(p.Description), p.LastError)
		}
	}

	return nil
}

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var storiesRefresh bool

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "List stories",
	Long: `List all stories: cached from the API plus any authored offline
that are still waiting to sync.

Examples:
  storycat stories
  storycat stories --refresh`,
	Args: cobra.NoArgs,
	RunE: runStories,
}

func init() {
	storiesCmd.Flags().BoolVar(&storiesRefresh, "refresh", false, "refresh the cache from the API first")
}

func runStories(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, cleanup, err := setup()
	if err != nil {
		return trackCLIError("stories", err)
	}
	defer cleanup()

	a.connect(ctx)

	views, err := a.engine.GetStories(ctx, storiesRefresh)
	if err != nil {
		return trackCLIError("stories", fmt.Errorf("get stories: %w", err))
	}

	if len(views) == 0 {
		fmt.Println("No stories yet. Add one with 'storycat add'.")
		return nil
	}

	pendingCount := 0
	pendingStyle := lipgloss.NewStyle().Bold(true)
	for _, view := range views {
		marker := " "
		if view.SyncPending {
			marker = pendingStyle.Render("*")
			pendingCount++
		}
		line := fmt.Sprintf("%s %-14s %s", marker, view.ID, firstLine(view.Description))
		if view.HasLocation() {
			line += fmt.Sprintf("  (%.4f, %.4f)", *view.Lat, *view.Lon)
		}
		fmt.Println(line)
	}

	if pendingCount > 0 {
		fmt.Printf("\n%d pending sync (*). Run 'storycat sync' to push them.\n", pendingCount)
	}

	telemetryClient.TrackStoriesListed(len(views)-pendingCount, pendingCount, storiesRefresh)
	return nil
}

// firstLine truncates a description to its first line for list output.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}

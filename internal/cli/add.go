package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/story-catalog/storycat/internal/gateway"
)

var (
	addPhotoPath string
	addLat       float64
	addLon       float64
)

var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a new story",
	Long: `Add a new story to the catalog.

If the API is unreachable the story is queued locally and synced on the
next 'storycat sync' or automatically when connectivity returns.

Examples:
  storycat add "Trip to the lake" --photo lake.jpg
  storycat add "Sunset from the pier" --photo pier.jpg --lat -6.2 --lon 106.8`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addPhotoPath, "photo", "", "path to the story photo")
	addCmd.Flags().Float64Var(&addLat, "lat", 0, "latitude of the story location")
	addCmd.Flags().Float64Var(&addLon, "lon", 0, "longitude of the story location")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, cleanup, err := setup()
	if err != nil {
		return trackCLIError("add", err)
	}
	defer cleanup()

	a.connect(ctx)

	input := gateway.CreateStoryInput{Description: args[0]}

	if addPhotoPath != "" {
		photo, err := os.ReadFile(addPhotoPath)
		if err != nil {
			return trackCLIError("add", fmt.Errorf("read photo: %w", err))
		}
		input.Photo = photo
		input.PhotoName = filepath.Base(addPhotoPath)
	}

	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
		lat, lon := addLat, addLon
		input.Lat = &lat
		input.Lon = &lon
	}

	result, err := a.engine.CreateStory(ctx, input)
	if err != nil {
		return trackCLIError("add", fmt.Errorf("create story: %w", err))
	}

	telemetryClient.TrackStoryCreated(result.Queued(), len(input.Photo) > 0, input.Lat != nil)

	if result.Queued() {
		queuedStyle := lipgloss.NewStyle().Bold(true)
		fmt.Printf("%s: story saved locally (id %s) and will sync when online.\n",
			queuedStyle.Render("QUEUED"), result.Pending.DisplayID())
		return nil
	}

	fmt.Printf("Story published")
	if result.Story.ID != "" {
		fmt.Printf(" (id %s)", result.Story.ID)
	}
	fmt.Println(".")
	return nil
}

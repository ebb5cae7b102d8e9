package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/story-catalog/storycat/internal/favorites"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage favorite stories",
	Long: `Manage your favorite stories.

Favorites keep a snapshot of the story, so they survive cache refreshes
and work offline.

Subcommands:
  add <story-id>     Add a story to favorites
  remove <story-id>  Remove a story from favorites
  list               List all favorite stories`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <story-id>",
	Short: "Add a story to favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <story-id>",
	Short: "Remove a story from favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesRemove,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all favorite stories",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

func init() {
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesListCmd)
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	storyID := args[0]

	a, cleanup, err := setup()
	if err != nil {
		return trackCLIError("favorites add", err)
	}
	defer cleanup()

	story, err := a.store.GetStory(storyID)
	if err != nil {
		return trackCLIError("favorites add", fmt.Errorf("lookup story: %w", err))
	}
	if story == nil {
		return trackCLIError("favorites add", fmt.Errorf("story not found: %s", storyID))
	}

	service := favorites.NewService(a.store)
	if err := service.Add(storyID, *story); err != nil {
		return trackCLIError("favorites add", fmt.Errorf("add favorite: %w", err))
	}

	telemetryClient.TrackFavoriteAdded()
	fmt.Printf("Added '%s' to favorites.\n", story.Name)
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	storyID := args[0]

	a, cleanup, err := setup()
	if err != nil {
		return trackCLIError("favorites remove", err)
	}
	defer cleanup()

	service := favorites.NewService(a.store)
	if err := service.Remove(storyID); err != nil {
		return trackCLIError("favorites remove", fmt.Errorf("remove favorite: %w", err))
	}

	telemetryClient.TrackFavoriteRemoved()
	fmt.Printf("Removed %s from favorites.\n", storyID)
	return nil
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	a, cleanup, err := setup()
	if err != nil {
		return trackCLIError("favorites list", err)
	}
	defer cleanup()

	service := favorites.NewService(a.store)
	favs, err := service.List()
	if err != nil {
		return trackCLIError("favorites list", fmt.Errorf("list favorites: %w", err))
	}

	if len(favs) == 0 {
		fmt.Println("No favorites yet. Add one with 'storycat favorites add <story-id>'.")
		return nil
	}

	for _, fav := range favs {
		story, err := fav.GetSnapshot()
		if err != nil {
			fmt.Printf("%-14s (snapshot unreadable)\n", fav.StoryID)
			continue
		}
		fmt.Printf("%-14s %s  (added %s)\n", fav.StoryID, story.Name, fav.AddedAt.Format("2006-01-02"))
	}
	return nil
}

// Package favorites manages the user's favorite stories. Favorites are
// independent of sync state: they are created and deleted directly by
// user action and survive cache refreshes because each record carries
// its own story snapshot.
package favorites

import (
	"fmt"
	"time"

	"github.com/story-catalog/storycat/internal/models"
	"github.com/story-catalog/storycat/internal/store"
)

// Service provides favorite operations over the persistent store.
type Service struct {
	store *store.Store
}

// NewService creates a favorites service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Add marks a story as a favorite, capturing a snapshot of the story.
// Re-adding an existing favorite overwrites both the snapshot and the
// added-at timestamp.
func (s *Service) Add(storyID string, snapshot models.Story) error {
	fav := models.Favorite{
		StoryID: storyID,
		AddedAt: time.Now(),
	}
	if err := fav.SetSnapshot(snapshot); err != nil {
		return fmt.Errorf("snapshot story: %w", err)
	}
	return s.store.PutFavorite(&fav)
}

// Remove deletes a favorite. Removing an absent id is a no-op.
func (s *Service) Remove(storyID string) error {
	return s.store.DeleteFavorite(storyID)
}

// IsFavorite returns true if the story is favorited.
func (s *Service) IsFavorite(storyID string) (bool, error) {
	fav, err := s.store.GetFavorite(storyID)
	if err != nil {
		return false, err
	}
	return fav != nil, nil
}

// List returns all favorites, most recently added first.
func (s *Service) List() ([]models.Favorite, error) {
	return s.store.GetFavorites()
}

// Stories returns the snapshots of all favorites, most recently added
// first. Records with a corrupt snapshot are skipped.
func (s *Service) Stories() ([]models.Story, error) {
	favs, err := s.store.GetFavorites()
	if err != nil {
		return nil, err
	}

	stories := make([]models.Story, 0, len(favs))
	for i := range favs {
		story, err := favs[i].GetSnapshot()
		if err != nil {
			continue
		}
		stories = append(stories, story)
	}
	return stories, nil
}

// Count returns the number of favorites.
func (s *Service) Count() (int64, error) {
	return s.store.CountFavorites()
}

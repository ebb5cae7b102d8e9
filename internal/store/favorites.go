package store

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/story-catalog/storycat/internal/models"
)

// PutFavorite inserts or overwrites a favorite by story id. Re-adding an
// existing favorite replaces the snapshot and added_at timestamp.
func (s *Store) PutFavorite(fav *models.Favorite) error {
	return s.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "story_id"}},
		UpdateAll: true,
	}).Create(fav).Error
}

// GetFavorite returns a favorite by story id, or nil if not found.
func (s *Store) GetFavorite(storyID string) (*models.Favorite, error) {
	var fav models.Favorite
	err := s.First(&fav, "story_id = ?", storyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fav, nil
}

// GetFavorites returns all favorites, most recently added first.
func (s *Store) GetFavorites() ([]models.Favorite, error) {
	var favs []models.Favorite
	err := s.Order("added_at DESC").Find(&favs).Error
	return favs, err
}

// DeleteFavorite removes a favorite. Deleting an absent id is a no-op.
func (s *Store) DeleteFavorite(storyID string) error {
	return s.Delete(&models.Favorite{}, "story_id = ?", storyID).Error
}

// CountFavorites returns the number of favorites.
func (s *Store) CountFavorites() (int64, error) {
	var count int64
	err := s.Model(&models.Favorite{}).Count(&count).Error
	return count, err
}

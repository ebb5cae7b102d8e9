package store

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/story-catalog/storycat/internal/models"
)

// PutStory inserts or overwrites a cached story by id.
func (s *Store) PutStory(story *models.Story) error {
	return s.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(story).Error
}

// GetStory returns a cached story by id, or nil if not found.
func (s *Store) GetStory(id string) (*models.Story, error) {
	var story models.Story
	err := s.First(&story, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &story, nil
}

// GetAllStories returns all cached stories ordered by creation time,
// newest first.
func (s *Store) GetAllStories() ([]models.Story, error) {
	var stories []models.Story
	err := s.Order("created_at DESC").Find(&stories).Error
	return stories, err
}

// DeleteStory removes a cached story. Deleting an absent id is a no-op.
func (s *Store) DeleteStory(id string) error {
	return s.Delete(&models.Story{}, "id = ?", id).Error
}

// ClearStories empties the committed story cache. Pending stories, the
// sync queue, and favorites are untouched.
func (s *Store) ClearStories() error {
	return s.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Story{}).Error
}

// ReplaceStories clears the cache and repopulates it in one transaction.
// Used by the sync engine's wholesale cache refresh.
func (s *Store) ReplaceStories(stories []models.Story) error {
	return s.Transaction(func(tx *Store) error {
		if err := tx.ClearStories(); err != nil {
			return err
		}
		for i := range stories {
			if err := tx.PutStory(&stories[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// CountStories returns the number of cached stories.
func (s *Store) CountStories() (int64, error) {
	var count int64
	err := s.Model(&models.Story{}).Count(&count).Error
	return count, err
}

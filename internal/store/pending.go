package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/story-catalog/storycat/internal/models"
)

// AddPendingStory persists a locally authored story and returns it with
// its auto-assigned temporary key.
func (s *Store) AddPendingStory(pending *models.PendingStory) error {
	if pending.CreatedAt.IsZero() {
		pending.CreatedAt = time.Now()
	}
	return s.Create(pending).Error
}

// GetPendingStory returns a pending story by temporary key, or nil if
// not found.
func (s *Store) GetPendingStory(tempID uint) (*models.PendingStory, error) {
	var pending models.PendingStory
	err := s.First(&pending, "temp_id = ?", tempID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pending, nil
}

// GetPendingStories returns all stories awaiting sync, oldest first so
// drain passes commit in authoring order. Synced and failed records are
// excluded: once a story exhausts its retries it is retained for
// inspection but never scanned again.
func (s *Store) GetPendingStories() ([]models.PendingStory, error) {
	var pending []models.PendingStory
	err := s.Where("synced = ? AND sync_failed = ?", false, false).
		Order("created_at ASC").
		Find(&pending).Error
	return pending, err
}

// GetFailedStories returns stories that exhausted their retry budget.
func (s *Store) GetFailedStories() ([]models.PendingStory, error) {
	var failed []models.PendingStory
	err := s.Where("sync_failed = ?", true).
		Order("created_at ASC").
		Find(&failed).Error
	return failed, err
}

// UpdatePendingStory overwrites a pending story's sync bookkeeping.
func (s *Store) UpdatePendingStory(pending *models.PendingStory) error {
	return s.Save(pending).Error
}

// MarkStorySynced flips a pending story to synced and attaches the
// remote-assigned id.
func (s *Store) MarkStorySynced(tempID uint, apiID string) error {
	now := time.Now()
	return s.Model(&models.PendingStory{}).
		Where("temp_id = ?", tempID).
		Updates(map[string]interface{}{
			"synced":    true,
			"api_id":    apiID,
			"synced_at": &now,
		}).Error
}

// DeletePendingStory removes a pending story. Absent keys are a no-op.
func (s *Store) DeletePendingStory(tempID uint) error {
	return s.Delete(&models.PendingStory{}, "temp_id = ?", tempID).Error
}

// ClearPendingStories empties the pending collection.
func (s *Store) ClearPendingStories() error {
	return s.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.PendingStory{}).Error
}

package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/story-catalog/storycat/internal/models"
)

// EnqueueSyncItem appends a work item to the sync queue.
func (s *Store) EnqueueSyncItem(item *models.SyncQueueItem) error {
	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now()
	}
	return s.Create(item).Error
}

// GetSyncQueue returns all queued work items in enqueue order.
func (s *Store) GetSyncQueue() ([]models.SyncQueueItem, error) {
	var items []models.SyncQueueItem
	err := s.Order("timestamp ASC, id ASC").Find(&items).Error
	return items, err
}

// GetSyncQueueItem returns a queued item by id, or nil if not found.
func (s *Store) GetSyncQueueItem(id uint) (*models.SyncQueueItem, error) {
	var item models.SyncQueueItem
	err := s.First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// RemoveSyncQueueItem deletes a queued item. Absent ids are a no-op.
func (s *Store) RemoveSyncQueueItem(id uint) error {
	return s.Delete(&models.SyncQueueItem{}, "id = ?", id).Error
}

// RemoveSyncQueueItemsForPending deletes queue items referencing a
// pending story. Used when the corresponding create commits.
func (s *Store) RemoveSyncQueueItemsForPending(pendingID uint) error {
	return s.Delete(&models.SyncQueueItem{}, "pending_id = ?", pendingID).Error
}

// ClearSyncQueue empties the queue.
func (s *Store) ClearSyncQueue() error {
	return s.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SyncQueueItem{}).Error
}

package models

import "time"

// SyncAction identifies the remote operation a queue item represents.
type SyncAction string

const (
	ActionCreate SyncAction = "create"
	ActionUpdate SyncAction = "update"
	ActionDelete SyncAction = "delete"
)

// Valid returns true for known sync actions.
func (a SyncAction) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// SyncQueueItem is a durable unit of work awaiting remote application.
// It exists independently of PendingStory so action types beyond creation
// can be queued without schema changes. Create items reference the
// pending story that carries the payload.
type SyncQueueItem struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Action    SyncAction `gorm:"size:20;index" json:"action"`
	PendingID uint       `gorm:"index" json:"pending_id"`
	Payload   string     `gorm:"type:text" json:"payload"`
	Timestamp time.Time  `gorm:"index" json:"timestamp"`

	RetryCount int `gorm:"default:0" json:"retry_count"`
}

// TableName specifies the table name for GORM.
func (SyncQueueItem) TableName() string {
	return "sync_queue"
}

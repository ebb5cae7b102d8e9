package models

import "time"

// SyncMeta stores sync metadata as key-value pairs.
type SyncMeta struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (SyncMeta) TableName() string {
	return "sync_meta"
}

// Common sync meta keys.
const (
	SyncMetaLastFullSync     = "last_full_sync"
	SyncMetaSchemaVersion    = "schema_version"
	SyncMetaTotalStories     = "total_stories"
	SyncMetaTrackingID       = "tracking_id"
	SyncMetaPushSubscription = "push_subscription"
)

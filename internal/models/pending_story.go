package models

import (
	"fmt"
	"time"
)

// MaxSyncRetries is the number of failed sync attempts after which a
// pending story is marked failed and excluded from automatic retry.
const MaxSyncRetries = 3

// PendingStory represents a locally authored story that has not been
// acknowledged by the remote API. It is created when a create request
// cannot reach the remote system and retired once Synced flips to true.
type PendingStory struct {
	TempID uint `gorm:"primaryKey;autoIncrement" json:"temp_id"`

	Description string `gorm:"type:text" json:"description"`

	// Photo payload normalized to raw bytes so it survives serialization.
	PhotoData []byte `gorm:"type:blob" json:"-"`
	PhotoName string `gorm:"size:255" json:"photo_name"`

	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Sync bookkeeping.
	Synced      bool       `gorm:"default:false;index" json:"synced"`
	APIID       string     `gorm:"size:64" json:"api_id"`
	SyncedAt    *time.Time `json:"synced_at"`
	RetryCount  int        `gorm:"default:0" json:"retry_count"`
	LastError   string     `gorm:"size:1000" json:"last_error"`
	LastRetryAt *time.Time `json:"last_retry_at"`
	SyncFailed  bool       `gorm:"default:false;index" json:"sync_failed"`
}

// TableName specifies the table name for GORM.
func (PendingStory) TableName() string {
	return "pending_stories"
}

// DisplayID returns the display-only identifier used in merged read
// views. It is derived from the temporary key so it never collides with
// a remote-assigned story id.
func (p *PendingStory) DisplayID() string {
	return fmt.Sprintf("offline-%d", p.TempID)
}

// Retryable returns true if the story should be picked up by a drain pass.
func (p *PendingStory) Retryable() bool {
	return !p.Synced && !p.SyncFailed
}

// RecordFailure increments the retry bookkeeping and marks the story
// failed once the retry cap is exhausted.
func (p *PendingStory) RecordFailure(err error, now time.Time) {
	p.RetryCount++
	p.LastError = err.Error()
	p.LastRetryAt = &now
	if p.RetryCount >= MaxSyncRetries {
		p.SyncFailed = true
	}
}

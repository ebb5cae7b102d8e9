// Package models defines the core data structures for Storycat.
package models

import "time"

// Story represents a story committed to the remote API and cached locally.
// The stories table is a cache, not a source of truth: it may be cleared
// and repopulated from the API at any time. Authored content lives in
// PendingStory until the remote system acknowledges it.
type Story struct {
	ID          string `gorm:"primaryKey;size:64" json:"id"`
	Name        string `gorm:"size:255;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	PhotoURL    string `gorm:"size:500" json:"photoUrl"`

	// Location is optional; stories without coordinates keep nil here.
	Lat *float64 `gorm:"index" json:"lat"`
	Lon *float64 `gorm:"index" json:"lon"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	// CachedAt tracks when this record was last written from the API.
	CachedAt time.Time `gorm:"autoUpdateTime" json:"cached_at"`
}

// TableName specifies the table name for GORM.
func (Story) TableName() string {
	return "stories"
}

// HasLocation returns true if the story carries coordinates.
func (s *Story) HasLocation() bool {
	return s.Lat != nil && s.Lon != nil
}

// StoreStats provides aggregate counts across all collections.
type StoreStats struct {
	Stories        int64     `json:"stories"`
	Favorites      int64     `json:"favorites"`
	PendingStories int64     `json:"pending_stories"`
	SyncQueue      int64     `json:"sync_queue"`
	CacheSizeBytes int64     `json:"cache_size_bytes"`
	LastUpdated    time.Time `json:"last_updated"`
}

package models

import (
	"encoding/json"
	"time"
)

// Favorite represents a story marked as a favorite. The story snapshot is
// denormalized into the record so favorites survive a cache refresh that
// drops the underlying story.
type Favorite struct {
	StoryID  string    `gorm:"primaryKey;size:64" json:"story_id"`
	Snapshot string    `gorm:"type:text" json:"snapshot"`
	AddedAt  time.Time `gorm:"index" json:"added_at"`
}

// TableName specifies the table name for GORM.
func (Favorite) TableName() string {
	return "favorites"
}

// SetSnapshot serializes the story into the snapshot column.
func (f *Favorite) SetSnapshot(story Story) error {
	data, err := json.Marshal(story)
	if err != nil {
		return err
	}
	f.Snapshot = string(data)
	return nil
}

// GetSnapshot returns the story captured when the favorite was added.
func (f *Favorite) GetSnapshot() (Story, error) {
	var story Story
	if f.Snapshot == "" {
		return story, nil
	}
	err := json.Unmarshal([]byte(f.Snapshot), &story)
	return story, err
}

package models

import "time"

// Session represents the authenticated user session. A single row with
// ID "default" holds the bearer token issued by the login endpoint.
// Note: the table name is "sessions" to avoid reserved-keyword conflicts.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    string    `gorm:"size:64" json:"user_id"`
	Name      string    `gorm:"size:255" json:"name"`
	Token     string    `gorm:"type:text" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Session) TableName() string {
	return "sessions"
}

// DefaultSessionID is the key of the single session row.
const DefaultSessionID = "default"

// IsAuthenticated returns true if the session carries a token.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}

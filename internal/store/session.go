package store

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/story-catalog/storycat/internal/models"
)

// GetSession returns the current auth session, or nil when logged out.
func (s *Store) GetSession() (*models.Session, error) {
	var session models.Session
	err := s.First(&session, "id = ?", models.DefaultSessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// PutSession stores the auth session issued by the login endpoint.
func (s *Store) PutSession(session *models.Session) error {
	session.ID = models.DefaultSessionID
	return s.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(session).Error
}

// DeleteSession clears the auth session (logout). Idempotent.
func (s *Store) DeleteSession() error {
	return s.Delete(&models.Session{}, "id = ?", models.DefaultSessionID).Error
}

package services

import (
	"errors"
	"time"

	"github.com/ptissem4/RepIq/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrNotSessionOwner = errors.New("session does not belong to this user")

// DefaultSessionStore implements SessionStore on GORM.
type DefaultSessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) SessionStore {
	return &DefaultSessionStore{db: db}
}

// SaveCompletedSession persists the session together with its transcript
// rows in one transaction.
func (s *DefaultSessionStore) SaveCompletedSession(session *models.CompletedSession) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		log.Info().
			Str("sessionID", session.ID.String()).
			Str("userID", session.UserID.String()).
			Str("scenarioID", session.ScenarioID).
			Msg("Completed session saved")
		return nil
	})
}

func (s *DefaultSessionStore) GetSessionByID(id uuid.UUID) (*models.CompletedSession, error) {
	var session models.CompletedSession
	result := s.db.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Preload("Scenario").Where("id = ?", id).First(&session)
	if result.Error != nil {
		return nil, result.Error
	}
	return &session, nil
}

func (s *DefaultSessionStore) GetSessionsByUserID(userID uuid.UUID) ([]models.CompletedSession, error) {
	var sessions []models.CompletedSession
	result := s.db.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Preload("Scenario").
		Where("user_id = ?", userID).
		Order("completed_at desc").
		Find(&sessions)
	if result.Error != nil {
		return nil, result.Error
	}
	return sessions, nil
}

func (s *DefaultSessionStore) GetAllSessions() ([]models.CompletedSession, error) {
	var sessions []models.CompletedSession
	result := s.db.Preload("Scenario").Order("completed_at desc").Find(&sessions)
	if result.Error != nil {
		return nil, result.Error
	}
	return sessions, nil
}

// RenameSession sets the owner-assigned title. Only the owner may rename.
func (s *DefaultSessionStore) RenameSession(id, ownerID uuid.UUID, title string) error {
	result := s.db.Model(&models.CompletedSession{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("custom_title", title)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotSessionOwner
	}
	return nil
}

func (s *DefaultSessionStore) DeleteSession(id, ownerID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var session models.CompletedSession
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotSessionOwner
			}
			return err
		}
		if err := tx.Where("session_id = ?", session.ID).Delete(&models.SessionMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&session).Error
	})
}

// ReviewSession records the manager comment. The report itself stays
// immutable; only the review fields change, and a later review replaces an
// earlier one.
func (s *DefaultSessionStore) ReviewSession(id, managerID uuid.UUID, comment string, reviewedAt time.Time) error {
	result := s.db.Model(&models.CompletedSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"manager_feedback":       comment,
			"reviewed_by_manager_id": managerID,
			"reviewed_at":            reviewedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

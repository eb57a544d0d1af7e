package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ptissem4/RepIq/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotCoPilotOwner = errors.New("co-pilot session does not belong to this user")

// CoPilotService records live-assist sessions: one suggestion per prospect
// utterance, each turn persisted as it happens.
type CoPilotService struct {
	db       *gorm.DB
	feedback FeedbackGenerator
}

func NewCoPilotService(db *gorm.DB, feedback FeedbackGenerator) *CoPilotService {
	return &CoPilotService{db: db, feedback: feedback}
}

func (cp *CoPilotService) StartCoPilotSession(userID uuid.UUID) (*models.CoPilotSession, error) {
	session := &models.CoPilotSession{
		ID:        uuid.New(),
		UserID:    userID,
		StartedAt: time.Now(),
	}
	if err := cp.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// Suggest generates the response for one prospect utterance and records the
// turn. Only the session owner may append turns. A failed generation records
// nothing.
func (cp *CoPilotService) Suggest(ctx context.Context, sessionID, ownerID uuid.UUID, prospectSays string) (*models.CoPilotTurn, error) {
	var session models.CoPilotSession
	if err := cp.db.Where("id = ? AND user_id = ?", sessionID, ownerID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCoPilotOwner
		}
		return nil, err
	}

	suggestion, err := cp.feedback.GenerateLiveResponse(ctx, prospectSays)
	if err != nil {
		return nil, fmt.Errorf("failed to generate suggestion: %w", err)
	}
	if suggestion == "" {
		return nil, errors.New("nothing to respond to")
	}

	turn := &models.CoPilotTurn{
		SessionID:       session.ID,
		ProspectSays:    prospectSays,
		CopilotSuggests: suggestion,
		Timestamp:       time.Now(),
	}
	if err := cp.db.Create(turn).Error; err != nil {
		return nil, err
	}
	return turn, nil
}

func (cp *CoPilotService) GetSessionsByUserID(userID uuid.UUID) ([]models.CoPilotSession, error) {
	var sessions []models.CoPilotSession
	result := cp.db.Preload("Turns", func(db *gorm.DB) *gorm.DB {
		return db.Order("timestamp asc")
	}).Where("user_id = ?", userID).Order("started_at desc").Find(&sessions)
	if result.Error != nil {
		return nil, result.Error
	}
	return sessions, nil
}

func (cp *CoPilotService) RenameSession(id, ownerID uuid.UUID, title string) error {
	result := cp.db.Model(&models.CoPilotSession{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("custom_title", title)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotCoPilotOwner
	}
	return nil
}

func (cp *CoPilotService) DeleteSession(id, ownerID uuid.UUID) error {
	return cp.db.Transaction(func(tx *gorm.DB) error {
		var session models.CoPilotSession
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotCoPilotOwner
			}
			return err
		}
		if err := tx.Where("session_id = ?", session.ID).Delete(&models.CoPilotTurn{}).Error; err != nil {
			return err
		}
		return tx.Delete(&session).Error
	})
}

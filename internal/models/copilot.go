package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CoPilotSession groups the live-assist turns recorded during one real call.
type CoPilotSession struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"type:uuid;index"`
	CustomTitle string
	StartedAt   time.Time

	Turns []CoPilotTurn `gorm:"foreignKey:SessionID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (s *CoPilotSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// CoPilotTurn pairs a prospect utterance with the suggested response.
type CoPilotTurn struct {
	gorm.Model
	SessionID       uuid.UUID `gorm:"type:uuid;index"`
	ProspectSays    string    `gorm:"type:text" json:"prospectSays"`
	CopilotSuggests string    `gorm:"type:text" json:"copilotSuggests"`
	Timestamp       time.Time `json:"timestamp"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageSender string

const (
	SenderUser MessageSender = "USER"
	SenderAI   MessageSender = "AI"
)

// ChatMessage is one turn of a role-play transcript.
type ChatMessage struct {
	Sender MessageSender `json:"sender"`
	Text   string        `json:"text"`
}

// CompletedSession binds a user, a scenario, the full transcript and its
// feedback report. Created once at session end; afterwards only the custom
// title and the manager review ever change.
type CompletedSession struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"type:uuid;index"`
	ScenarioID  string    `gorm:"index"`
	Scenario    Scenario  `gorm:"foreignKey:ScenarioID"`
	CustomTitle string
	CompletedAt time.Time

	Messages []SessionMessage `gorm:"foreignKey:SessionID"`

	// FeedbackJSON holds the serialized Feedback report.
	FeedbackJSON []byte `gorm:"type:jsonb"`

	ManagerFeedback     string
	ReviewedByManagerID *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt          *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (s *CompletedSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SessionMessage is a persisted transcript turn, ordered by Position.
type SessionMessage struct {
	gorm.Model
	SessionID uuid.UUID     `gorm:"type:uuid;index"`
	Position  int           `gorm:"index"`
	Sender    MessageSender `json:"sender"`
	Text      string        `gorm:"type:text" json:"text"`
}

func (m SessionMessage) ToChatMessage() ChatMessage {
	return ChatMessage{Sender: m.Sender, Text: m.Text}
}

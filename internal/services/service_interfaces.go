package services

import (
	"context"
	"time"

	"github.com/ptissem4/RepIq/internal/locale"
	"github.com/ptissem4/RepIq/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
)

// ContentGenerator is the slice of *genai.GenerativeModel the feedback and
// co-pilot paths use, extracted so tests can stand in for the model.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type ScenarioCatalog interface {
	ListScenarios() ([]models.Scenario, error)
	GetScenario(id string) (*models.Scenario, error)
	Localize(s models.Scenario, lang locale.Language) models.Scenario
	CreateScenario(s *models.Scenario) error
	UpdateScenario(s *models.Scenario) error
	DeleteScenario(id string) error
}

type FeedbackGenerator interface {
	GenerateFeedback(ctx context.Context, transcript []models.ChatMessage, lang locale.Language) (*models.Feedback, error)
	GenerateActionPlan(ctx context.Context, feedback *models.Feedback, scenarios []models.Scenario, lang locale.Language) ([]models.ActionPlanItem, error)
	GenerateLiveResponse(ctx context.Context, prospectTranscript string) (string, error)
}

type CreditGate interface {
	CanUseFeature(user *models.User, feature Feature) bool
	Consume(userID uuid.UUID) (*models.User, error)
}

type RolePlayManager interface {
	StartRolePlay(ctx context.Context, userID uuid.UUID, scenario models.Scenario, lang locale.Language) (string, error)
	StreamChatMessage(ctx context.Context, sessionID string, message string) (*genai.GenerateContentResponseIterator, error)
	RecordTurn(sessionID string, sender models.MessageSender, text string) error
	Transcript(sessionID string) ([]models.ChatMessage, error)
	UpdateSessionHeartbeat(sessionID string) error
	EndRolePlay(sessionID string) (*LiveSessionInfo, error)
	DiscardSession(sessionID string)
}

type SessionStore interface {
	SaveCompletedSession(session *models.CompletedSession) error
	GetSessionByID(id uuid.UUID) (*models.CompletedSession, error)
	GetSessionsByUserID(userID uuid.UUID) ([]models.CompletedSession, error)
	GetAllSessions() ([]models.CompletedSession, error)
	RenameSession(id, ownerID uuid.UUID, title string) error
	DeleteSession(id, ownerID uuid.UUID) error
	ReviewSession(id, managerID uuid.UUID, comment string, reviewedAt time.Time) error
}

type ProgressTracker interface {
	RecordCompletion(userID uuid.UUID, scenarioID string) ([]models.ProgramProgress, error)
	ProgressForUser(userID uuid.UUID) ([]models.ProgramProgress, error)
	ProgramsForUser(userID uuid.UUID) ([]models.CoachingProgram, error)
}

type StatsTracker interface {
	RecordSession(userID uuid.UUID, overallScore int, today time.Time) (*models.UserStats, error)
	GetStats(userID uuid.UUID) (*models.UserStats, error)
}

type CoPilotManager interface {
	StartCoPilotSession(userID uuid.UUID) (*models.CoPilotSession, error)
	Suggest(ctx context.Context, sessionID, ownerID uuid.UUID, prospectSays string) (*models.CoPilotTurn, error)
	GetSessionsByUserID(userID uuid.UUID) ([]models.CoPilotSession, error)
	RenameSession(id, ownerID uuid.UUID, title string) error
	DeleteSession(id, ownerID uuid.UUID) error
}

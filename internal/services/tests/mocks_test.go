package services_test

import (
	"context"
	"time"

	"github.com/ptissem4/RepIq/internal/locale"
	"github.com/ptissem4/RepIq/internal/models"
	"github.com/ptissem4/RepIq/internal/services"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, parts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

// textResponse builds the response shape the real client returns for a
// structured-output request.
func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []genai.Part{genai.Text(text)},
				},
			},
		},
	}
}

type MockCreditGate struct {
	mock.Mock
}

func (m *MockCreditGate) CanUseFeature(user *models.User, feature services.Feature) bool {
	args := m.Called(user, feature)
	return args.Bool(0)
}

func (m *MockCreditGate) Consume(userID uuid.UUID) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockRolePlayManager struct {
	mock.Mock
}

func (m *MockRolePlayManager) StartRolePlay(ctx context.Context, userID uuid.UUID, scenario models.Scenario, lang locale.Language) (string, error) {
	args := m.Called(ctx, userID, scenario, lang)
	return args.String(0), args.Error(1)
}

func (m *MockRolePlayManager) StreamChatMessage(ctx context.Context, sessionID string, message string) (*genai.GenerateContentResponseIterator, error) {
	args := m.Called(ctx, sessionID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponseIterator), args.Error(1)
}

func (m *MockRolePlayManager) RecordTurn(sessionID string, sender models.MessageSender, text string) error {
	args := m.Called(sessionID, sender, text)
	return args.Error(0)
}

func (m *MockRolePlayManager) Transcript(sessionID string) ([]models.ChatMessage, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

func (m *MockRolePlayManager) UpdateSessionHeartbeat(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

func (m *MockRolePlayManager) EndRolePlay(sessionID string) (*services.LiveSessionInfo, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LiveSessionInfo), args.Error(1)
}

func (m *MockRolePlayManager) DiscardSession(sessionID string) {
	m.Called(sessionID)
}

type MockFeedbackGenerator struct {
	mock.Mock
}

func (m *MockFeedbackGenerator) GenerateFeedback(ctx context.Context, transcript []models.ChatMessage, lang locale.Language) (*models.Feedback, error) {
	args := m.Called(ctx, transcript, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Feedback), args.Error(1)
}

func (m *MockFeedbackGenerator) GenerateActionPlan(ctx context.Context, feedback *models.Feedback, scenarios []models.Scenario, lang locale.Language) ([]models.ActionPlanItem, error) {
	args := m.Called(ctx, feedback, scenarios, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActionPlanItem), args.Error(1)
}

func (m *MockFeedbackGenerator) GenerateLiveResponse(ctx context.Context, prospectTranscript string) (string, error) {
	args := m.Called(ctx, prospectTranscript)
	return args.String(0), args.Error(1)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) SaveCompletedSession(session *models.CompletedSession) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockSessionStore) GetSessionByID(id uuid.UUID) (*models.CompletedSession, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompletedSession), args.Error(1)
}

func (m *MockSessionStore) GetSessionsByUserID(userID uuid.UUID) ([]models.CompletedSession, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CompletedSession), args.Error(1)
}

func (m *MockSessionStore) GetAllSessions() ([]models.CompletedSession, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CompletedSession), args.Error(1)
}

func (m *MockSessionStore) RenameSession(id, ownerID uuid.UUID, title string) error {
	args := m.Called(id, ownerID, title)
	return args.Error(0)
}

func (m *MockSessionStore) DeleteSession(id, ownerID uuid.UUID) error {
	args := m.Called(id, ownerID)
	return args.Error(0)
}

func (m *MockSessionStore) ReviewSession(id, managerID uuid.UUID, comment string, reviewedAt time.Time) error {
	args := m.Called(id, managerID, comment, reviewedAt)
	return args.Error(0)
}

type MockProgressTracker struct {
	mock.Mock
}

func (m *MockProgressTracker) RecordCompletion(userID uuid.UUID, scenarioID string) ([]models.ProgramProgress, error) {
	args := m.Called(userID, scenarioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProgramProgress), args.Error(1)
}

func (m *MockProgressTracker) ProgressForUser(userID uuid.UUID) ([]models.ProgramProgress, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProgramProgress), args.Error(1)
}

func (m *MockProgressTracker) ProgramsForUser(userID uuid.UUID) ([]models.CoachingProgram, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CoachingProgram), args.Error(1)
}

type MockStatsTracker struct {
	mock.Mock
}

func (m *MockStatsTracker) RecordSession(userID uuid.UUID, overallScore int, today time.Time) (*models.UserStats, error) {
	args := m.Called(userID, overallScore, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

func (m *MockStatsTracker) GetStats(userID uuid.UUID) (*models.UserStats, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

type MockScenarioCatalog struct {
	mock.Mock
}

func (m *MockScenarioCatalog) ListScenarios() ([]models.Scenario, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Scenario), args.Error(1)
}

func (m *MockScenarioCatalog) GetScenario(id string) (*models.Scenario, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Scenario), args.Error(1)
}

func (m *MockScenarioCatalog) Localize(s models.Scenario, lang locale.Language) models.Scenario {
	args := m.Called(s, lang)
	return args.Get(0).(models.Scenario)
}

func (m *MockScenarioCatalog) CreateScenario(s *models.Scenario) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockScenarioCatalog) UpdateScenario(s *models.Scenario) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockScenarioCatalog) DeleteScenario(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockCoPilotManager struct {
	mock.Mock
}

func (m *MockCoPilotManager) StartCoPilotSession(userID uuid.UUID) (*models.CoPilotSession, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CoPilotSession), args.Error(1)
}

func (m *MockCoPilotManager) Suggest(ctx context.Context, sessionID, ownerID uuid.UUID, prospectSays string) (*models.CoPilotTurn, error) {
	args := m.Called(ctx, sessionID, ownerID, prospectSays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CoPilotTurn), args.Error(1)
}

func (m *MockCoPilotManager) GetSessionsByUserID(userID uuid.UUID) ([]models.CoPilotSession, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CoPilotSession), args.Error(1)
}

func (m *MockCoPilotManager) RenameSession(id, ownerID uuid.UUID, title string) error {
	args := m.Called(id, ownerID, title)
	return args.Error(0)
}

func (m *MockCoPilotManager) DeleteSession(id, ownerID uuid.UUID) error {
	args := m.Called(id, ownerID)
	return args.Error(0)
}

package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ptissem4/RepIq/internal/locale"
	"github.com/ptissem4/RepIq/internal/models"
	"github.com/ptissem4/RepIq/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type trainingMocks struct {
	scenarios *MockScenarioCatalog
	gate      *MockCreditGate
	rolePlay  *MockRolePlayManager
	feedback  *MockFeedbackGenerator
	sessions  *MockSessionStore
	progress  *MockProgressTracker
	stats     *MockStatsTracker
	copilot   *MockCoPilotManager
}

func newTrainingService() (*services.TrainingService, *trainingMocks) {
	m := &trainingMocks{
		scenarios: new(MockScenarioCatalog),
		gate:      new(MockCreditGate),
		rolePlay:  new(MockRolePlayManager),
		feedback:  new(MockFeedbackGenerator),
		sessions:  new(MockSessionStore),
		progress:  new(MockProgressTracker),
		stats:     new(MockStatsTracker),
		copilot:   new(MockCoPilotManager),
	}
	svc := services.NewTrainingService(
		m.scenarios, m.gate, m.rolePlay, m.feedback,
		m.sessions, m.progress, m.stats, m.copilot,
	)
	return svc, m
}

func trialUser(used int) *models.User {
	return &models.User{
		ID:                      uuid.New(),
		SubscriptionTier:        models.TierTrial,
		CreditsUsed:             used,
		MonthlySimulationsLimit: intPtr(5),
		Locale:                  "en-US",
	}
}

func TestStartSimulation(t *testing.T) {
	ctx := context.Background()
	scenario := models.Scenario{ID: "re1", Title: "The Skeptical Homeowner", SystemInstruction: "You are Brenda."}

	t.Run("admitted user consumes one credit and gets a session", func(t *testing.T) {
		svc, m := newTrainingService()
		user := trialUser(4)

		m.gate.On("CanUseFeature", user, services.FeatureSimulation).Return(true).Once()
		m.scenarios.On("GetScenario", "re1").Return(&scenario, nil).Once()
		m.scenarios.On("Localize", scenario, locale.EnUS).Return(scenario).Once()
		m.gate.On("Consume", user.ID).Return(user, nil).Once()
		m.rolePlay.On("StartRolePlay", ctx, user.ID, scenario, locale.EnUS).Return("session-1", nil).Once()

		sessionID, started, err := svc.StartSimulation(ctx, user, "re1", locale.EnUS)

		assert.NoError(t, err)
		assert.Equal(t, "session-1", sessionID)
		assert.Equal(t, "re1", started.ID)
		m.gate.AssertExpectations(t)
		m.rolePlay.AssertExpectations(t)
	})

	t.Run("denied user gets the upgrade branch, nothing consumed", func(t *testing.T) {
		svc, m := newTrainingService()
		user := trialUser(5)

		m.gate.On("CanUseFeature", user, services.FeatureSimulation).Return(false).Once()

		_, _, err := svc.StartSimulation(ctx, user, "re1", locale.EnUS)

		assert.ErrorIs(t, err, services.ErrUpgradeRequired)
		m.gate.AssertNotCalled(t, "Consume", mock.Anything)
		m.rolePlay.AssertNotCalled(t, "StartRolePlay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown scenario fails before consuming", func(t *testing.T) {
		svc, m := newTrainingService()
		user := trialUser(0)

		m.gate.On("CanUseFeature", user, services.FeatureSimulation).Return(true).Once()
		m.scenarios.On("GetScenario", "nope").Return(nil, fmt.Errorf("record not found")).Once()

		_, _, err := svc.StartSimulation(ctx, user, "nope", locale.EnUS)

		assert.Error(t, err)
		m.gate.AssertNotCalled(t, "Consume", mock.Anything)
	})
}

func TestCompleteSession(t *testing.T) {
	ctx := context.Background()
	transcript := []models.ChatMessage{
		{Sender: models.SenderUser, Text: "Hi Brenda"},
		{Sender: models.SenderAI, Text: "Not interested"},
	}

	t.Run("full pipeline on success", func(t *testing.T) {
		svc, m := newTrainingService()
		user := trialUser(1)
		live := &services.LiveSessionInfo{
			ScenarioID: "re1",
			Locale:     locale.EnUS,
			Transcript: transcript,
			UserID:     user.ID,
			Ended:      true,
		}
		feedback := &models.Feedback{OverallScore: 82, Summary: "Decent."}
		newStats := &models.UserStats{TotalXP: 82, StreakCount: 2}

		m.rolePlay.On("EndRolePlay", "session-1").Return(live, nil).Once()
		m.feedback.On("GenerateFeedback", ctx, transcript, locale.EnUS).Return(feedback, nil).Once()
		m.sessions.On("SaveCompletedSession", mock.AnythingOfType("*models.CompletedSession")).Return(nil).Once()
		m.progress.On("RecordCompletion", user.ID, "re1").Return([]models.ProgramProgress{}, nil).Once()
		m.stats.On("RecordSession", user.ID, 82, mock.AnythingOfType("time.Time")).Return(newStats, nil).Once()
		m.rolePlay.On("DiscardSession", "session-1").Once()

		result, err := svc.CompleteSession(ctx, user, "session-1")

		assert.NoError(t, err)
		assert.Equal(t, feedback, result.Feedback)
		assert.Equal(t, newStats, result.Stats)
		assert.Equal(t, "re1", result.Session.ScenarioID)
		assert.Len(t, result.Session.Messages, 2)
		assert.Equal(t, 0, result.Session.Messages[0].Position)
		m.rolePlay.AssertExpectations(t)
		m.sessions.AssertExpectations(t)
		m.stats.AssertExpectations(t)
	})

	t.Run("feedback failure keeps the session for retry", func(t *testing.T) {
		svc, m := newTrainingService()
		user := trialUser(1)
		live := &services.LiveSessionInfo{
			ScenarioID: "re1",
			Locale:     locale.EnUS,
			Transcript: transcript,
			UserID:     user.ID,
			Ended:      true,
		}

		m.rolePlay.On("EndRolePlay", "session-1").Return(live, nil).Once()
		m.feedback.On("GenerateFeedback", ctx, transcript, locale.EnUS).
			Return(nil, fmt.Errorf("completion service unavailable")).Once()

		_, err := svc.CompleteSession(ctx, user, "session-1")

		assert.Error(t, err)
		m.sessions.AssertNotCalled(t, "SaveCompletedSession", mock.Anything)
		m.rolePlay.AssertNotCalled(t, "DiscardSession", mock.Anything)
	})

	t.Run("another user's session is invisible", func(t *testing.T) {
		svc, m := newTrainingService()
		user := trialUser(1)
		live := &services.LiveSessionInfo{
			ScenarioID: "re1",
			Locale:     locale.EnUS,
			Transcript: transcript,
			UserID:     uuid.New(),
			Ended:      true,
		}

		m.rolePlay.On("EndRolePlay", "session-1").Return(live, nil).Once()

		_, err := svc.CompleteSession(ctx, user, "session-1")

		assert.ErrorIs(t, err, services.ErrLiveSessionNotFound)
		m.feedback.AssertNotCalled(t, "GenerateFeedback", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestStartCoPilot(t *testing.T) {
	t.Run("basic tier is refused regardless of credits", func(t *testing.T) {
		svc, m := newTrainingService()
		user := &models.User{
			ID:                      uuid.New(),
			SubscriptionTier:        models.TierBasic,
			MonthlySimulationsLimit: intPtr(20),
		}

		m.gate.On("CanUseFeature", user, services.FeatureCopilot).Return(false).Once()

		_, err := svc.StartCoPilot(user)

		assert.ErrorIs(t, err, services.ErrCopilotNotInPlan)
		m.gate.AssertNotCalled(t, "Consume", mock.Anything)
	})

	t.Run("exhausted credits read as upgrade required", func(t *testing.T) {
		svc, m := newTrainingService()
		user := trialUser(5)

		_, err := svc.StartCoPilot(user)

		assert.ErrorIs(t, err, services.ErrUpgradeRequired)
		m.copilot.AssertNotCalled(t, "StartCoPilotSession", mock.Anything)
	})

	t.Run("admitted trial user consumes a credit", func(t *testing.T) {
		svc, m := newTrainingService()
		user := trialUser(0)
		session := &models.CoPilotSession{ID: uuid.New(), UserID: user.ID}

		m.gate.On("CanUseFeature", user, services.FeatureCopilot).Return(true).Once()
		m.gate.On("Consume", user.ID).Return(user, nil).Once()
		m.copilot.On("StartCoPilotSession", user.ID).Return(session, nil).Once()

		got, err := svc.StartCoPilot(user)

		assert.NoError(t, err)
		assert.Equal(t, session.ID, got.ID)
		m.gate.AssertExpectations(t)
		m.copilot.AssertExpectations(t)
	})
}

func TestActionPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("owner gets a plan built from stored feedback", func(t *testing.T) {
		svc, m := newTrainingService()
		user := trialUser(1)
		sessionID := uuid.New()
		stored := &models.CompletedSession{
			ID:           sessionID,
			UserID:       user.ID,
			FeedbackJSON: []byte(`{"overallScore": 70, "summary": "ok"}`),
		}
		catalog := []models.Scenario{{ID: "re1"}, {ID: "saas1"}}
		plan := []models.ActionPlanItem{
			{Suggestion: "Practice closing", RelevantScenarioID: "saas1"},
		}

		m.sessions.On("GetSessionByID", sessionID).Return(stored, nil).Once()
		m.scenarios.On("ListScenarios").Return(catalog, nil).Once()
		m.feedback.On("GenerateActionPlan", ctx, mock.AnythingOfType("*models.Feedback"), catalog, locale.EnUS).
			Return(plan, nil).Once()

		got, err := svc.ActionPlan(ctx, user, sessionID, locale.EnUS)

		assert.NoError(t, err)
		assert.Equal(t, plan, got)
	})

	t.Run("non-owner is refused", func(t *testing.T) {
		svc, m := newTrainingService()
		user := trialUser(1)
		sessionID := uuid.New()
		stored := &models.CompletedSession{
			ID:           sessionID,
			UserID:       uuid.New(),
			FeedbackJSON: []byte(`{}`),
		}

		m.sessions.On("GetSessionByID", sessionID).Return(stored, nil).Once()

		_, err := svc.ActionPlan(ctx, user, sessionID, locale.EnUS)

		assert.ErrorIs(t, err, services.ErrNotSessionOwner)
		m.feedback.AssertNotCalled(t, "GenerateActionPlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

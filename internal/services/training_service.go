package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ptissem4/RepIq/internal/locale"
	"github.com/ptissem4/RepIq/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Entitlement denials. Not failures: handlers route them to the upgrade
// call-to-action instead of the error responder.
var (
	ErrUpgradeRequired  = errors.New("monthly allowance exhausted")
	ErrCopilotNotInPlan = errors.New("co-pilot is not part of the basic plan")
)

// CompleteSessionResult is everything a finished session produces at once:
// the persisted record, its report, the refreshed stats and any program
// progress the session advanced.
type CompleteSessionResult struct {
	Session         *models.CompletedSession `json:"session"`
	Feedback        *models.Feedback         `json:"feedback"`
	Stats           *models.UserStats        `json:"stats"`
	UpdatedPrograms []models.ProgramProgress `json:"updatedPrograms,omitempty"`
}

// TrainingService drives the session pipeline: credit gate, live role-play,
// feedback generation, then history, progress and stats in one pass.
type TrainingService struct {
	scenarios ScenarioCatalog
	gate      CreditGate
	rolePlay  RolePlayManager
	feedback  FeedbackGenerator
	sessions  SessionStore
	progress  ProgressTracker
	stats     StatsTracker
	copilot   CoPilotManager
}

func NewTrainingService(
	scenarios ScenarioCatalog,
	gate CreditGate,
	rolePlay RolePlayManager,
	feedback FeedbackGenerator,
	sessions SessionStore,
	progress ProgressTracker,
	stats StatsTracker,
	copilot CoPilotManager,
) *TrainingService {
	return &TrainingService{
		scenarios: scenarios,
		gate:      gate,
		rolePlay:  rolePlay,
		feedback:  feedback,
		sessions:  sessions,
		progress:  progress,
		stats:     stats,
		copilot:   copilot,
	}
}

// StartSimulation admits the user through the credit gate, charges the
// credit and opens the live role-play. The denial branch is a normal
// outcome, not an error path the responder should log.
func (ts *TrainingService) StartSimulation(ctx context.Context, user *models.User, scenarioID string, lang locale.Language) (string, *models.Scenario, error) {
	if !ts.gate.CanUseFeature(user, FeatureSimulation) {
		return "", nil, ErrUpgradeRequired
	}

	scenario, err := ts.scenarios.GetScenario(scenarioID)
	if err != nil {
		return "", nil, fmt.Errorf("unknown scenario %q: %w", scenarioID, err)
	}
	localized := ts.scenarios.Localize(*scenario, lang)

	if _, err := ts.gate.Consume(user.ID); err != nil {
		return "", nil, fmt.Errorf("failed to consume credit: %w", err)
	}

	sessionID, err := ts.rolePlay.StartRolePlay(ctx, user.ID, localized, lang)
	if err != nil {
		return "", nil, fmt.Errorf("failed to start role-play: %w", err)
	}
	return sessionID, &localized, nil
}

func (ts *TrainingService) SendMessage(ctx context.Context, sessionID, message string) (*genai.GenerateContentResponseIterator, error) {
	if err := ts.rolePlay.RecordTurn(sessionID, models.SenderUser, message); err != nil {
		return nil, err
	}
	return ts.rolePlay.StreamChatMessage(ctx, sessionID, message)
}

// RecordAIResponse appends the assembled persona reply once the stream is
// fully consumed.
func (ts *TrainingService) RecordAIResponse(sessionID, response string) error {
	return ts.rolePlay.RecordTurn(sessionID, models.SenderAI, response)
}

func (ts *TrainingService) UpdateSessionHeartbeat(sessionID string) error {
	return ts.rolePlay.UpdateSessionHeartbeat(sessionID)
}

// CompleteSession closes the role-play and runs the feedback pipeline. A
// feedback failure keeps the transcript so the user can retry; calling this
// again on an ended session is the retry.
func (ts *TrainingService) CompleteSession(ctx context.Context, user *models.User, sessionID string) (*CompleteSessionResult, error) {
	live, err := ts.rolePlay.EndRolePlay(sessionID)
	if err != nil {
		return nil, err
	}
	if live.UserID != user.ID {
		return nil, ErrLiveSessionNotFound
	}

	feedback, err := ts.feedback.GenerateFeedback(ctx, live.Transcript, live.Locale)
	if err != nil {
		return nil, err
	}

	feedbackJSON, err := json.Marshal(feedback)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	completed := &models.CompletedSession{
		ID:           uuid.New(),
		UserID:       user.ID,
		ScenarioID:   live.ScenarioID,
		CompletedAt:  now,
		FeedbackJSON: feedbackJSON,
	}
	for i, msg := range live.Transcript {
		completed.Messages = append(completed.Messages, models.SessionMessage{
			Position: i,
			Sender:   msg.Sender,
			Text:     msg.Text,
		})
	}

	if err := ts.sessions.SaveCompletedSession(completed); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	updated, err := ts.progress.RecordCompletion(user.ID, live.ScenarioID)
	if err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Msg("Failed to record program progress")
	}

	stats, err := ts.stats.RecordSession(user.ID, feedback.OverallScore, now)
	if err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Msg("Failed to record stats")
	}

	ts.rolePlay.DiscardSession(sessionID)

	return &CompleteSessionResult{
		Session:         completed,
		Feedback:        feedback,
		Stats:           stats,
		UpdatedPrograms: updated,
	}, nil
}

// AbandonSession drops a live role-play without feedback. No session is
// recorded; the consumed credit is not refunded.
func (ts *TrainingService) AbandonSession(sessionID string) {
	ts.rolePlay.DiscardSession(sessionID)
}

// StartCoPilot admits the user through the gate with the co-pilot rule and
// opens a live-assist session.
func (ts *TrainingService) StartCoPilot(user *models.User) (*models.CoPilotSession, error) {
	if !HasCredits(user) {
		return nil, ErrUpgradeRequired
	}
	if !ts.gate.CanUseFeature(user, FeatureCopilot) {
		return nil, ErrCopilotNotInPlan
	}

	if _, err := ts.gate.Consume(user.ID); err != nil {
		return nil, fmt.Errorf("failed to consume credit: %w", err)
	}

	return ts.copilot.StartCoPilotSession(user.ID)
}

// ActionPlan derives the follow-up plan for an already-completed session.
func (ts *TrainingService) ActionPlan(ctx context.Context, user *models.User, sessionID uuid.UUID, lang locale.Language) ([]models.ActionPlanItem, error) {
	session, err := ts.sessions.GetSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != user.ID {
		return nil, ErrNotSessionOwner
	}

	var feedback models.Feedback
	if err := json.Unmarshal(session.FeedbackJSON, &feedback); err != nil {
		return nil, fmt.Errorf("session has no readable feedback: %w", err)
	}

	scenarios, err := ts.scenarios.ListScenarios()
	if err != nil {
		return nil, err
	}
	return ts.feedback.GenerateActionPlan(ctx, &feedback, scenarios, lang)
}

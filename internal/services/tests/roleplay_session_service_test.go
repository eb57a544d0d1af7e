package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ptissem4/RepIq/internal/locale"
	"github.com/ptissem4/RepIq/internal/models"
	"github.com/ptissem4/RepIq/internal/services"
	"github.com/ptissem4/RepIq/internal/utils/broker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newLiveSessionService() *services.RolePlaySessionService {
	return services.NewRolePlaySessionService(nil, broker.NewBroker(), "test-model", 1*time.Minute, 10*time.Minute)
}

// seedSession registers a live session directly in the registry, bypassing
// the genai chat creation.
func seedSession(svc *services.RolePlaySessionService, userID uuid.UUID) string {
	sessionID := uuid.New().String()
	now := time.Now()
	svc.Sessions().Store(sessionID, services.LiveSessionInfo{
		ScenarioID:    "re1",
		Locale:        locale.EnUS,
		UserID:        userID,
		StartedAt:     now,
		LastAccessed:  now,
		LastHeartbeat: now,
	})
	return sessionID
}

func TestRecordTurnAndTranscript(t *testing.T) {
	svc := newLiveSessionService()
	sessionID := seedSession(svc, uuid.New())

	assert.NoError(t, svc.RecordTurn(sessionID, models.SenderUser, "Hello"))
	assert.NoError(t, svc.RecordTurn(sessionID, models.SenderAI, "Who is this?"))

	transcript, err := svc.Transcript(sessionID)
	assert.NoError(t, err)
	assert.Len(t, transcript, 2)
	assert.Equal(t, models.SenderUser, transcript[0].Sender)
	assert.Equal(t, "Who is this?", transcript[1].Text)

	// The returned transcript is a copy; mutating it must not leak back.
	transcript[0].Text = "tampered"
	fresh, err := svc.Transcript(sessionID)
	assert.NoError(t, err)
	assert.Equal(t, "Hello", fresh[0].Text)
}

func TestRecordTurnUnknownSession(t *testing.T) {
	svc := newLiveSessionService()
	err := svc.RecordTurn("no-such-session", models.SenderUser, "Hello")
	assert.ErrorIs(t, err, services.ErrLiveSessionNotFound)
}

func TestUpdateSessionHeartbeat(t *testing.T) {
	svc := newLiveSessionService()
	sessionID := seedSession(svc, uuid.New())

	assert.NoError(t, svc.UpdateSessionHeartbeat(sessionID))
	assert.ErrorIs(t, svc.UpdateSessionHeartbeat("missing"), services.ErrLiveSessionNotFound)
}

func TestEndRolePlayKeepsTranscriptForRetry(t *testing.T) {
	svc := newLiveSessionService()
	sessionID := seedSession(svc, uuid.New())
	assert.NoError(t, svc.RecordTurn(sessionID, models.SenderUser, "Hi"))

	ended, err := svc.EndRolePlay(sessionID)
	assert.NoError(t, err)
	assert.True(t, ended.Ended)
	assert.Len(t, ended.Transcript, 1)

	// The registry entry survives the end call, so the feedback pipeline
	// can re-read the transcript on retry.
	again, err := svc.EndRolePlay(sessionID)
	assert.NoError(t, err)
	assert.Len(t, again.Transcript, 1)

	// Turns on an ended session are refused.
	_, err = svc.StreamChatMessage(context.Background(), sessionID, "one more thing")
	assert.Error(t, err)
}

func TestDiscardSession(t *testing.T) {
	svc := newLiveSessionService()
	sessionID := seedSession(svc, uuid.New())

	svc.DiscardSession(sessionID)

	_, err := svc.Transcript(sessionID)
	assert.ErrorIs(t, err, services.ErrLiveSessionNotFound)
}

func TestCleanupExpiredSessions(t *testing.T) {
	b := broker.NewBroker()
	svc := services.NewRolePlaySessionService(nil, b, "test-model", 1*time.Minute, 10*time.Minute)
	userID := uuid.New()

	expiredChan := b.Subscribe(broker.TopicSessionExpired + userID.String())

	staleID := uuid.New().String()
	stale := time.Now().Add(-1 * time.Hour)
	svc.Sessions().Store(staleID, services.LiveSessionInfo{
		UserID:        userID,
		StartedAt:     stale,
		LastAccessed:  stale,
		LastHeartbeat: stale,
	})
	freshID := seedSession(svc, userID)

	svc.CleanupExpiredSessions()

	_, err := svc.Transcript(staleID)
	assert.ErrorIs(t, err, services.ErrLiveSessionNotFound)
	_, err = svc.Transcript(freshID)
	assert.NoError(t, err)

	select {
	case evt := <-expiredChan:
		assert.Equal(t, "session_expired", evt.Type)
		assert.Equal(t, staleID, evt.Payload)
	default:
		t.Fatal("expected a session_expired event")
	}
}

package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ptissem4/RepIq/internal/locale"
	"github.com/ptissem4/RepIq/internal/models"
	"github.com/ptissem4/RepIq/internal/utils/broker"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// GenAIClient is the part of *genai.Client the role-play service uses.
type GenAIClient interface {
	GenerativeModel(name string) *genai.GenerativeModel
}

// LiveSessionInfo is one in-flight role-play: the persona chat plus the
// transcript recorded so far. The transcript is append-only for the life of
// the session.
type LiveSessionInfo struct {
	Chat             *genai.ChatSession
	ScenarioID       string
	Locale           locale.Language
	Transcript       []models.ChatMessage
	UserID           uuid.UUID
	StartedAt        time.Time
	LastAccessed     time.Time
	LastHeartbeat    time.Time
	HeartbeatsMissed int
	// Ended is set when the role-play finished but feedback has not been
	// generated yet; the transcript stays available for retries.
	Ended bool
}

var ErrLiveSessionNotFound = errors.New("session not found")

type TerminationReason int

const (
	UserInitiated TerminationReason = iota
	SessionTimeout
	HeartbeatMissed
)

type RolePlaySessionService struct {
	sessions         sync.Map
	sessionsMutex    sync.RWMutex
	genAIClient      GenAIClient
	broker           *broker.Broker
	modelName        string
	heartbeatTimeout time.Duration
	sessionTimeout   time.Duration
}

func NewRolePlaySessionService(
	genAIClient GenAIClient,
	b *broker.Broker,
	modelName string,
	heartbeatTimeout time.Duration,
	sessionTimeout time.Duration,
) *RolePlaySessionService {
	rps := &RolePlaySessionService{
		genAIClient:      genAIClient,
		broker:           b,
		modelName:        modelName,
		heartbeatTimeout: heartbeatTimeout,
		sessionTimeout:   sessionTimeout,
	}
	go rps.periodicCleanup()
	return rps
}

// StartRolePlay creates a persona chat for the (already localized) scenario
// and registers the live session. The caller has passed the credit gate
// before this point.
func (rps *RolePlaySessionService) StartRolePlay(ctx context.Context, userID uuid.UUID, scenario models.Scenario, lang locale.Language) (string, error) {
	model := rps.genAIClient.GenerativeModel(rps.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(scenario.SystemInstruction)},
	}
	session := model.StartChat()

	sessionID := uuid.New().String()
	now := time.Now()

	rps.sessionsMutex.Lock()
	defer rps.sessionsMutex.Unlock()

	rps.sessions.Store(sessionID, LiveSessionInfo{
		Chat:          session,
		ScenarioID:    scenario.ID,
		Locale:        lang,
		UserID:        userID,
		StartedAt:     now,
		LastAccessed:  now,
		LastHeartbeat: now,
	})

	return sessionID, nil
}

// StreamChatMessage forwards one user turn to the persona and returns the
// streaming reply. The turn itself is recorded by the caller once the full
// exchange is known.
func (rps *RolePlaySessionService) StreamChatMessage(ctx context.Context, sessionID string, message string) (*genai.GenerateContentResponseIterator, error) {
	sessionInfo, exists := rps.getAndUpdateSession(sessionID)
	if !exists {
		return nil, ErrLiveSessionNotFound
	}
	if sessionInfo.Ended {
		return nil, errors.New("session already ended")
	}

	return sessionInfo.Chat.SendMessageStream(ctx, genai.Text(message)), nil
}

// RecordTurn appends one turn to the session transcript.
func (rps *RolePlaySessionService) RecordTurn(sessionID string, sender models.MessageSender, text string) error {
	rps.sessionsMutex.Lock()
	defer rps.sessionsMutex.Unlock()

	sessionInterface, ok := rps.sessions.Load(sessionID)
	if !ok {
		return ErrLiveSessionNotFound
	}

	sessionInfo := sessionInterface.(LiveSessionInfo)
	sessionInfo.Transcript = append(sessionInfo.Transcript, models.ChatMessage{Sender: sender, Text: text})
	sessionInfo.LastAccessed = time.Now()
	rps.sessions.Store(sessionID, sessionInfo)
	return nil
}

func (rps *RolePlaySessionService) Transcript(sessionID string) ([]models.ChatMessage, error) {
	rps.sessionsMutex.RLock()
	defer rps.sessionsMutex.RUnlock()

	sessionInterface, ok := rps.sessions.Load(sessionID)
	if !ok {
		return nil, ErrLiveSessionNotFound
	}

	sessionInfo := sessionInterface.(LiveSessionInfo)
	transcript := make([]models.ChatMessage, len(sessionInfo.Transcript))
	copy(transcript, sessionInfo.Transcript)
	return transcript, nil
}

func (rps *RolePlaySessionService) UpdateSessionHeartbeat(sessionID string) error {
	rps.sessionsMutex.Lock()
	defer rps.sessionsMutex.Unlock()

	sessionInterface, ok := rps.sessions.Load(sessionID)
	if !ok {
		return ErrLiveSessionNotFound
	}

	sessionInfo := sessionInterface.(LiveSessionInfo)
	now := time.Now()
	sessionInfo.LastHeartbeat = now
	sessionInfo.HeartbeatsMissed = 0
	sessionInfo.LastAccessed = now
	rps.sessions.Store(sessionID, sessionInfo)
	return nil
}

// EndRolePlay closes the interactive phase but keeps the transcript in the
// registry so a failed feedback generation can be retried. DiscardSession
// removes it once the session is persisted or abandoned.
func (rps *RolePlaySessionService) EndRolePlay(sessionID string) (*LiveSessionInfo, error) {
	rps.sessionsMutex.Lock()
	defer rps.sessionsMutex.Unlock()

	sessionInterface, ok := rps.sessions.Load(sessionID)
	if !ok {
		return nil, ErrLiveSessionNotFound
	}

	sessionInfo := sessionInterface.(LiveSessionInfo)
	sessionInfo.Ended = true
	sessionInfo.LastAccessed = time.Now()
	rps.sessions.Store(sessionID, sessionInfo)

	ended := sessionInfo
	return &ended, nil
}

func (rps *RolePlaySessionService) DiscardSession(sessionID string) {
	rps.sessionsMutex.Lock()
	defer rps.sessionsMutex.Unlock()
	rps.sessions.Delete(sessionID)
}

func (rps *RolePlaySessionService) getAndUpdateSession(sessionID string) (LiveSessionInfo, bool) {
	rps.sessionsMutex.Lock()
	defer rps.sessionsMutex.Unlock()

	sessionInterface, ok := rps.sessions.Load(sessionID)
	if !ok {
		return LiveSessionInfo{}, false
	}

	sessionInfo := sessionInterface.(LiveSessionInfo)
	sessionInfo.LastAccessed = time.Now()
	rps.sessions.Store(sessionID, sessionInfo)
	return sessionInfo, true
}

func (rps *RolePlaySessionService) periodicCleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	for range ticker.C {
		rps.CleanupExpiredSessions()
	}
}

func (rps *RolePlaySessionService) CleanupExpiredSessions() {
	now := time.Now()
	rps.sessions.Range(func(key, value interface{}) bool {
		sessionID := key.(string)
		sessionInfo := value.(LiveSessionInfo)

		var reason TerminationReason
		var shouldTerminate bool

		if now.Sub(sessionInfo.LastAccessed) > rps.sessionTimeout {
			reason = SessionTimeout
			shouldTerminate = true
		} else if !sessionInfo.Ended && now.Sub(sessionInfo.LastHeartbeat) > rps.heartbeatTimeout {
			sessionInfo.HeartbeatsMissed++
			if sessionInfo.HeartbeatsMissed >= 3 {
				reason = HeartbeatMissed
				shouldTerminate = true
			} else {
				rps.sessions.Store(sessionID, sessionInfo)
			}
		}

		if shouldTerminate {
			rps.sessions.Delete(sessionID)
			log.Info().
				Str("sessionID", sessionID).
				Int("reason", int(reason)).
				Msg("Live session expired")
			rps.broker.Publish(broker.TopicSessionExpired+sessionInfo.UserID.String(), broker.Event{
				Type:    "session_expired",
				Payload: sessionID,
			})
		}

		return true
	})
}

func (rps *RolePlaySessionService) Sessions() *sync.Map {
	return &rps.sessions
}

package wsocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ptissem4/RepIq/internal/models"
	"github.com/ptissem4/RepIq/internal/services"
	"github.com/ptissem4/RepIq/internal/utils/broker"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Handler owns the per-user notification socket. The client receives credit
// updates and session-expiry pushes and sends heartbeats for its live
// role-play; the conversational turns themselves travel over the SSE routes.
type Handler struct {
	training *services.TrainingService
	upgrader websocket.Upgrader
}

type Message struct {
	Type      string          `json:"type"`
	Content   json.RawMessage `json:"content,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
}

func NewHandler(training *services.TrainingService, upgrader websocket.Upgrader) *Handler {
	return &Handler{
		training: training,
		upgrader: upgrader,
	}
}

// socket serializes writes: the broker-push goroutine and the read loop both
// reply on the same connection, and gorilla/websocket allows one writer at a
// time.
type socket struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *socket) writeJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return s.conn.WriteJSON(v)
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request, user *models.User, messageBroker *broker.Broker) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}
	defer conn.Close()

	sock := &socket{conn: conn}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	userID := user.ID.String()
	creditChan := messageBroker.Subscribe(broker.TopicCreditUpdate + userID)
	defer messageBroker.Unsubscribe(broker.TopicCreditUpdate+userID, creditChan)
	expiredChan := messageBroker.Subscribe(broker.TopicSessionExpired + userID)
	defer messageBroker.Unsubscribe(broker.TopicSessionExpired+userID, expiredChan)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-creditChan:
				if !ok {
					return
				}
				if err := sock.writeJSON(evt); err != nil {
					log.Error().Err(err).Msg("Failed to push credit update")
					return
				}
			case evt, ok := <-expiredChan:
				if !ok {
					return
				}
				if err := sock.writeJSON(evt); err != nil {
					log.Error().Err(err).Msg("Failed to push session expiry")
					return
				}
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Warn().Err(err).Msg("Unreadable websocket message")
			continue
		}

		switch msg.Type {
		case "heartbeat":
			if msg.SessionID == "" {
				continue
			}
			if err := h.training.UpdateSessionHeartbeat(msg.SessionID); err != nil {
				sock.writeJSON(broker.Event{
					Type:    "error",
					Payload: "Unknown session",
				})
			}
		case "ping":
			sock.writeJSON(Message{Type: "pong"})
		default:
			log.Warn().Str("type", msg.Type).Msg("Unknown websocket message type")
		}
	}
}

package broker

import (
	"sync"
)

// Topics published by the services and consumed by the websocket layer.
const (
	TopicCreditUpdate   = "credit_update_"   // + user ID
	TopicSessionExpired = "session_expired_" // + user ID
)

// Event is a server-push notification for one user.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Broker struct {
	subscribers map[string][]chan Event
	mu          sync.RWMutex
}

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[string][]chan Event),
	}
}

func (b *Broker) Subscribe(topic string) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, 4)
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	return ch
}

func (b *Broker) Unsubscribe(topic string, ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if chans, ok := b.subscribers[topic]; ok {
		for i, c := range chans {
			if c == ch {
				b.subscribers[topic] = append(chans[:i], chans[i+1:]...)
				close(c)
				break
			}
		}
	}
}

// Publish delivers the event to every subscriber of the topic. A subscriber
// whose buffer is full misses the event rather than blocking the publisher.
func (b *Broker) Publish(topic string, evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- evt:
		default:
		}
	}
}

package chat

import (
	"sync"

	"github.com/google/uuid"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/chat"
)

// EventType classifies session events.
type EventType string

const (
	EventTranscript EventType = "transcript"
	EventStatus     EventType = "status"
	EventFocusChat  EventType = "focus_chat"
)

// Event is published to subscribers after every observable session change.
type Event struct {
	Type     EventType      `json:"type"`
	Messages []chat.Message `json:"messages,omitempty"`
	Loading  bool           `json:"loading"`
	Prompt   string         `json:"prompt,omitempty"`
}

// Hub fans session events out to live subscribers (SSE and WebSocket clients).
type Hub struct {
	mu     sync.Mutex
	subs   map[string]chan Event
	buffer int
}

// NewHub creates a hub whose subscribers buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{subs: make(map[string]chan Event), buffer: buffer}
}

// Subscribe registers a subscriber. The returned func unsubscribes and closes the channel.
func (h *Hub) Subscribe() (string, <-chan Event, func()) {
	id := uuid.NewString()
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return id, ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers ev to every subscriber without blocking. A full subscriber
// loses its oldest pending event.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- ev:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

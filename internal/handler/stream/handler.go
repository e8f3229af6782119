package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/render"
	chatService "github.com/zhouzirui/adeslas-assistant/backend/internal/service/chat"
	"github.com/zhouzirui/adeslas-assistant/backend/pkg/utils"
)

const heartbeatInterval = 15 * time.Second

// Handler pushes session events to SSE and WebSocket clients.
type Handler struct {
	coordinator *chatService.Coordinator
	hub         *chatService.Hub
	html        *render.HTML
	logger      *zap.Logger
}

// New creates a new stream handler
func New(coordinator *chatService.Coordinator, hub *chatService.Hub, html *render.HTML, logger *zap.Logger) *Handler {
	return &Handler{
		coordinator: coordinator,
		hub:         hub,
		html:        html,
		logger:      logger.Named("stream"),
	}
}

// RegisterRoutes registers the event feed endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/events", h.handleEvents)
	r.Get("/ws", h.handleWebSocket)
}

// EventPayload is what clients receive for each session event.
type EventPayload struct {
	Type     chatService.EventType    `json:"type"`
	Messages []render.RenderedMessage `json:"messages,omitempty"`
	Loading  bool                     `json:"loading"`
	CanClear bool                     `json:"canClear"`
	Prompt   string                   `json:"prompt,omitempty"`
}

func (h *Handler) payload(ev chatService.Event) EventPayload {
	t := h.coordinator.Transcript()
	out := EventPayload{
		Type:     ev.Type,
		Loading:  t.Loading,
		CanClear: t.CanClear,
		Prompt:   ev.Prompt,
	}
	switch ev.Type {
	case chatService.EventTranscript:
		out.Messages = h.html.Transcript(ev.Messages)
	case chatService.EventStatus:
		out.Loading = ev.Loading
	}
	return out
}

func (h *Handler) initialPayload() EventPayload {
	t := h.coordinator.Transcript()
	return EventPayload{
		Type:     chatService.EventTranscript,
		Messages: h.html.Transcript(t.Messages),
		Loading:  t.Loading,
		CanClear: t.CanClear,
	}
}

// handleEvents streams session events as Server-Sent Events
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	id, events, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	logger := h.logger.With(zap.String("subscriber", id))
	logger.Info("sse stream opened")
	defer logger.Info("sse stream closed")

	initial := h.initialPayload()
	if err := utils.SendSSEEvent(w, flusher, string(initial.Type), initial); err != nil {
		return
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			p := h.payload(ev)
			if err := utils.SendSSEEvent(w, flusher, string(p.Type), p); err != nil {
				logger.Debug("sse write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "heartbeat"); err != nil {
				return
			}
		}
	}
}

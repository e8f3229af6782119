package stream

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	chatService "github.com/zhouzirui/adeslas-assistant/backend/internal/service/chat"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// wsConn serializes writes; gorilla connections allow one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// handleWebSocket 处理WebSocket连接：推送会话事件，并接受 submit / clear 指令
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer raw.Close()
	conn := &wsConn{conn: raw}

	id, events, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()
	logger := h.logger.With(zap.String("subscriber", id))
	logger.Info("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = raw.SetReadDeadline(time.Now().Add(pongWait))
	raw.SetPongHandler(func(string) error {
		return raw.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err := conn.writeJSON(h.initialPayload()); err != nil {
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		h.pingLoop(ctx, conn)
	}()
	go func() {
		defer wg.Done()
		// Closing the socket unblocks readLoop when the writer gives up first.
		defer raw.Close()
		defer cancel()
		h.writeLoop(ctx, conn, events, logger)
	}()

	h.readLoop(ctx, raw, conn, logger)
	cancel()
	wg.Wait()
	logger.Info("websocket disconnected")
}

func (h *Handler) readLoop(ctx context.Context, raw *websocket.Conn, conn *wsConn, logger *zap.Logger) {
	for {
		var msg inboundMessage
		if err := raw.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		_ = raw.SetReadDeadline(time.Now().Add(pongWait))

		if errMsg := h.handleMessage(ctx, msg); errMsg != "" {
			if err := conn.writeJSON(errorMessage{Type: "error", Message: errMsg}); err != nil {
				return
			}
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg inboundMessage) string {
	switch msg.Type {
	case "submit":
		return errorText(h.coordinator.Submit(ctx, msg.Text))
	case "clear":
		return errorText(h.coordinator.Clear(ctx))
	default:
		return "unsupported message type: " + msg.Type
	}
}

func errorText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, chatService.ErrEmptyPrompt):
		return "text is required"
	case errors.Is(err, chatService.ErrInFlight):
		return "a response is already in progress"
	case errors.Is(err, chatService.ErrNothingToClear):
		return "nothing to clear"
	default:
		return err.Error()
	}
}

func (h *Handler) writeLoop(ctx context.Context, conn *wsConn, events <-chan chatService.Event, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.writeJSON(h.payload(ev)); err != nil {
				logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}

// pingLoop 定期发送ping消息
func (h *Handler) pingLoop(ctx context.Context, conn *wsConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}

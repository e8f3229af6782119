package chat

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/catalog"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/render"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/bridge"
	chatService "github.com/zhouzirui/adeslas-assistant/backend/internal/service/chat"
	"github.com/zhouzirui/adeslas-assistant/backend/pkg/utils"
)

// Handler 对话服务的HTTP处理器
type Handler struct {
	coordinator *chatService.Coordinator
	hub         *chatService.Hub
	bridge      *bridge.Bridge
	products    catalog.Store
	html        *render.HTML
	logger      *zap.Logger
}

// New 创建对话处理器
func New(coordinator *chatService.Coordinator, hub *chatService.Hub, br *bridge.Bridge, products catalog.Store, html *render.HTML, logger *zap.Logger) *Handler {
	return &Handler{
		coordinator: coordinator,
		hub:         hub,
		bridge:      br,
		products:    products,
		html:        html,
		logger:      logger.Named("chat_handler"),
	}
}

// RegisterRoutes 注册对话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/transcript", h.handleGetTranscript)
	r.Delete("/transcript", h.handleClearTranscript)
	r.Post("/messages", h.handleSubmit)
	r.Post("/products/{productID}/ask", h.handleAskAboutProduct)
}

// TranscriptView 是对话记录的HTTP表示
type TranscriptView struct {
	Messages []render.RenderedMessage `json:"messages"`
	Loading  bool                     `json:"loading"`
	CanClear bool                     `json:"canClear"`
}

// handleGetTranscript 返回对话记录及其渲染结果
func (h *Handler) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	t := h.coordinator.Transcript()
	utils.RespondJSON(w, http.StatusOK, TranscriptView{
		Messages: h.html.Transcript(t.Messages),
		Loading:  t.Loading,
		CanClear: t.CanClear,
	})
}

// handleSubmit 提交一条用户消息，回答通过事件流推送
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.coordinator.Submit(r.Context(), payload.Text)
	switch {
	case errors.Is(err, chatService.ErrEmptyPrompt):
		utils.RespondError(w, http.StatusBadRequest, "text is required")
	case errors.Is(err, chatService.ErrInFlight):
		utils.RespondError(w, http.StatusConflict, "a response is already in progress")
	case err != nil:
		h.logger.Error("submit failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "submit failed")
	default:
		utils.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "streaming"})
	}
}

// handleClearTranscript 清空对话，只剩默认问候
func (h *Handler) handleClearTranscript(w http.ResponseWriter, r *http.Request) {
	err := h.coordinator.Clear(r.Context())
	switch {
	case errors.Is(err, chatService.ErrInFlight):
		utils.RespondError(w, http.StatusConflict, "a response is already in progress")
	case errors.Is(err, chatService.ErrNothingToClear):
		utils.RespondError(w, http.StatusConflict, "nothing to clear")
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "clear failed")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleAskAboutProduct 通过 bridge 向助手询问某个产品
func (h *Handler) handleAskAboutProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.products.FindByID(chi.URLParam(r, "productID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "product not found")
		return
	}

	var payload struct {
		ViewportWidth int `json:"viewportWidth"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompt := h.bridge.SetPending(bridge.ProductPrompt(product.Name))
	focus := bridge.ShouldFocusChat(payload.ViewportWidth)
	if focus {
		h.hub.Publish(chatService.Event{Type: chatService.EventFocusChat, Prompt: prompt.Text})
	}

	h.logger.Info("product question queued", zap.String("product", product.ID), zap.Uint64("version", prompt.Version))
	utils.RespondJSON(w, http.StatusAccepted, map[string]any{
		"prompt":    prompt.Text,
		"focusChat": focus,
	})
}

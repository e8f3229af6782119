package selection

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/catalog"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/comparison"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/selection"
	"github.com/zhouzirui/adeslas-assistant/backend/pkg/utils"
)

// Handler 筛选与对比状态的HTTP处理器
type Handler struct {
	products catalog.Store
	state    *selection.State
}

// New 创建筛选处理器
func New(products catalog.Store, state *selection.State) *Handler {
	return &Handler{products: products, state: state}
}

// RegisterRoutes 注册筛选、对比相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/selection", h.handleGetSelection)
	r.Put("/selection/filter", h.handleSetFilter)
	r.Post("/selection/compare/{productID}", h.handleToggleCompare)
	r.Delete("/selection/compare", h.handleClearCompare)
	r.Get("/comparison", h.handleComparison)
}

type selectionView struct {
	selection.Snapshot
	Visible []catalog.Product `json:"visible"`
}

func (h *Handler) view() selectionView {
	return selectionView{Snapshot: h.state.Snapshot(), Visible: h.state.Visible()}
}

// handleGetSelection 返回当前筛选、对比集合与可见产品
func (h *Handler) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.view())
}

// handleSetFilter 替换分类筛选，category 为 null 时显示全部
func (h *Handler) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Category *string `json:"category"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var filter *catalog.Category
	if payload.Category != nil && *payload.Category != "" {
		category, ok := catalog.ParseCategory(*payload.Category)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "unknown category")
			return
		}
		filter = &category
	}

	if err := h.state.SetCategoryFilter(filter); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.view())
}

// handleToggleCompare 切换产品是否在对比集合中
func (h *Handler) handleToggleCompare(w http.ResponseWriter, r *http.Request) {
	selected, err := h.state.ToggleCompare(chi.URLParam(r, "productID"))
	if errors.Is(err, selection.ErrUnknownProduct) {
		utils.RespondError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, struct {
		Selected bool `json:"selected"`
		selection.Snapshot
	}{Selected: selected, Snapshot: h.state.Snapshot()})
}

// handleClearCompare 清空对比集合
func (h *Handler) handleClearCompare(w http.ResponseWriter, r *http.Request) {
	h.state.ClearCompare()
	utils.RespondJSON(w, http.StatusOK, h.state.Snapshot())
}

// handleComparison 返回对比表，少于两个产品时不可打开
func (h *Handler) handleComparison(w http.ResponseWriter, r *http.Request) {
	if !h.state.CanCompare() {
		utils.RespondError(w, http.StatusConflict, "select at least two products to compare")
		return
	}
	utils.RespondJSON(w, http.StatusOK, comparison.Build(h.products, h.state.CompareIDs()))
}

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/catalog"
	"github.com/zhouzirui/adeslas-assistant/backend/pkg/utils"
)

// Handler 产品目录的HTTP处理器
type Handler struct {
	products catalog.Store
}

// New 创建目录处理器
func New(products catalog.Store) *Handler {
	return &Handler{products: products}
}

// RegisterRoutes 注册目录相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.handleListCategories)
	r.Get("/products", h.handleListProducts)
	r.Get("/products/{productID}", h.handleGetProduct)
}

type categoryView struct {
	Name     catalog.Category `json:"name"`
	Label    string           `json:"label"`
	Products int              `json:"products"`
}

// handleListCategories 列出分类及其产品数量
func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories := catalog.Categories()
	out := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryView{Name: c, Label: c.Label(), Products: len(h.products.ByCategory(c))})
	}
	utils.RespondJSON(w, http.StatusOK, out)
}

// handleListProducts 列出产品，可按 category 过滤
func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("category")
	if raw == "" {
		utils.RespondJSON(w, http.StatusOK, h.products.List())
		return
	}

	category, ok := catalog.ParseCategory(raw)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "unknown category")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.products.ByCategory(category))
}

// handleGetProduct 获取单个产品
func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.products.FindByID(chi.URLParam(r, "productID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "product not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, product)
}

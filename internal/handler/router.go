package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/handler/catalog"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/handler/chat"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/handler/selection"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/handler/stream"
	middlewarePkg "github.com/zhouzirui/adeslas-assistant/backend/internal/middleware"
	catalogModel "github.com/zhouzirui/adeslas-assistant/backend/internal/model/catalog"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/render"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/bridge"
	chatService "github.com/zhouzirui/adeslas-assistant/backend/internal/service/chat"
	selectionService "github.com/zhouzirui/adeslas-assistant/backend/internal/service/selection"
	"github.com/zhouzirui/adeslas-assistant/backend/pkg/utils"
)

// Services 汇总路由依赖的核心服务
type Services struct {
	Catalog     catalogModel.Store
	Selection   *selectionService.State
	Coordinator *chatService.Coordinator
	Hub         *chatService.Hub
	Bridge      *bridge.Bridge
	HTML        *render.HTML
}

// NewRouter wires HTTP routes to core services.
func NewRouter(svc Services, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"loading":     svc.Coordinator.Loading(),
			"subscribers": svc.Hub.Subscribers(),
		})
	})

	r.Route("/api", func(api chi.Router) {
		catalog.New(svc.Catalog).RegisterRoutes(api)
		selection.New(svc.Catalog, svc.Selection).RegisterRoutes(api)
		chat.New(svc.Coordinator, svc.Hub, svc.Bridge, svc.Catalog, svc.HTML, logger).RegisterRoutes(api)
		stream.New(svc.Coordinator, svc.Hub, svc.HTML, logger).RegisterRoutes(api)
	})

	return r
}

package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/config"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/catalog"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/render"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/ai"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/bridge"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/chat"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/selection"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/storage/snapshot"
)

// App holds the session object shared by every transport.
type App struct {
	Catalog     *catalog.MemoryStore
	Selection   *selection.State
	Snapshots   snapshot.Store
	Hub         *chat.Hub
	Session     *chat.Store
	Coordinator *chat.Coordinator
	Bridge      *bridge.Bridge
	HTML        *render.HTML
}

// New loads the catalog, opens the snapshot backend, restores the transcript
// and picks the assistant backend. A missing or broken assistant configuration
// is logged and replaced by ai.Unavailable.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	products, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded", zap.Int("products", len(products.List())))

	snapshots, err := openSnapshots(cfg.Snapshot)
	if err != nil {
		return nil, err
	}

	instruction, err := ai.BuildSystemInstruction(products.List())
	if err != nil {
		_ = snapshots.Close()
		return nil, err
	}

	hub := chat.NewHub(64)
	session := chat.NewStore(snapshots, cfg.Snapshot.Key, hub, logger)
	session.Restore(ctx)

	coordinator := chat.NewCoordinator(session, newAssistant(ctx, cfg.AI, logger), chat.CoordinatorConfig{
		SystemInstruction: instruction,
		Timeout:           cfg.AI.RequestTimeout,
	}, hub, logger)

	return &App{
		Catalog:     products,
		Selection:   selection.New(products),
		Snapshots:   snapshots,
		Hub:         hub,
		Session:     session,
		Coordinator: coordinator,
		Bridge:      bridge.New(logger),
		HTML:        render.NewHTML(),
	}, nil
}

// Close waits for the in-flight response and releases the snapshot backend.
func (a *App) Close() error {
	a.Coordinator.Wait()
	return a.Snapshots.Close()
}

func loadCatalog(cfg config.CatalogConfig) (*catalog.MemoryStore, error) {
	items := catalog.Seed()
	if cfg.Path != "" {
		loaded, err := catalog.LoadFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		items = loaded
	}

	store, err := catalog.NewMemoryStore(items)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return store, nil
}

func openSnapshots(cfg config.SnapshotConfig) (snapshot.Store, error) {
	switch cfg.Backend {
	case config.SnapshotMemory:
		return snapshot.NewMemory(), nil
	case config.SnapshotSQLite:
		store, err := snapshot.NewSQLite(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open snapshot database: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported snapshot backend %q", cfg.Backend)
	}
}

func newAssistant(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) ai.Assistant {
	if !cfg.Enabled() {
		logger.Warn("assistant credentials not configured, answers will fall back to the apology text", zap.String("provider", string(cfg.Provider)))
		return ai.Unavailable{}
	}

	var (
		assistant ai.Assistant
		err       error
	)
	switch cfg.Provider {
	case config.ProviderArk:
		assistant, err = ai.NewArk(ctx, cfg.Ark, logger.Named("ark"))
	default:
		assistant, err = ai.NewGemini(ctx, cfg.Gemini, logger.Named("gemini"))
	}
	if err != nil {
		logger.Warn("failed to initialize assistant, continuing without it", zap.String("provider", string(cfg.Provider)), zap.Error(err))
		return ai.Unavailable{}
	}

	logger.Info("assistant initialized", zap.String("provider", string(cfg.Provider)))
	return assistant
}

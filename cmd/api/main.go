package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/app"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/config"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/handler"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zl, err := logger.New(logger.Options{Level: cfg.Log.Level, FilePath: cfg.Log.File, JSON: cfg.Log.JSON})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	if envErr != nil {
		zl.Info("no .env file loaded, continuing with system environment variables only", zap.Error(envErr))
	}

	application, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize application", zap.Error(err))
	}
	defer func() {
		if err := application.Close(); err != nil {
			zl.Warn("failed to close application", zap.Error(err))
		}
	}()

	// The bridge owner loop submits product questions queued by the catalog endpoints.
	go application.Bridge.Run(ctx, application.Coordinator.Submit)

	router := handler.NewRouter(handler.Services{
		Catalog:     application.Catalog,
		Selection:   application.Selection,
		Coordinator: application.Coordinator,
		Hub:         application.Hub,
		Bridge:      application.Bridge,
		HTML:        application.HTML,
	}, cfg.Server.AllowedOrigins, zl)

	startServer(ctx, cfg.Server, router, zl)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, zl *zap.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	zl.Info("Adeslas assistant backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		zl.Error("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jferrall/teachbridge/backend/internal/config"
	"github.com/jferrall/teachbridge/backend/internal/handler"
	"github.com/jferrall/teachbridge/backend/internal/notify"
	"github.com/jferrall/teachbridge/backend/internal/service/ai"
	dashboardservice "github.com/jferrall/teachbridge/backend/internal/service/dashboard"
	inquiryservice "github.com/jferrall/teachbridge/backend/internal/service/inquiry"
	"github.com/jferrall/teachbridge/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	st, closeStore, err := openStore(cfg.Store)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer closeStore()

	defaultUser, err := store.Seed(ctx, st)
	if err != nil {
		logger.Fatal("failed to seed store", zap.Error(err))
	}

	assistant, err := ai.NewService(ctx, cfg.AI, logger)
	if err != nil {
		logger.Fatal("failed to initialize AI service", zap.Error(err))
	}
	if assistant.Enabled() {
		logger.Info("AI service initialized")
	} else {
		logger.Warn("ark credentials not configured, drafts will use the fallback text")
	}

	hub := notify.NewHub(logger)
	defer hub.Close()

	workflow := inquiryservice.NewService(st, assistant, hub, logger)
	stats := dashboardservice.NewService(st)

	router := handler.NewRouter(st, workflow, stats, hub, defaultUser.Username)

	startServer(ctx, cfg.Server, router, logger)
}

func openStore(cfg config.StoreConfig) (store.Store, func(), error) {
	if cfg.DatabasePath == "" {
		return store.NewMemoryStore(), func() {}, nil
	}

	st, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	return st, func() { st.Close() }, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("teachbridge backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
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

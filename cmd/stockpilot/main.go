package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stockpilot/stockpilot/internal/analytics"
	"github.com/stockpilot/stockpilot/internal/app"
	"github.com/stockpilot/stockpilot/internal/inventory"
	"github.com/stockpilot/stockpilot/internal/kv"
	"github.com/stockpilot/stockpilot/internal/ledger"
	"github.com/stockpilot/stockpilot/internal/sales"
	"github.com/stockpilot/stockpilot/internal/settings"
	"github.com/stockpilot/stockpilot/internal/shared"
	"github.com/stockpilot/stockpilot/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	var store *kv.Client
	if cfg.StoreEmbedded {
		store, err = kv.NewEmbedded()
	} else {
		store, err = kv.NewClient(ctx, cfg.RedisAddr)
	}
	if err != nil {
		logger.Error("open key-value store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close key-value store", slog.Any("error", err))
		}
	}()

	snapshot, err := kv.Load(ctx, store)
	if err != nil {
		if errors.Is(err, ledger.ErrCorruptState) {
			logger.Error("persisted state is corrupt, refusing to start", slog.Any("error", err))
		} else {
			logger.Error("load persisted state", slog.Any("error", err))
		}
		os.Exit(1)
	}

	ledgerStore := ledger.NewStore()
	ledgerStore.Restore(snapshot)
	persister := kv.NewPersister(store, logger)
	ledgerStore.Subscribe(persister.HandleChange)

	sessionManager := shared.NewSessionManager(store.Redis(), "stockpilot_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	inventoryService := inventory.NewService(ledgerStore)
	salesService := sales.NewService(ledgerStore)
	analyticsService := analytics.NewService(ledgerStore)
	settingsService := settings.NewService(store, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Templates:        templates,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		Themes:           settingsService,
		DashboardHandler: analytics.NewHandler(logger, analyticsService, templates, csrfManager),
		InventoryHandler: inventory.NewHandler(logger, inventoryService, templates, csrfManager),
		SalesHandler:     sales.NewHandler(logger, salesService, templates, csrfManager),
		SettingsHandler:  settings.NewHandler(logger, settingsService, templates, csrfManager),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
}

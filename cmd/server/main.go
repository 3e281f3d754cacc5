// Package main is the entry point for the taller reception gateway.
// It serves the purchase-invoice reception workflow to the admin UI and talks
// to the ERP backend for catalog data and persistence.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taller/internal/catalog"
	"taller/internal/config"
	appctx "taller/internal/core/context"
	"taller/internal/draft"
	"taller/internal/erp"
	v1 "taller/internal/infrastructure/http/v1"
	"taller/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Startup work (catalog load) logs under its own trace.
	ctx := appctx.WithTrace(logger.WithLogger(context.Background(), log), appctx.NewTraceContext())
	log.Info("starting taller reception gateway")

	// --- ERP backend client ---
	erpClient := erp.NewClient(erp.Config{
		BaseURL:     cfg.ERP.BaseURL,
		Timeout:     cfg.ERP.Timeout,
		Credentials: erp.NewStaticToken(cfg.ERP.Token),
	})

	// --- Catalog snapshot ---
	store := catalog.NewStore(erpClient)
	if err := store.Refresh(ctx); err != nil {
		// The gateway still starts; the snapshot can be refreshed once the
		// backend comes up.
		log.Warnw("initial catalog load failed", "error", err)
	}

	// --- Draft sessions ---
	sessions := draft.NewManager(store, erpClient, erpClient, cfg.Draft.SessionTTL)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:   log.WithComponent("http"),
		Catalog:  store,
		Sessions: sessions,
		ERP:      erpClient,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Server.Port, "erp", cfg.ERP.BaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

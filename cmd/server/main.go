package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/modeldeck/modeldeck/internal/config"
	"github.com/modeldeck/modeldeck/internal/httpapi"
	"github.com/modeldeck/modeldeck/internal/logging"
	"github.com/modeldeck/modeldeck/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	mux, deps, err := httpapi.NewRouter(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build router", zap.Error(err))
	}
	defer deps.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), time.Minute)
	if err := storage.Migrate(migrateCtx, deps.DB); err != nil {
		cancelMigrate()
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	cancelMigrate()

	addr := ":" + cfg.HTTPPort
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

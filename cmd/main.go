package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"verkefnalisti/internal/cache"
	"verkefnalisti/internal/config"
	"verkefnalisti/internal/controller"
	"verkefnalisti/internal/database"
	"verkefnalisti/internal/queue"
	"verkefnalisti/internal/repository"
	"verkefnalisti/internal/routes"
	"verkefnalisti/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Get()
	if cfg.DatabaseURL == "" {
		logger.Error(ctx, "DATABASE_URL is not set")
		os.Exit(1)
	}

	db := database.InitDB(ctx)
	if db == nil {
		logger.Error(ctx, "Database not available; exiting")
		os.Exit(1)
	}
	store := repository.New(db)
	if err := store.EnsureSchema(ctx); err != nil {
		// Not fatal: handlers retry lazily until the store comes back.
		logger.Warn(ctx, "Schema setup failed at startup; will retry per request", "error", err)
	}

	// Pre-warm optional collaborators (cache works lazily, topic is idempotent)
	cache.Client(ctx)
	queue.Producer(ctx)
	queue.EnsureTopic(ctx)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      routes.Router(controller.NewTodos(store)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server shutdown error", "error", err)
	}
	logger.Info(ctx, "Server stopped")
}

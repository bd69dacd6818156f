package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/princekumarofficial/portfolio-service/internal/bootstrap"
	"github.com/princekumarofficial/portfolio-service/internal/config"
	"github.com/princekumarofficial/portfolio-service/internal/services/media"
	"github.com/princekumarofficial/portfolio-service/internal/services/sweeper"
)

func main() {
	// Load config
	cfg := config.MustLoad()
	logger := bootstrap.NewLogger(cfg.Env)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Received shutdown signal")
		cancel()
	}()

	// Rows must come from the shared database or every object looks orphaned
	store, err := bootstrap.OpenSharedStorage(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage: ", err)
	}
	defer store.Close()

	objects, err := media.NewService(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize object storage: ", err)
	}

	worker := sweeper.New(store, objects, cfg.Sweeper.GracePeriod, logger)

	// Start the worker
	worker.Run(ctx, cfg.Sweeper.Interval)

	slog.Info("Orphan sweeper stopped")
}

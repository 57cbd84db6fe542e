package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"giraffe-kg/internal/ingest"
	"giraffe-kg/internal/kg"
	"giraffe-kg/internal/mirror"
	"giraffe-kg/pkg/config"
	"giraffe-kg/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting knowledge graph server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal("Failed to create data directory", zap.Error(err))
	}

	graph := kg.New(cfg.GraphName)

	// Restore the last snapshot if one exists
	snapshotPath := filepath.Join(cfg.DataDir, "graph.snapshot")
	if _, err := os.Stat(snapshotPath); err == nil {
		if err := graph.LoadSnapshot(snapshotPath); err != nil {
			log.Warn("Failed to restore snapshot, starting empty", zap.Error(err))
		}
	}

	srv := &server{
		graph:     graph,
		processor: ingest.NewProcessor(graph),
		dataDir:   cfg.DataDir,
		log:       log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Neo4jMirrorEnabled {
		m, err := mirror.New(cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			log.Fatal("Failed to create Neo4j mirror", zap.Error(err))
		}
		defer m.Close(context.Background())
		if err := m.Verify(ctx); err != nil {
			log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
		}
		srv.mirror = m
		log.Info("Neo4j mirror enabled", zap.String("uri", cfg.Neo4jURI))
	}

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.router(cfg.IsProduction()),
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("Server started", zap.String("port", cfg.Port))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("Server exited with error", zap.Error(err))
		return
	}
	log.Info("Server exited")
}

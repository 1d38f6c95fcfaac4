package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sku-dashboard/internal/audit"
	"sku-dashboard/internal/config"
	"sku-dashboard/internal/database"
	"sku-dashboard/internal/docstore"
	"sku-dashboard/internal/logger"
	"sku-dashboard/internal/server"
	"sku-dashboard/internal/snapshot"
	"sku-dashboard/internal/workspace"

	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	db, err := database.Open(cfg)
	if err != nil {
		lg.Fatal("database unavailable", "error", err)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg, db)
	if err != nil {
		lg.Fatal("document store unavailable", "backend", cfg.StoreBackend, "error", err)
	}
	defer store.Close()

	adapter, err := snapshot.New(store, snapshot.Options{
		Namespace:    cfg.AdminUserID,
		ChunkMaxRows: cfg.ChunkMaxRows,
		LoadWorkers:  cfg.LoadWorkers,
		Logger:       lg,
	})
	if err != nil {
		lg.Fatal("snapshot adapter", "error", err)
	}

	// The admin resumes from the last saved dataset.
	staging := workspace.NewStaging()
	loadCtx, cancel := context.WithTimeout(ctx, time.Minute)
	saved, err := adapter.LoadAll(loadCtx)
	cancel()
	if err != nil {
		lg.Warn("saved dataset only partially loaded", "error", err)
	}
	staging.Seed(saved)

	app := server.New(server.Deps{
		Config:   cfg,
		Log:      lg,
		Snapshot: adapter,
		Staging:  staging,
		Cache:    workspace.NewCache(adapter, lg),
		Audit:    audit.NewService(db),
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		lg.Info("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	lg.Info("server listening", "port", cfg.HTTPPort, "backend", cfg.StoreBackend)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		lg.Fatal("listen", "error", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (docstore.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		return docstore.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	case config.BackendPostgres:
		return docstore.NewGormStore(db), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

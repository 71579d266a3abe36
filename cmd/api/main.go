package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/archdesk/internal/auth"
	"github.com/MrJamesThe3rd/archdesk/internal/cache"
	"github.com/MrJamesThe3rd/archdesk/internal/classify"
	classifyStore "github.com/MrJamesThe3rd/archdesk/internal/classify/store"
	"github.com/MrJamesThe3rd/archdesk/internal/config"
	"github.com/MrJamesThe3rd/archdesk/internal/database"
	"github.com/MrJamesThe3rd/archdesk/internal/document"
	documentStore "github.com/MrJamesThe3rd/archdesk/internal/document/store"
	"github.com/MrJamesThe3rd/archdesk/internal/export"
	archdeskHttp "github.com/MrJamesThe3rd/archdesk/internal/http"
	classifyHandler "github.com/MrJamesThe3rd/archdesk/internal/http/classify"
	documentHandler "github.com/MrJamesThe3rd/archdesk/internal/http/document"
	exportHandler "github.com/MrJamesThe3rd/archdesk/internal/http/export"
	milestoneHandler "github.com/MrJamesThe3rd/archdesk/internal/http/milestone"
	overviewHandler "github.com/MrJamesThe3rd/archdesk/internal/http/overview"
	pricelistHandler "github.com/MrJamesThe3rd/archdesk/internal/http/pricelist"
	projectHandler "github.com/MrJamesThe3rd/archdesk/internal/http/project"
	"github.com/MrJamesThe3rd/archdesk/internal/importer"
	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
	milestoneStore "github.com/MrJamesThe3rd/archdesk/internal/milestone/store"
	"github.com/MrJamesThe3rd/archdesk/internal/project"
	projectStore "github.com/MrJamesThe3rd/archdesk/internal/project/store"
	"github.com/MrJamesThe3rd/archdesk/internal/snapshot"
	"github.com/MrJamesThe3rd/archdesk/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	blobs, err := storage.NewS3(ctx, storage.Config{
		Endpoint:  cfg.S3.Endpoint,
		Region:    cfg.S3.Region,
		Bucket:    cfg.S3.Bucket,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Expiry:    cfg.S3.PresignExpiry,
	})
	if err != nil {
		slog.Error("failed to configure storage", "error", err)
		os.Exit(1)
	}

	var (
		documents  = documentStore.New(db)
		milestones = milestoneStore.New(db)
		snapshots  = snapshot.NewService(documents, milestones, snapshotCache(cfg))
	)

	var (
		documentService  = document.NewService(documents, blobs, snapshots)
		milestoneService = milestone.NewService(milestones, snapshots)
		projectService   = project.NewService(projectStore.New(db), snapshots, milestoneService, documentService)
		classifyService  = classify.NewService(classifyStore.New(db))
		importService    = importer.NewService()
		exportService    = export.NewService(documentService)
	)

	handlers := archdeskHttp.Handlers{
		Projects:   projectHandler.NewHandler(projectService),
		Documents:  documentHandler.NewHandler(documentService, snapshots, classifyService),
		Milestones: milestoneHandler.NewHandler(milestoneService, snapshots, time.Now),
		Overview:   overviewHandler.NewHandler(snapshots, time.Now),
		Classify:   classifyHandler.NewHandler(classifyService),
		PriceLists: pricelistHandler.NewHandler(importService),
		Export:     exportHandler.NewHandler(exportService, time.Now),
	}

	opts := archdeskHttp.Options{AllowedOrigins: cfg.CORS.AllowedOrigins}
	if cfg.Auth.JWTSecret != "" {
		opts.Auth = auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Middleware
	} else {
		slog.Warn("JWT_SECRET is empty, API authentication is disabled")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           archdeskHttp.New(handlers, opts),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// snapshotCache uses Redis when an address is configured and an in-process
// map otherwise.
func snapshotCache(cfg *config.Config) cache.Cache[snapshot.Snapshot] {
	if cfg.Redis.Addr == "" {
		return cache.NewMemory[snapshot.Snapshot](cfg.Redis.SnapshotTTL)
	}

	rdb := cache.NewRedisClient(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	return cache.NewRedis[snapshot.Snapshot](rdb, "snapshot", cfg.Redis.SnapshotTTL)
}

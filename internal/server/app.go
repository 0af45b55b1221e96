// Package server wires the application together: configuration, logging,
// tracing, stores, repositories, services and the HTTP listener.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vkarpenko/drivespace/internal/logging"
	"github.com/vkarpenko/drivespace/internal/server/blobstore"
	"github.com/vkarpenko/drivespace/internal/server/cache"
	"github.com/vkarpenko/drivespace/internal/server/config"
	"github.com/vkarpenko/drivespace/internal/server/httpapi"
	"github.com/vkarpenko/drivespace/internal/server/metrics"
	"github.com/vkarpenko/drivespace/internal/server/repositories/repomanager"
	"github.com/vkarpenko/drivespace/internal/server/services"
	"github.com/vkarpenko/drivespace/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

// Run builds the server from configuration and serves until the process
// receives SIGINT or SIGTERM.
func Run(cfg *config.Config) error {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TraceEndpoint != "" {
		shutdown, err := tracing.Init(ctx, "drivespace", cfg.TraceEndpoint)
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdown(flushCtx); err != nil {
				logger.Warn(flushCtx, "trace exporter shutdown failed", "error", err)
			}
		}()
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	store, err := blobstore.NewS3Store(ctx, blobstore.Options{
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		BaseEndpoint:    cfg.S3BaseEndpoint,
	})
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}

	// the cache is optional; without Redis every lookup goes to Postgres
	var folderCache *cache.FolderCache
	if cfg.RedisAddr != "" {
		folderCache, err = cache.NewFolderCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			return fmt.Errorf("folder cache: %w", err)
		}
		defer folderCache.Close()
	}

	m := metrics.New(metrics.Registry)
	foldersRepo := repos.Folders(db)
	filesRepo := repos.Files(db)
	usersRepo := repos.Users(db)

	namespace := services.NewNamespaceService(foldersRepo, filesRepo, store, folderCache, m, logger)
	listing := services.NewListingService(foldersRepo, filesRepo, store, folderCache, logger)
	users := services.NewUserService(usersRepo, store, m, logger, []byte(cfg.SecretKey), cfg.TokenValidityDuration)

	api := httpapi.New(namespace, listing, users, []byte(cfg.SecretKey), logger)

	srv := &http.Server{
		Addr:    cfg.EndpointAddr,
		Handler: otelhttp.NewHandler(api, "drivespace"),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server listening", "addr", cfg.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(drainCtx)
}

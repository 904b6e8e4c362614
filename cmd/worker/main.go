package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/devconnector/adapters/event"
	githubAdapter "github.com/khoahotran/devconnector/adapters/github"
	"github.com/khoahotran/devconnector/adapters/media_storage"
	"github.com/khoahotran/devconnector/adapters/persistence"
	backupUC "github.com/khoahotran/devconnector/internal/application/usecase/backup"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting DevConnector Worker...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(cfg, appLogger, "devconnector-worker")
	if err != nil {
		appLogger.Fatal("Cannot init tracing", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			appLogger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	jobs := 0

	// Profile events: drop cached GitHub repos when a username may have changed
	if len(cfg.Kafka.Brokers) > 0 {
		var cache cacheInvalidator
		if cfg.Redis.Addr != "" {
			redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
			if err != nil {
				appLogger.Fatal("Cannot connect Redis", err)
			}
			defer redisClient.Close()
			cache = githubAdapter.NewCachedFetcher(nil, redisClient, cfg.Redis.RepoCacheTTL, appLogger)
		}

		consumer := event.NewProfileEventsConsumer(cfg, appLogger)
		defer consumer.Close()

		handler := newEventHandler(cache, appLogger)
		g.Go(func() error {
			appLogger.Info("Worker listening", zap.String("topic", event.TopicProfileEvents))
			return consumer.Run(gctx, handler.Handle)
		})
		jobs++
	}

	// Periodic profile snapshots
	if cfg.Backup.Interval > 0 {
		store, err := persistence.OpenStore(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot open store", err)
		}
		defer store.Close()

		uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize uploader", err)
		}

		backup := backupUC.NewBackupUseCase(store.Profiles, uploader, appLogger)
		g.Go(func() error {
			runEvery(gctx, cfg.Backup.Interval, func(ctx context.Context) {
				url, err := backup.Execute(ctx)
				if err != nil {
					appLogger.Error("Profile backup failed", err)
					return
				}
				appLogger.Info("Profile backup uploaded", zap.String("url", url))
			})
			return nil
		})
		jobs++
	}

	if jobs == 0 {
		appLogger.Warn("Nothing to do: configure KAFKA_BROKERS or BACKUP_INTERVAL")
		return
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Worker stopped with error", err)
		return
	}
	appLogger.Info("Worker exited")
}

// runEvery calls job once per interval until ctx is done.
func runEvery(ctx context.Context, interval time.Duration, job func(ctx context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job(ctx)
		}
	}
}

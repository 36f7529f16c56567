package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/competitors"
	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/cron"
	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/scrape"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/config"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/db"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/logger"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/metrics"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/migrate"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/pubsub"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/redis"
)

const lockKeyFormat = "ac:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var publisher competitors.EventPublisher
	if cfg.PubSub.EventingEnabled() {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		publisher = competitors.NewPubSubEventPublisher(pubsubClient.InventoryPublisher(), logg)
	}

	repo := competitors.NewRepository(dbClient)
	reconciler := competitors.NewReconciler(logg, repo, cfg.Scraper.MissThreshold)
	scrapeMetrics := metrics.NewScrapeRunMetrics(prometheus.DefaultRegisterer)
	orchestrator := competitors.NewOrchestrator(
		logg,
		repo,
		scrape.NewPageFetcher(cfg.Scraper),
		scrape.NewListingParser(),
		reconciler,
		publisher,
		scrapeMetrics,
	)

	scrapeJob, err := cron.NewCompetitorScrapeJob(cron.CompetitorScrapeJobParams{
		Logger:       logg,
		Dealers:      repo,
		Orchestrator: orchestrator,
		Locks:        redisClient,
		LockTTL:      cfg.Scraper.LockTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scrape job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(scrapeJob),
		Lock:     lock,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}

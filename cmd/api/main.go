package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Autocity-R/autocity-sales-hub-sub004/api/routes"
	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/competitors"
	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/scrape"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/config"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/db"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/logger"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/metrics"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/migrate"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/pubsub"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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
	service := competitors.NewService(logg, repo)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Locks:        redisClient,
			Dealers:      service,
			Inventory:    service,
			Orchestrator: orchestrator,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

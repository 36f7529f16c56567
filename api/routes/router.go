package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Autocity-R/autocity-sales-hub-sub004/api/controllers"
	"github.com/Autocity-R/autocity-sales-hub-sub004/api/middleware"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/config"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RouterParams bundle the dependencies of the HTTP surface.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           pinger
	Redis        pinger
	Locks        lockStore
	Dealers      controllers.DealerService
	Inventory    controllers.InventoryService
	Orchestrator controllers.ScrapeRunner
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, params.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/competitors", func(r chi.Router) {
			r.Post("/", controllers.CreateDealer(params.Dealers, logg))
			r.Get("/", controllers.ListDealers(params.Dealers, logg))
			r.Route("/{dealerID}", func(r chi.Router) {
				r.Get("/", controllers.GetDealer(params.Dealers, logg))
				r.Post("/scrape", controllers.TriggerScrape(params.Orchestrator, params.Locks, cfg.Scraper.LockTTL, logg))
				r.Get("/vehicles", controllers.ListVehicles(params.Inventory, logg))
				r.Get("/scrape-logs", controllers.ScrapeLogs(params.Inventory, logg))
			})
		})
		r.Get("/vehicles/{vehicleID}/price-history", controllers.PriceHistory(params.Inventory, logg))
	})

	return r
}

package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Autocity-R/autocity-sales-hub-sub004/api/responses"
	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/competitors"
	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/cron"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/logger"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/redis"
)

const scrapeLockScope = "dealer-scrape"

// ScrapeRunner triggers a single dealer scrape.
type ScrapeRunner interface {
	RunScrape(ctx context.Context, dealerID uuid.UUID) (competitors.RunResult, error)
}

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// TriggerScrape runs a scrape for one dealer synchronously. The same
// per-dealer lock the scheduled job uses keeps a manual trigger from racing
// it.
func TriggerScrape(orch ScrapeRunner, locks lockStore, lockTTL time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := pathUUID(r, "dealerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		run := func(ctx context.Context) (competitors.RunResult, error) {
			return orch.RunScrape(ctx, dealerID)
		}
		if locks != nil {
			run = withDealerLock(locks, dealerID, lockTTL, logg, run)
		}

		result, err := run(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func withDealerLock(locks lockStore, dealerID uuid.UUID, ttl time.Duration, logg *logger.Logger, run func(context.Context) (competitors.RunResult, error)) func(context.Context) (competitors.RunResult, error) {
	return func(ctx context.Context) (competitors.RunResult, error) {
		lock, err := cron.NewRedisLock(locks, redis.LockKey(scrapeLockScope, dealerID.String()), ttl)
		if err != nil {
			return competitors.RunResult{}, err
		}
		locked, err := lock.Acquire(ctx)
		if err != nil {
			return competitors.RunResult{}, err
		}
		if !locked {
			return competitors.RunResult{
				Success: false,
				Message: "a scrape for this dealer is already running",
			}, nil
		}
		defer func() {
			if relErr := lock.Release(ctx); relErr != nil {
				logg.Error(ctx, "failed to release dealer lock", relErr)
			}
		}()
		return run(ctx)
	}
}

package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/competitors"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/db/models"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/logger"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/redis"
)

const dealerLockScope = "dealer-scrape"

// dealerLister loads the dealers due for scraping.
type dealerLister interface {
	ListDealers(ctx context.Context) ([]models.CompetitorDealer, error)
}

// scrapeRunner runs a single dealer scrape.
type scrapeRunner interface {
	RunScrape(ctx context.Context, dealerID uuid.UUID) (competitors.RunResult, error)
}

// CompetitorScrapeJobParams configure the scheduled scrape job.
type CompetitorScrapeJobParams struct {
	Logger       *logger.Logger
	Dealers      dealerLister
	Orchestrator scrapeRunner
	Locks        redisStore
	LockTTL      time.Duration
}

// CompetitorScrapeJob scrapes every registered dealer once per cycle. Each
// dealer is guarded by its own Redis lock so a run triggered manually through
// the API cannot race the scheduled one.
type CompetitorScrapeJob struct {
	logg         *logger.Logger
	dealers      dealerLister
	orchestrator scrapeRunner
	locks        redisStore
	lockTTL      time.Duration
}

// NewCompetitorScrapeJob builds the job.
func NewCompetitorScrapeJob(params CompetitorScrapeJobParams) (*CompetitorScrapeJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Dealers == nil {
		return nil, fmt.Errorf("dealer lister required")
	}
	if params.Orchestrator == nil {
		return nil, fmt.Errorf("orchestrator required")
	}
	if params.Locks == nil {
		return nil, fmt.Errorf("redis store required")
	}
	ttl := params.LockTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CompetitorScrapeJob{
		logg:         params.Logger,
		dealers:      params.Dealers,
		orchestrator: params.Orchestrator,
		locks:        params.Locks,
		lockTTL:      ttl,
	}, nil
}

func (j *CompetitorScrapeJob) Name() string {
	return "competitor-scrape"
}

// Run scrapes all dealers sequentially. Per-dealer failures are collected and
// returned combined; one broken storefront never blocks the rest.
func (j *CompetitorScrapeJob) Run(ctx context.Context) error {
	dealers, err := j.dealers.ListDealers(ctx)
	if err != nil {
		return fmt.Errorf("list dealers: %w", err)
	}

	var errs error
	for _, dealer := range dealers {
		if err := j.scrapeDealer(ctx, dealer); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("dealer %s: %w", dealer.ID, err))
		}
	}
	return errs
}

func (j *CompetitorScrapeJob) scrapeDealer(ctx context.Context, dealer models.CompetitorDealer) error {
	ctx = j.logg.WithDealerID(ctx, dealer.ID.String())

	lock, err := NewRedisLock(j.locks, redis.LockKey(dealerLockScope, dealer.ID.String()), j.lockTTL)
	if err != nil {
		return err
	}
	locked, err := lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire dealer lock: %w", err)
	}
	if !locked {
		j.logg.Info(ctx, "dealer scrape already in progress; skipping")
		return nil
	}
	defer func() {
		if relErr := lock.Release(ctx); relErr != nil {
			j.logg.Error(ctx, "failed to release dealer lock", relErr)
		}
	}()

	_, err = j.orchestrator.RunScrape(ctx, dealer.ID)
	return err
}

package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/competitors"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/db/models"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/logger"
)

type fakeDealerLister struct {
	dealers []models.CompetitorDealer
	err     error
}

func (f *fakeDealerLister) ListDealers(ctx context.Context) ([]models.CompetitorDealer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.dealers, nil
}

type fakeScrapeRunner struct {
	ran  []uuid.UUID
	errs map[uuid.UUID]error
}

func (f *fakeScrapeRunner) RunScrape(ctx context.Context, dealerID uuid.UUID) (competitors.RunResult, error) {
	f.ran = append(f.ran, dealerID)
	if err := f.errs[dealerID]; err != nil {
		return competitors.RunResult{}, err
	}
	return competitors.RunResult{Success: true}, nil
}

type fakeRedisStore struct {
	values map[string]string
	setErr error
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: make(map[string]string)}
}

func (f *fakeRedisStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if f.setErr != nil {
		return false, f.setErr
	}
	if _, held := f.values[key]; held {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeRedisStore) Get(ctx context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeRedisStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func newScrapeJob(t *testing.T, dealers *fakeDealerLister, runner *fakeScrapeRunner, store *fakeRedisStore) *CompetitorScrapeJob {
	t.Helper()
	job, err := NewCompetitorScrapeJob(CompetitorScrapeJobParams{
		Logger:       logger.New(logger.Options{ServiceName: "test"}),
		Dealers:      dealers,
		Orchestrator: runner,
		Locks:        store,
		LockTTL:      time.Minute,
	})
	if err != nil {
		t.Fatalf("NewCompetitorScrapeJob: %v", err)
	}
	return job
}

func TestCompetitorScrapeJobRunsEveryDealer(t *testing.T) {
	dealers := &fakeDealerLister{dealers: []models.CompetitorDealer{
		{ID: uuid.New(), Name: "A"},
		{ID: uuid.New(), Name: "B"},
	}}
	runner := &fakeScrapeRunner{}
	store := newFakeRedisStore()
	job := newScrapeJob(t, dealers, runner, store)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(runner.ran) != 2 {
		t.Fatalf("expected 2 scrapes, got %d", len(runner.ran))
	}
	// Locks are released after each dealer.
	if len(store.values) != 0 {
		t.Fatalf("expected all locks released, %d remain", len(store.values))
	}
}

func TestCompetitorScrapeJobSkipsLockedDealer(t *testing.T) {
	dealerID := uuid.New()
	dealers := &fakeDealerLister{dealers: []models.CompetitorDealer{{ID: dealerID}}}
	runner := &fakeScrapeRunner{}
	store := newFakeRedisStore()
	store.values["ac:lock:dealer-scrape:"+dealerID.String()] = "other-owner"
	job := newScrapeJob(t, dealers, runner, store)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(runner.ran) != 0 {
		t.Fatalf("expected locked dealer to be skipped, ran %d", len(runner.ran))
	}
}

func TestCompetitorScrapeJobCollectsFailures(t *testing.T) {
	broken := uuid.New()
	healthy := uuid.New()
	dealers := &fakeDealerLister{dealers: []models.CompetitorDealer{{ID: broken}, {ID: healthy}}}
	runner := &fakeScrapeRunner{errs: map[uuid.UUID]error{broken: errors.New("fetch failed")}}
	store := newFakeRedisStore()
	job := newScrapeJob(t, dealers, runner, store)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected combined error")
	}
	if len(runner.ran) != 2 {
		t.Fatalf("expected both dealers attempted, got %d", len(runner.ran))
	}
}

func TestCompetitorScrapeJobListFailureIsFatal(t *testing.T) {
	dealers := &fakeDealerLister{err: errors.New("connection refused")}
	job := newScrapeJob(t, dealers, &fakeScrapeRunner{}, newFakeRedisStore())

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

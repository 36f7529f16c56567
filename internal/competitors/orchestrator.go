package competitors

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/scrape"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/db/models"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/enums"
	pkgerrors "github.com/Autocity-R/autocity-sales-hub-sub004/pkg/errors"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/logger"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/metrics"
)

// Fetcher downloads a listing page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, int, error)
}

// Parser extracts vehicle listings from page markup.
type Parser interface {
	Parse(markup, pageURL string) []scrape.Vehicle
}

// orchestratorStore is the slice of the repository the orchestrator needs on
// top of what the reconciler already writes through.
type orchestratorStore interface {
	FindDealer(ctx context.Context, id uuid.UUID) (*models.CompetitorDealer, error)
	ListVehicles(ctx context.Context, dealerID uuid.UUID) ([]models.CompetitorVehicle, error)
	InsertScrapeRunLog(ctx context.Context, log *models.ScrapeRunLog) error
	UpdateDealerSummary(ctx context.Context, id uuid.UUID, at time.Time, status enums.ScrapeStatus, vehiclesCount int) error
}

type reconciling interface {
	Reconcile(ctx context.Context, dealerID uuid.UUID, stored []models.CompetitorVehicle, scraped []scrape.Vehicle, missThreshold int) (Outcome, error)
}

// RunStats are the per-run counters returned to the caller and persisted in
// the run log.
type RunStats struct {
	VehiclesFound      int   `json:"vehiclesFound"`
	VehiclesNew        int   `json:"vehiclesNew"`
	VehiclesSold       int   `json:"vehiclesSold"`
	VehiclesReappeared int   `json:"vehiclesReappeared"`
	PriceChanges       int   `json:"priceChanges"`
	DurationMS         int64 `json:"durationMs"`
}

// RunResult is the outcome of a single scrape run.
type RunResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Stats   RunStats `json:"stats"`
}

// Orchestrator drives one dealer scrape end to end: fetch, parse, reconcile,
// audit. Every run writes exactly one ScrapeRunLog row, success or error.
type Orchestrator struct {
	logg       *logger.Logger
	store      orchestratorStore
	fetcher    Fetcher
	parser     Parser
	reconciler reconciling
	publisher  EventPublisher
	metrics    *metrics.ScrapeRunMetrics
	now        func() time.Time
}

func NewOrchestrator(logg *logger.Logger, store orchestratorStore, fetcher Fetcher, parser Parser, reconciler reconciling, publisher EventPublisher, m *metrics.ScrapeRunMetrics) *Orchestrator {
	return &Orchestrator{
		logg:       logg,
		store:      store,
		fetcher:    fetcher,
		parser:     parser,
		reconciler: reconciler,
		publisher:  publisher,
		metrics:    m,
		now:        time.Now,
	}
}

// RunScrape executes a scrape run for one dealer. The caller is responsible
// for serializing runs per dealer; concurrent runs for distinct dealers are
// safe.
func (o *Orchestrator) RunScrape(ctx context.Context, dealerID uuid.UUID) (RunResult, error) {
	runID := uuid.NewString()
	ctx = o.logg.WithRunID(o.logg.WithDealerID(ctx, dealerID.String()), runID)
	started := o.now()

	dealer, err := o.store.FindDealer(ctx, dealerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "competitor dealer not found")
		}
		return RunResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load competitor dealer")
	}
	o.logg.Info(o.logg.WithField(ctx, "scrape_url", dealer.ScrapeURL), "scrape run started")

	markup, status, err := o.fetcher.Fetch(ctx, dealer.ScrapeURL)
	if err != nil {
		fetchErr := pkgerrors.Wrap(pkgerrors.CodeFetch, err, "fetch listing page").
			WithDetails(map[string]any{"http_status": status})
		return o.failRun(ctx, dealer, started, fetchErr)
	}

	scraped := o.parser.Parse(markup, dealer.ScrapeURL)

	stored, err := o.store.ListVehicles(ctx, dealerID)
	if err != nil {
		// Never reconcile against a baseline we could not read: every
		// stored vehicle would look missing.
		readErr := pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stored inventory")
		return o.failRun(ctx, dealer, started, readErr)
	}

	threshold := 0
	if dealer.MissThreshold != nil {
		threshold = *dealer.MissThreshold
	}
	outcome, reconcileErr := o.reconciler.Reconcile(ctx, dealerID, stored, scraped, threshold)
	if reconcileErr != nil {
		// Partial failures are logged but do not fail the run; the
		// affected vehicles are re-evaluated next run.
		o.logg.Error(ctx, "some vehicles failed to reconcile", reconcileErr)
	}

	finished := o.now()
	duration := finished.Sub(started)
	stats := RunStats{
		VehiclesFound:      outcome.VehiclesFound,
		VehiclesNew:        outcome.VehiclesNew,
		VehiclesSold:       outcome.VehiclesSold,
		VehiclesReappeared: outcome.VehiclesReappeared,
		PriceChanges:       outcome.PriceChanges,
		DurationMS:         duration.Milliseconds(),
	}

	runLog := &models.ScrapeRunLog{
		DealerID:           dealerID,
		Status:             enums.ScrapeStatusSuccess,
		VehiclesFound:      stats.VehiclesFound,
		VehiclesNew:        stats.VehiclesNew,
		VehiclesSold:       stats.VehiclesSold,
		VehiclesReappeared: stats.VehiclesReappeared,
		PriceChanges:       stats.PriceChanges,
		DurationMS:         stats.DurationMS,
	}
	if err := o.store.InsertScrapeRunLog(ctx, runLog); err != nil {
		// Vehicle mutations already applied stay applied; the caller
		// learns the audit trail is incomplete.
		return RunResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write scrape run log")
	}

	if err := o.store.UpdateDealerSummary(ctx, dealerID, finished.UTC(), enums.ScrapeStatusSuccess, stats.VehiclesFound); err != nil {
		o.logg.Error(ctx, "failed to update dealer scrape summary", err)
	}

	o.metrics.ObserveDuration(dealer.Name, duration)
	o.metrics.IncSuccess(dealer.Name)
	o.metrics.SetVehiclesFound(dealer.Name, stats.VehiclesFound)
	o.metrics.AddVehiclesSold(dealer.Name, stats.VehiclesSold)
	o.metrics.AddPriceChanges(dealer.Name, stats.PriceChanges)

	if o.publisher != nil && len(outcome.Events) > 0 {
		if err := o.publisher.PublishEvents(ctx, outcome.Events); err != nil {
			o.logg.Error(ctx, "failed to publish inventory events", err)
		}
	}

	o.logg.Info(o.logg.WithFields(ctx, map[string]any{
		"vehicles_found": stats.VehiclesFound,
		"vehicles_new":   stats.VehiclesNew,
		"vehicles_sold":  stats.VehiclesSold,
		"duration_ms":    stats.DurationMS,
	}), "scrape run finished")

	return RunResult{Success: true, Message: "scrape completed", Stats: stats}, nil
}

// failRun records a failed run in the audit log and dealer summary before
// surfacing the error.
func (o *Orchestrator) failRun(ctx context.Context, dealer *models.CompetitorDealer, started time.Time, runErr error) (RunResult, error) {
	finished := o.now()
	duration := finished.Sub(started)
	message := runErr.Error()

	runLog := &models.ScrapeRunLog{
		DealerID:     dealer.ID,
		Status:       enums.ScrapeStatusError,
		ErrorMessage: &message,
		DurationMS:   duration.Milliseconds(),
	}
	if err := o.store.InsertScrapeRunLog(ctx, runLog); err != nil {
		o.logg.Error(ctx, "failed to write error run log", err)
	}
	if err := o.store.UpdateDealerSummary(ctx, dealer.ID, finished.UTC(), enums.ScrapeStatusError, dealer.LastScrapeVehiclesCount); err != nil {
		o.logg.Error(ctx, "failed to update dealer scrape summary", err)
	}

	o.metrics.ObserveDuration(dealer.Name, duration)
	o.metrics.IncFailure(dealer.Name)

	o.logg.Error(ctx, "scrape run failed", runErr)
	return RunResult{Success: false, Message: message, Stats: RunStats{DurationMS: duration.Milliseconds()}}, runErr
}

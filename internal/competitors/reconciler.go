package competitors

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/fingerprint"
	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/scrape"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/db/models"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/enums"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/logger"
)

// reconcilerStore is the slice of the repository the reconciler writes through.
type reconcilerStore interface {
	InsertVehicle(ctx context.Context, vehicle *models.CompetitorVehicle) error
	UpdateVehicle(ctx context.Context, id uuid.UUID, updates map[string]any) error
	InsertPriceHistory(ctx context.Context, entry *models.PriceHistoryEntry) error
}

// Outcome summarizes the inventory changes of a single reconciliation pass.
type Outcome struct {
	VehiclesFound      int
	VehiclesNew        int
	VehiclesSold       int
	VehiclesReappeared int
	PriceChanges       int
	Events             []Event
}

// Reconciler matches a scrape result against stored inventory and applies the
// in_stock / sold lifecycle. A vehicle is only marked sold after it has been
// missing from missThreshold consecutive scrapes, which absorbs single-scrape
// flakiness such as pagination glitches.
type Reconciler struct {
	logg          *logger.Logger
	store         reconcilerStore
	missThreshold int
	now           func() time.Time
}

func NewReconciler(logg *logger.Logger, store reconcilerStore, missThreshold int) *Reconciler {
	if missThreshold < 1 {
		missThreshold = 1
	}
	return &Reconciler{
		logg:          logg,
		store:         store,
		missThreshold: missThreshold,
		now:           time.Now,
	}
}

// Reconcile applies one scrape's listings to the dealer's stored inventory.
// missThreshold overrides the default when positive (per-dealer setting).
// Storage failures on individual vehicles are collected and returned combined;
// the pass continues so one bad row cannot block the rest of the run.
func (r *Reconciler) Reconcile(ctx context.Context, dealerID uuid.UUID, stored []models.CompetitorVehicle, scraped []scrape.Vehicle, missThreshold int) (Outcome, error) {
	threshold := r.missThreshold
	if missThreshold > 0 {
		threshold = missThreshold
	}
	now := r.now().UTC()

	// First occurrence wins when two listings collapse to the same key.
	seen := make(map[fingerprint.Key]scrape.Vehicle, len(scraped))
	var order []fingerprint.Key
	for _, v := range scraped {
		key := fingerprint.Compute(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = v
		order = append(order, key)
	}

	storedByKey := make(map[fingerprint.Key]*models.CompetitorVehicle, len(stored))
	for i := range stored {
		storedByKey[fingerprint.Key(stored[i].Fingerprint)] = &stored[i]
	}

	outcome := Outcome{VehiclesFound: len(order)}
	var errs error

	for _, key := range order {
		listing := seen[key]
		existing, known := storedByKey[key]
		if !known {
			if err := r.insertNew(ctx, dealerID, key, listing, now); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("insert %s: %w", key, err))
				continue
			}
			outcome.VehiclesNew++
			continue
		}
		if err := r.refreshExisting(ctx, dealerID, existing, listing, now, &outcome); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("update %s: %w", key, err))
		}
	}

	for i := range stored {
		vehicle := &stored[i]
		if vehicle.Status != enums.VehicleStatusInStock {
			continue
		}
		if _, present := seen[fingerprint.Key(vehicle.Fingerprint)]; present {
			continue
		}
		if err := r.markMissing(ctx, dealerID, vehicle, now, threshold, &outcome); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("miss %s: %w", vehicle.Fingerprint, err))
		}
	}

	return outcome, errs
}

func (r *Reconciler) insertNew(ctx context.Context, dealerID uuid.UUID, key fingerprint.Key, listing scrape.Vehicle, now time.Time) error {
	bucket := 0
	if listing.Mileage != nil && *listing.Mileage > 0 {
		bucket = *listing.Mileage / fingerprint.MileageBucketSize
	}
	vehicle := &models.CompetitorVehicle{
		DealerID:      dealerID,
		Fingerprint:   string(key),
		ExternalURL:   listing.ExternalURL,
		Brand:         listing.Brand,
		Model:         listing.Model,
		Variant:       listing.Variant,
		BuildYear:     listing.BuildYear,
		Mileage:       listing.Mileage,
		MileageBucket: bucket,
		Price:         listing.Price,
		FuelType:      listing.FuelType,
		Transmission:  listing.Transmission,
		BodyType:      listing.BodyType,
		Color:         listing.Color,
		ImageURL:      listing.ImageURL,
		Status:        enums.VehicleStatusInStock,
		FirstSeenAt:   now,
		LastSeenAt:    now,
	}
	return r.store.InsertVehicle(ctx, vehicle)
}

func (r *Reconciler) refreshExisting(ctx context.Context, dealerID uuid.UUID, vehicle *models.CompetitorVehicle, listing scrape.Vehicle, now time.Time, outcome *Outcome) error {
	updates := map[string]any{
		"last_seen_at":                now,
		"consecutive_missing_scrapes": 0,
		"total_stock_days":            daysBetween(vehicle.FirstSeenAt, now),
	}
	if listing.Mileage != nil {
		updates["mileage"] = *listing.Mileage
	}
	if listing.ExternalURL != "" {
		updates["external_url"] = listing.ExternalURL
	}
	if listing.ImageURL != nil {
		updates["image_url"] = *listing.ImageURL
	}

	reappeared := vehicle.Status == enums.VehicleStatusSold
	if reappeared {
		updates["status"] = enums.VehicleStatusInStock
		updates["sold_at"] = nil
		updates["reappeared_count"] = vehicle.ReappearedCount + 1
	}

	var priceEvent *Event
	if listing.Price != nil {
		switch {
		case vehicle.Price == nil:
			// First observed price, no ledger entry to write.
			updates["price"] = *listing.Price
		case !vehicle.Price.Equal(*listing.Price):
			updates["price"] = *listing.Price
			entry := &models.PriceHistoryEntry{
				VehicleID:   vehicle.ID,
				OldPrice:    *vehicle.Price,
				NewPrice:    *listing.Price,
				PriceChange: listing.Price.Sub(*vehicle.Price),
			}
			if err := r.store.InsertPriceHistory(ctx, entry); err != nil {
				return err
			}
			priceEvent = &Event{
				Type:       enums.EventPriceChanged,
				DealerID:   dealerID,
				VehicleID:  vehicle.ID,
				Brand:      vehicle.Brand,
				Model:      vehicle.Model,
				OldPrice:   decimalString(vehicle.Price),
				NewPrice:   decimalString(listing.Price),
				OccurredAt: now,
			}
		}
	}

	if err := r.store.UpdateVehicle(ctx, vehicle.ID, updates); err != nil {
		return err
	}

	if reappeared {
		outcome.VehiclesReappeared++
		outcome.Events = append(outcome.Events, Event{
			Type:       enums.EventVehicleReappeared,
			DealerID:   dealerID,
			VehicleID:  vehicle.ID,
			Brand:      vehicle.Brand,
			Model:      vehicle.Model,
			OccurredAt: now,
		})
	}
	if priceEvent != nil {
		outcome.PriceChanges++
		outcome.Events = append(outcome.Events, *priceEvent)
	}
	return nil
}

func (r *Reconciler) markMissing(ctx context.Context, dealerID uuid.UUID, vehicle *models.CompetitorVehicle, now time.Time, threshold int, outcome *Outcome) error {
	misses := vehicle.ConsecutiveMissingScrapes + 1
	updates := map[string]any{
		"consecutive_missing_scrapes": misses,
	}

	sold := misses >= threshold
	if sold {
		updates["status"] = enums.VehicleStatusSold
		updates["sold_at"] = now
		updates["total_stock_days"] = daysBetween(vehicle.FirstSeenAt, now)
	}

	if err := r.store.UpdateVehicle(ctx, vehicle.ID, updates); err != nil {
		return err
	}

	if sold {
		outcome.VehiclesSold++
		outcome.Events = append(outcome.Events, Event{
			Type:       enums.EventVehicleSold,
			DealerID:   dealerID,
			VehicleID:  vehicle.ID,
			Brand:      vehicle.Brand,
			Model:      vehicle.Model,
			OldPrice:   decimalString(vehicle.Price),
			OccurredAt: now,
		})
		ctx = r.logg.WithDealerID(ctx, dealerID.String())
		r.logg.Info(r.logg.WithField(ctx, "fingerprint", vehicle.Fingerprint), "vehicle marked sold")
	}
	return nil
}

func daysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

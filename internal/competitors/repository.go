package competitors

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/db"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/db/models"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/enums"
)

// Repository is the gorm-backed persistence layer for competitor tracking.
type Repository struct {
	client *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) FindDealer(ctx context.Context, id uuid.UUID) (*models.CompetitorDealer, error) {
	var dealer models.CompetitorDealer
	if err := r.client.DB().WithContext(ctx).First(&dealer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dealer, nil
}

func (r *Repository) ListDealers(ctx context.Context) ([]models.CompetitorDealer, error) {
	var dealers []models.CompetitorDealer
	if err := r.client.DB().WithContext(ctx).Order("name asc").Find(&dealers).Error; err != nil {
		return nil, err
	}
	return dealers, nil
}

func (r *Repository) CreateDealer(ctx context.Context, dealer *models.CompetitorDealer) error {
	return r.client.DB().WithContext(ctx).Create(dealer).Error
}

// UpdateDealerSummary records the outcome of the latest scrape on the dealer
// row itself so list views can show freshness without joining the run log.
func (r *Repository) UpdateDealerSummary(ctx context.Context, id uuid.UUID, at time.Time, status enums.ScrapeStatus, vehiclesCount int) error {
	return r.client.DB().WithContext(ctx).
		Model(&models.CompetitorDealer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_scraped_at":            at,
			"last_scrape_status":         status,
			"last_scrape_vehicles_count": vehiclesCount,
		}).Error
}

func (r *Repository) ListVehicles(ctx context.Context, dealerID uuid.UUID) ([]models.CompetitorVehicle, error) {
	var vehicles []models.CompetitorVehicle
	if err := r.client.DB().WithContext(ctx).
		Where("dealer_id = ?", dealerID).
		Order("last_seen_at desc").
		Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *Repository) ListVehiclesByStatus(ctx context.Context, dealerID uuid.UUID, status enums.VehicleStatus) ([]models.CompetitorVehicle, error) {
	var vehicles []models.CompetitorVehicle
	if err := r.client.DB().WithContext(ctx).
		Where("dealer_id = ? AND status = ?", dealerID, status).
		Order("last_seen_at desc").
		Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *Repository) FindVehicle(ctx context.Context, id uuid.UUID) (*models.CompetitorVehicle, error) {
	var vehicle models.CompetitorVehicle
	if err := r.client.DB().WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *Repository) InsertVehicle(ctx context.Context, vehicle *models.CompetitorVehicle) error {
	return r.client.DB().WithContext(ctx).Create(vehicle).Error
}

// UpdateVehicle applies a partial update. Callers pass column names, not
// struct fields, so zero values are written as given.
func (r *Repository) UpdateVehicle(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.client.DB().WithContext(ctx).
		Model(&models.CompetitorVehicle{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *Repository) InsertPriceHistory(ctx context.Context, entry *models.PriceHistoryEntry) error {
	return r.client.DB().WithContext(ctx).Create(entry).Error
}

func (r *Repository) ListPriceHistory(ctx context.Context, vehicleID uuid.UUID) ([]models.PriceHistoryEntry, error) {
	var entries []models.PriceHistoryEntry
	if err := r.client.DB().WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("created_at desc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Repository) InsertScrapeRunLog(ctx context.Context, log *models.ScrapeRunLog) error {
	return r.client.DB().WithContext(ctx).Create(log).Error
}

func (r *Repository) ListScrapeRunLogs(ctx context.Context, dealerID uuid.UUID, limit int) ([]models.ScrapeRunLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []models.ScrapeRunLog
	if err := r.client.DB().WithContext(ctx).
		Where("dealer_id = ?", dealerID).
		Order("created_at desc").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

package competitors

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/db"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/db/models"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/enums"
	pkgerrors "github.com/Autocity-R/autocity-sales-hub-sub004/pkg/errors"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/logger"
)

// serviceStore is the repository surface the read/admin service needs.
type serviceStore interface {
	FindDealer(ctx context.Context, id uuid.UUID) (*models.CompetitorDealer, error)
	ListDealers(ctx context.Context) ([]models.CompetitorDealer, error)
	CreateDealer(ctx context.Context, dealer *models.CompetitorDealer) error
	ListVehicles(ctx context.Context, dealerID uuid.UUID) ([]models.CompetitorVehicle, error)
	ListVehiclesByStatus(ctx context.Context, dealerID uuid.UUID, status enums.VehicleStatus) ([]models.CompetitorVehicle, error)
	FindVehicle(ctx context.Context, id uuid.UUID) (*models.CompetitorVehicle, error)
	ListPriceHistory(ctx context.Context, vehicleID uuid.UUID) ([]models.PriceHistoryEntry, error)
	ListScrapeRunLogs(ctx context.Context, dealerID uuid.UUID, limit int) ([]models.ScrapeRunLog, error)
}

// CreateDealerParams carries the input of the dealer registration endpoint.
type CreateDealerParams struct {
	Name          string
	ScrapeURL     string
	Tags          []string
	MissThreshold *int
}

// Service exposes the dealer and inventory read/admin operations behind the
// HTTP API.
type Service struct {
	logg  *logger.Logger
	store serviceStore
}

func NewService(logg *logger.Logger, store serviceStore) *Service {
	return &Service{logg: logg, store: store}
}

func (s *Service) CreateDealer(ctx context.Context, params CreateDealerParams) (DealerDTO, error) {
	if params.Name == "" || params.ScrapeURL == "" {
		return DealerDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name and scrape_url are required")
	}
	if params.MissThreshold != nil && *params.MissThreshold < 1 {
		return DealerDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "miss_threshold must be at least 1")
	}

	dealer := &models.CompetitorDealer{
		Name:          params.Name,
		ScrapeURL:     params.ScrapeURL,
		Tags:          params.Tags,
		MissThreshold: params.MissThreshold,
	}
	if err := s.store.CreateDealer(ctx, dealer); err != nil {
		if db.IsUniqueViolation(err, "") {
			return DealerDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "dealer already registered")
		}
		return DealerDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create dealer")
	}

	s.logg.Info(s.logg.WithDealerID(ctx, dealer.ID.String()), "competitor dealer registered")
	return DealerFromModel(dealer), nil
}

func (s *Service) ListDealers(ctx context.Context) ([]DealerDTO, error) {
	dealers, err := s.store.ListDealers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dealers")
	}
	dtos := make([]DealerDTO, 0, len(dealers))
	for i := range dealers {
		dtos = append(dtos, DealerFromModel(&dealers[i]))
	}
	return dtos, nil
}

func (s *Service) GetDealer(ctx context.Context, id uuid.UUID) (DealerDTO, error) {
	dealer, err := s.store.FindDealer(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DealerDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "competitor dealer not found")
		}
		return DealerDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dealer")
	}
	return DealerFromModel(dealer), nil
}

// ListVehicles returns a dealer's tracked inventory, optionally filtered by
// lifecycle status.
func (s *Service) ListVehicles(ctx context.Context, dealerID uuid.UUID, status *enums.VehicleStatus) ([]VehicleDTO, error) {
	if _, err := s.GetDealer(ctx, dealerID); err != nil {
		return nil, err
	}

	var vehicles []models.CompetitorVehicle
	var err error
	if status != nil {
		vehicles, err = s.store.ListVehiclesByStatus(ctx, dealerID, *status)
	} else {
		vehicles, err = s.store.ListVehicles(ctx, dealerID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}

	dtos := make([]VehicleDTO, 0, len(vehicles))
	for i := range vehicles {
		dtos = append(dtos, VehicleFromModel(&vehicles[i]))
	}
	return dtos, nil
}

func (s *Service) PriceHistory(ctx context.Context, vehicleID uuid.UUID) ([]PriceHistoryDTO, error) {
	if _, err := s.store.FindVehicle(ctx, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}

	entries, err := s.store.ListPriceHistory(ctx, vehicleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list price history")
	}
	dtos := make([]PriceHistoryDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, PriceHistoryFromModel(&entries[i]))
	}
	return dtos, nil
}

func (s *Service) ScrapeLogs(ctx context.Context, dealerID uuid.UUID, limit int) ([]ScrapeLogDTO, error) {
	if _, err := s.GetDealer(ctx, dealerID); err != nil {
		return nil, err
	}

	logs, err := s.store.ListScrapeRunLogs(ctx, dealerID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list scrape logs")
	}
	dtos := make([]ScrapeLogDTO, 0, len(logs))
	for i := range logs {
		dtos = append(dtos, ScrapeLogFromModel(&logs[i]))
	}
	return dtos, nil
}

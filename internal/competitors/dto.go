package competitors

import (
	"time"

	"github.com/google/uuid"

	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/db/models"
)

type DealerDTO struct {
	ID                      uuid.UUID  `json:"id"`
	Name                    string     `json:"name"`
	ScrapeURL               string     `json:"scrapeUrl"`
	Tags                    []string   `json:"tags"`
	MissThreshold           *int       `json:"missThreshold,omitempty"`
	LastScrapedAt           *time.Time `json:"lastScrapedAt,omitempty"`
	LastScrapeStatus        *string    `json:"lastScrapeStatus,omitempty"`
	LastScrapeVehiclesCount int        `json:"lastScrapeVehiclesCount"`
	CreatedAt               time.Time  `json:"createdAt"`
}

func DealerFromModel(m *models.CompetitorDealer) DealerDTO {
	dto := DealerDTO{
		ID:                      m.ID,
		Name:                    m.Name,
		ScrapeURL:               m.ScrapeURL,
		Tags:                    m.Tags,
		MissThreshold:           m.MissThreshold,
		LastScrapedAt:           m.LastScrapedAt,
		LastScrapeVehiclesCount: m.LastScrapeVehiclesCount,
		CreatedAt:               m.CreatedAt,
	}
	if dto.Tags == nil {
		dto.Tags = []string{}
	}
	if m.LastScrapeStatus != nil {
		status := m.LastScrapeStatus.String()
		dto.LastScrapeStatus = &status
	}
	return dto
}

type VehicleDTO struct {
	ID              uuid.UUID  `json:"id"`
	DealerID        uuid.UUID  `json:"dealerId"`
	Fingerprint     string     `json:"fingerprint"`
	ExternalURL     string     `json:"externalUrl"`
	Brand           string     `json:"brand"`
	Model           string     `json:"model"`
	Variant         *string    `json:"variant,omitempty"`
	BuildYear       *int       `json:"buildYear,omitempty"`
	Mileage         *int       `json:"mileage,omitempty"`
	Price           *string    `json:"price,omitempty"`
	FuelType        *string    `json:"fuelType,omitempty"`
	Transmission    *string    `json:"transmission,omitempty"`
	BodyType        *string    `json:"bodyType,omitempty"`
	Color           *string    `json:"color,omitempty"`
	ImageURL        *string    `json:"imageUrl,omitempty"`
	Status          string     `json:"status"`
	FirstSeenAt     time.Time  `json:"firstSeenAt"`
	LastSeenAt      time.Time  `json:"lastSeenAt"`
	SoldAt          *time.Time `json:"soldAt,omitempty"`
	TotalStockDays  int        `json:"totalStockDays"`
	ReappearedCount int        `json:"reappearedCount"`
}

func VehicleFromModel(m *models.CompetitorVehicle) VehicleDTO {
	return VehicleDTO{
		ID:              m.ID,
		DealerID:        m.DealerID,
		Fingerprint:     m.Fingerprint,
		ExternalURL:     m.ExternalURL,
		Brand:           m.Brand,
		Model:           m.Model,
		Variant:         m.Variant,
		BuildYear:       m.BuildYear,
		Mileage:         m.Mileage,
		Price:           decimalString(m.Price),
		FuelType:        m.FuelType,
		Transmission:    m.Transmission,
		BodyType:        m.BodyType,
		Color:           m.Color,
		ImageURL:        m.ImageURL,
		Status:          m.Status.String(),
		FirstSeenAt:     m.FirstSeenAt,
		LastSeenAt:      m.LastSeenAt,
		SoldAt:          m.SoldAt,
		TotalStockDays:  m.TotalStockDays,
		ReappearedCount: m.ReappearedCount,
	}
}

type PriceHistoryDTO struct {
	ID          uuid.UUID `json:"id"`
	VehicleID   uuid.UUID `json:"vehicleId"`
	OldPrice    string    `json:"oldPrice"`
	NewPrice    string    `json:"newPrice"`
	PriceChange string    `json:"priceChange"`
	CreatedAt   time.Time `json:"createdAt"`
}

func PriceHistoryFromModel(m *models.PriceHistoryEntry) PriceHistoryDTO {
	return PriceHistoryDTO{
		ID:          m.ID,
		VehicleID:   m.VehicleID,
		OldPrice:    m.OldPrice.StringFixed(2),
		NewPrice:    m.NewPrice.StringFixed(2),
		PriceChange: m.PriceChange.StringFixed(2),
		CreatedAt:   m.CreatedAt,
	}
}

type ScrapeLogDTO struct {
	ID                 uuid.UUID `json:"id"`
	DealerID           uuid.UUID `json:"dealerId"`
	Status             string    `json:"status"`
	VehiclesFound      int       `json:"vehiclesFound"`
	VehiclesNew        int       `json:"vehiclesNew"`
	VehiclesSold       int       `json:"vehiclesSold"`
	VehiclesReappeared int       `json:"vehiclesReappeared"`
	PriceChanges       int       `json:"priceChanges"`
	ErrorMessage       *string   `json:"errorMessage,omitempty"`
	DurationMS         int64     `json:"durationMs"`
	CreatedAt          time.Time `json:"createdAt"`
}

func ScrapeLogFromModel(m *models.ScrapeRunLog) ScrapeLogDTO {
	return ScrapeLogDTO{
		ID:                 m.ID,
		DealerID:           m.DealerID,
		Status:             m.Status.String(),
		VehiclesFound:      m.VehiclesFound,
		VehiclesNew:        m.VehiclesNew,
		VehiclesSold:       m.VehiclesSold,
		VehiclesReappeared: m.VehiclesReappeared,
		PriceChanges:       m.PriceChanges,
		ErrorMessage:       m.ErrorMessage,
		DurationMS:         m.DurationMS,
		CreatedAt:          m.CreatedAt,
	}
}

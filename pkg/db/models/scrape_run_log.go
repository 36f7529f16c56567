package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/enums"
)

// ScrapeRunLog is the append-only audit row written once per scrape run,
// success or failure.
type ScrapeRunLog struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DealerID           uuid.UUID          `gorm:"column:dealer_id;type:uuid;not null;index"`
	Status             enums.ScrapeStatus `gorm:"column:status;type:text;not null"`
	VehiclesFound      int                `gorm:"column:vehicles_found;not null;default:0"`
	VehiclesNew        int                `gorm:"column:vehicles_new;not null;default:0"`
	VehiclesSold       int                `gorm:"column:vehicles_sold;not null;default:0"`
	VehiclesReappeared int                `gorm:"column:vehicles_reappeared;not null;default:0"`
	PriceChanges       int                `gorm:"column:price_changes;not null;default:0"`
	ErrorMessage       *string            `gorm:"column:error_message"`
	DurationMS         int64              `gorm:"column:duration_ms;not null;default:0"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (ScrapeRunLog) TableName() string {
	return "competitor_scrape_logs"
}

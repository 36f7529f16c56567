package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/enums"
)

// CompetitorVehicle is the durable record for one fingerprinted listing at a
// competitor dealer. Rows are never deleted; lifecycle lives in Status.
type CompetitorVehicle struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DealerID      uuid.UUID `gorm:"column:dealer_id;type:uuid;not null;uniqueIndex:idx_dealer_fingerprint"`
	Fingerprint   string    `gorm:"column:fingerprint;not null;uniqueIndex:idx_dealer_fingerprint"`
	ExternalURL   string    `gorm:"column:external_url;not null"`
	Brand         string    `gorm:"column:brand;not null"`
	Model         string    `gorm:"column:model;not null"`
	Variant       *string   `gorm:"column:variant"`
	BuildYear     *int      `gorm:"column:build_year"`
	Mileage       *int      `gorm:"column:mileage"`
	MileageBucket int       `gorm:"column:mileage_bucket;not null;default:0"`

	Price        *decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	FuelType     *string          `gorm:"column:fuel_type"`
	Transmission *string          `gorm:"column:transmission"`
	BodyType     *string          `gorm:"column:body_type"`
	Color        *string          `gorm:"column:color"`
	ImageURL     *string          `gorm:"column:image_url"`

	Status                   enums.VehicleStatus `gorm:"column:status;type:text;not null;default:'in_stock'"`
	FirstSeenAt              time.Time           `gorm:"column:first_seen_at;not null"`
	LastSeenAt               time.Time           `gorm:"column:last_seen_at;not null"`
	SoldAt                   *time.Time          `gorm:"column:sold_at"`
	ConsecutiveMissingScrapes int                `gorm:"column:consecutive_missing_scrapes;not null;default:0"`
	TotalStockDays           int                 `gorm:"column:total_stock_days;not null;default:0"`
	ReappearedCount          int                 `gorm:"column:reappeared_count;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CompetitorVehicle) TableName() string {
	return "competitor_vehicles"
}

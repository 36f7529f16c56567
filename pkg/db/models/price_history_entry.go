package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceHistoryEntry is an append-only ledger row recording one detected price
// change. Rows are never mutated or deleted.
type PriceHistoryEntry struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VehicleID   uuid.UUID       `gorm:"column:vehicle_id;type:uuid;not null;index"`
	OldPrice    decimal.Decimal `gorm:"column:old_price;type:numeric(12,2);not null"`
	NewPrice    decimal.Decimal `gorm:"column:new_price;type:numeric(12,2);not null"`
	PriceChange decimal.Decimal `gorm:"column:price_change;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (PriceHistoryEntry) TableName() string {
	return "competitor_price_history"
}

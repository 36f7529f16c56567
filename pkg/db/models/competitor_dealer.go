package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/enums"
)

// CompetitorDealer is one tracked competitor storefront. Rows are created by
// an operator and only the last-scrape summary fields change afterwards.
type CompetitorDealer struct {
	ID                      uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                    string              `gorm:"column:name;not null"`
	ScrapeURL               string              `gorm:"column:scrape_url;not null"`
	Tags                    pq.StringArray      `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	MissThreshold           *int                `gorm:"column:miss_threshold"`
	LastScrapedAt           *time.Time          `gorm:"column:last_scraped_at"`
	LastScrapeStatus        *enums.ScrapeStatus `gorm:"column:last_scrape_status;type:text"`
	LastScrapeVehiclesCount int                 `gorm:"column:last_scrape_vehicles_count;not null;default:0"`
	CreatedAt               time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (CompetitorDealer) TableName() string {
	return "competitor_dealers"
}

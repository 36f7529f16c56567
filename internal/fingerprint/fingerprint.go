// Package fingerprint derives the stable identity key used to match a scraped
// listing against stored competitor inventory. Listing pages carry no vehicle
// IDs, so identity is composed from attributes that survive re-listing:
// brand, model, build year, a mileage bucket, and color.
package fingerprint

import (
	"fmt"
	"strings"

	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/scrape"
)

// UnknownColor is the sentinel used when a listing omits the color.
const UnknownColor = "ONBEKEND"

// MileageBucketSize groups odometer readings so that small corrections
// between scrapes do not change a vehicle's identity.
const MileageBucketSize = 2000

// Key is a vehicle identity key, unique per dealer.
type Key string

// Compute builds the identity key for a scraped vehicle. Missing build year
// maps to 0, missing mileage to bucket 0, missing color to UnknownColor.
func Compute(v scrape.Vehicle) Key {
	brand := strings.ToUpper(strings.TrimSpace(v.Brand))
	model := strings.ToUpper(strings.TrimSpace(v.Model))

	year := 0
	if v.BuildYear != nil {
		year = *v.BuildYear
	}

	bucket := 0
	if v.Mileage != nil && *v.Mileage > 0 {
		bucket = *v.Mileage / MileageBucketSize
	}

	color := UnknownColor
	if v.Color != nil {
		if c := strings.ToUpper(strings.TrimSpace(*v.Color)); c != "" {
			color = c
		}
	}

	return Key(fmt.Sprintf("%s|%s|%d|%d|%s", brand, model, year, bucket, color))
}

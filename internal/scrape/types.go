package scrape

import "github.com/shopspring/decimal"

// Vehicle is one listing extracted from a competitor page. Records live for a
// single scrape run; everything except brand, model and the listing URL is
// best-effort.
type Vehicle struct {
	Brand        string
	Model        string
	Variant      *string
	BuildYear    *int
	Mileage      *int
	Price        *decimal.Decimal
	FuelType     *string
	Transmission *string
	BodyType     *string
	Color        *string
	ImageURL     *string
	ExternalURL  string
}

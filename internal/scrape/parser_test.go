package scrape

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<!DOCTYPE html>
<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "ItemList",
  "itemListElement": [
    {
      "@type": "ListItem",
      "position": 1,
      "item": {
        "@type": "Car",
        "brand": {"@type": "Brand", "name": "Audi"},
        "model": "A4",
        "vehicleModelDate": "2020",
        "mileageFromOdometer": {"@type": "QuantitativeValue", "value": 51000, "unitCode": "KMT"},
        "offers": {"@type": "Offer", "price": "28950", "priceCurrency": "EUR"},
        "fuelType": "Benzine",
        "vehicleTransmission": "Automaat",
        "bodyType": "Sedan",
        "color": "Zwart",
        "image": "/img/audi-a4.jpg",
        "url": "/aanbod/audi-a4-2020"
      }
    },
    {
      "@type": "ListItem",
      "position": 2,
      "item": {
        "@type": "Vehicle",
        "brand": "Volkswagen",
        "name": "Golf",
        "offers": {"@type": "Offer", "price": 18500.50}
      }
    }
  ]
}
</script>
<script type="application/ld+json">
{ this block is broken json }
</script>
<script type="application/ld+json">
{"@type": "Organization", "name": "Some Dealer"}
</script>
</head><body></body></html>`

func TestParseItemList(t *testing.T) {
	parser := NewListingParser()
	vehicles := parser.Parse(listingPage, "https://dealer.example.nl/aanbod")

	require.Len(t, vehicles, 2)

	audi := vehicles[0]
	assert.Equal(t, "Audi", audi.Brand)
	assert.Equal(t, "A4", audi.Model)
	require.NotNil(t, audi.BuildYear)
	assert.Equal(t, 2020, *audi.BuildYear)
	require.NotNil(t, audi.Mileage)
	assert.Equal(t, 51000, *audi.Mileage)
	require.NotNil(t, audi.Price)
	assert.True(t, audi.Price.Equal(decimal.NewFromInt(28950)))
	require.NotNil(t, audi.Color)
	assert.Equal(t, "Zwart", *audi.Color)
	require.NotNil(t, audi.ImageURL)
	assert.Equal(t, "https://dealer.example.nl/img/audi-a4.jpg", *audi.ImageURL)
	assert.Equal(t, "https://dealer.example.nl/aanbod/audi-a4-2020", audi.ExternalURL)

	golf := vehicles[1]
	assert.Equal(t, "Volkswagen", golf.Brand)
	assert.Equal(t, "Golf", golf.Model)
	assert.Nil(t, golf.BuildYear)
	assert.Nil(t, golf.Mileage)
	require.NotNil(t, golf.Price)
	assert.True(t, golf.Price.Equal(decimal.NewFromFloat(18500.50)))
}

func TestParseGraphContainer(t *testing.T) {
	page := `<script type="application/ld+json">
	{"@context": "https://schema.org", "@graph": [
		{"@type": "Car", "brand": "BMW", "model": "320i", "vehicleModelDate": "2019-03", "mileageFromOdometer": "82.500 km"}
	]}
	</script>`

	vehicles := NewListingParser().Parse(page, "https://dealer.example.nl/")
	require.Len(t, vehicles, 1)
	assert.Equal(t, "BMW", vehicles[0].Brand)
	require.NotNil(t, vehicles[0].BuildYear)
	assert.Equal(t, 2019, *vehicles[0].BuildYear)
	require.NotNil(t, vehicles[0].Mileage)
	assert.Equal(t, 82500, *vehicles[0].Mileage)
}

func TestParseSkipsGarbage(t *testing.T) {
	parser := NewListingParser()
	assert.Empty(t, parser.Parse("<html><body>no structured data</body></html>", ""))
	assert.Empty(t, parser.Parse(`<script type="application/ld+json">null</script>`, ""))
	assert.Empty(t, parser.Parse(`<script type="application/ld+json">{"@type":"Car"}</script>`, ""))
}

func TestParseTypeList(t *testing.T) {
	page := `<script type="application/ld+json">
	{"@type": ["Product", "Car"], "brand": "Skoda", "model": "Octavia"}
	</script>`

	vehicles := NewListingParser().Parse(page, "")
	require.Len(t, vehicles, 1)
	assert.Equal(t, "Skoda", vehicles[0].Brand)
	assert.Equal(t, "Octavia", vehicles[0].Model)
}

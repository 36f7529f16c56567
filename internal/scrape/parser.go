package scrape

import (
	"encoding/json"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var jsonLDPattern = regexp.MustCompile(`(?is)<script[^>]*type\s*=\s*["']application/ld\+json["'][^>]*>(.*?)</script>`)

// ListingParser extracts vehicle listings from the JSON-LD blocks that
// competitor sites embed for search engines. Malformed blocks and non-vehicle
// entities are skipped; the parser never fails on bad markup.
type ListingParser struct{}

func NewListingParser() *ListingParser {
	return &ListingParser{}
}

// Parse scans the page markup and returns every schema.org Vehicle/Car found.
// pageURL is used to resolve relative listing links.
func (p *ListingParser) Parse(markup, pageURL string) []Vehicle {
	base, _ := url.Parse(pageURL)

	var vehicles []Vehicle
	for _, match := range jsonLDPattern.FindAllStringSubmatch(markup, -1) {
		raw := strings.TrimSpace(html.UnescapeString(match[1]))
		if raw == "" {
			continue
		}
		var doc any
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			continue
		}
		vehicles = append(vehicles, collectVehicles(doc, base)...)
	}
	return vehicles
}

// collectVehicles walks a decoded JSON-LD document, descending into @graph
// and ItemList containers.
func collectVehicles(doc any, base *url.URL) []Vehicle {
	var found []Vehicle
	switch node := doc.(type) {
	case []any:
		for _, item := range node {
			found = append(found, collectVehicles(item, base)...)
		}
	case map[string]any:
		if isVehicleType(node) {
			if v, ok := vehicleFromNode(node, base); ok {
				found = append(found, v)
			}
			return found
		}
		if graph, ok := node["@graph"].([]any); ok {
			for _, item := range graph {
				found = append(found, collectVehicles(item, base)...)
			}
		}
		if elements, ok := node["itemListElement"].([]any); ok {
			for _, item := range elements {
				entry, ok := item.(map[string]any)
				if !ok {
					continue
				}
				if nested, ok := entry["item"]; ok {
					found = append(found, collectVehicles(nested, base)...)
				} else {
					found = append(found, collectVehicles(entry, base)...)
				}
			}
		}
	}
	return found
}

func isVehicleType(node map[string]any) bool {
	switch typ := node["@type"].(type) {
	case string:
		return typ == "Vehicle" || typ == "Car"
	case []any:
		for _, t := range typ {
			if s, ok := t.(string); ok && (s == "Vehicle" || s == "Car") {
				return true
			}
		}
	}
	return false
}

func vehicleFromNode(node map[string]any, base *url.URL) (Vehicle, bool) {
	v := Vehicle{
		Brand: brandName(node["brand"]),
		Model: stringField(node, "model"),
	}
	if v.Model == "" {
		v.Model = stringField(node, "name")
	}
	if v.Brand == "" && v.Model == "" {
		return Vehicle{}, false
	}

	if variant := stringField(node, "vehicleConfiguration"); variant != "" {
		v.Variant = &variant
	}
	if year, ok := yearField(node["vehicleModelDate"]); ok {
		v.BuildYear = &year
	} else if year, ok := yearField(node["productionDate"]); ok {
		v.BuildYear = &year
	}
	if km, ok := mileageField(node["mileageFromOdometer"]); ok {
		v.Mileage = &km
	}
	if price, ok := priceField(node["offers"]); ok {
		v.Price = &price
	}
	if fuel := stringField(node, "fuelType"); fuel != "" {
		v.FuelType = &fuel
	}
	if trans := transmissionField(node["vehicleTransmission"]); trans != "" {
		v.Transmission = &trans
	}
	if body := stringField(node, "bodyType"); body != "" {
		v.BodyType = &body
	}
	if color := stringField(node, "color"); color != "" {
		v.Color = &color
	}
	if img := imageField(node["image"]); img != "" {
		resolved := resolveURL(base, img)
		v.ImageURL = &resolved
	}
	v.ExternalURL = resolveURL(base, stringField(node, "url"))

	return v, true
}

// brandName handles both `"brand": "Audi"` and `"brand": {"name": "Audi"}`.
func brandName(raw any) string {
	switch b := raw.(type) {
	case string:
		return strings.TrimSpace(b)
	case map[string]any:
		return stringField(b, "name")
	}
	return ""
}

func stringField(node map[string]any, key string) string {
	if s, ok := node[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// yearField accepts "2020", "2020-06", and bare numbers.
func yearField(raw any) (int, bool) {
	switch y := raw.(type) {
	case string:
		s := strings.TrimSpace(y)
		if len(s) > 4 {
			s = s[:4]
		}
		year, err := strconv.Atoi(s)
		if err != nil || year < 1900 || year > 2100 {
			return 0, false
		}
		return year, true
	case float64:
		year := int(y)
		if year < 1900 || year > 2100 {
			return 0, false
		}
		return year, true
	}
	return 0, false
}

// mileageField accepts a QuantitativeValue object, a plain number, or a
// string like "52.000 km".
func mileageField(raw any) (int, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return mileageField(m["value"])
	case float64:
		if m < 0 {
			return 0, false
		}
		return int(m), true
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, m)
		if cleaned == "" {
			return 0, false
		}
		km, err := strconv.Atoi(cleaned)
		if err != nil || km < 0 {
			return 0, false
		}
		return km, true
	}
	return 0, false
}

// priceField reads offers.price from a single Offer or the first of a list.
func priceField(raw any) (decimal.Decimal, bool) {
	switch offer := raw.(type) {
	case []any:
		for _, item := range offer {
			if price, ok := priceField(item); ok {
				return price, true
			}
		}
	case map[string]any:
		switch p := offer["price"].(type) {
		case float64:
			return decimal.NewFromFloat(p), true
		case string:
			cleaned := strings.ReplaceAll(strings.TrimSpace(p), ",", "")
			price, err := decimal.NewFromString(cleaned)
			if err != nil {
				return decimal.Decimal{}, false
			}
			return price, true
		}
	}
	return decimal.Decimal{}, false
}

func transmissionField(raw any) string {
	switch t := raw.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func imageField(raw any) string {
	switch img := raw.(type) {
	case string:
		return strings.TrimSpace(img)
	case []any:
		for _, item := range img {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	case map[string]any:
		return stringField(img, "url")
	}
	return ""
}

func resolveURL(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if base == nil {
		return parsed.String()
	}
	return base.ResolveReference(parsed).String()
}

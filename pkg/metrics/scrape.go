package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ScrapeRunMetrics records metadata for competitor scrape runs.
type ScrapeRunMetrics struct {
	duration      *prometheus.HistogramVec
	success       *prometheus.CounterVec
	failure       *prometheus.CounterVec
	vehiclesFound *prometheus.GaugeVec
	vehiclesSold  *prometheus.CounterVec
	priceChanges  *prometheus.CounterVec
}

// NewScrapeRunMetrics registers the scrape run metrics on the provided registerer.
func NewScrapeRunMetrics(reg prometheus.Registerer) *ScrapeRunMetrics {
	if reg == nil {
		return &ScrapeRunMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scrape_run_duration_seconds",
		Help:    "Duration of competitor scrape runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"dealer"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scrape_run_success",
		Help: "Successful competitor scrape runs.",
	}, []string{"dealer"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scrape_run_failure",
		Help: "Failed competitor scrape runs.",
	}, []string{"dealer"})
	vehiclesFound := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "scrape_vehicles_found",
		Help: "Vehicles found in the most recent scrape run.",
	}, []string{"dealer"})
	vehiclesSold := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scrape_vehicles_sold_total",
		Help: "Vehicles marked sold across scrape runs.",
	}, []string{"dealer"})
	priceChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scrape_price_changes_total",
		Help: "Price changes recorded across scrape runs.",
	}, []string{"dealer"})
	reg.MustRegister(duration, success, failure, vehiclesFound, vehiclesSold, priceChanges)
	return &ScrapeRunMetrics{
		duration:      duration,
		success:       success,
		failure:       failure,
		vehiclesFound: vehiclesFound,
		vehiclesSold:  vehiclesSold,
		priceChanges:  priceChanges,
	}
}

// ObserveDuration records the duration for the named dealer.
func (s *ScrapeRunMetrics) ObserveDuration(dealer string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(dealer)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named dealer.
func (s *ScrapeRunMetrics) IncSuccess(dealer string) {
	if s == nil || s.success == nil {
		return
	}
	s.success.WithLabelValues(normalizeLabel(dealer)).Inc()
}

// IncFailure increments the failure counter for the named dealer.
func (s *ScrapeRunMetrics) IncFailure(dealer string) {
	if s == nil || s.failure == nil {
		return
	}
	s.failure.WithLabelValues(normalizeLabel(dealer)).Inc()
}

// SetVehiclesFound records the vehicle count of the latest run.
func (s *ScrapeRunMetrics) SetVehiclesFound(dealer string, count int) {
	if s == nil || s.vehiclesFound == nil {
		return
	}
	s.vehiclesFound.WithLabelValues(normalizeLabel(dealer)).Set(float64(count))
}

// AddVehiclesSold adds to the sold counter for the named dealer.
func (s *ScrapeRunMetrics) AddVehiclesSold(dealer string, count int) {
	if s == nil || s.vehiclesSold == nil || count <= 0 {
		return
	}
	s.vehiclesSold.WithLabelValues(normalizeLabel(dealer)).Add(float64(count))
}

// AddPriceChanges adds to the price-change counter for the named dealer.
func (s *ScrapeRunMetrics) AddPriceChanges(dealer string, count int) {
	if s == nil || s.priceChanges == nil || count <= 0 {
		return
	}
	s.priceChanges.WithLabelValues(normalizeLabel(dealer)).Add(float64(count))
}

func normalizeLabel(dealer string) string {
	if dealer == "" {
		return "unknown"
	}
	return dealer
}

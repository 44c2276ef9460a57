package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the HDR bracket sync service.
type Metrics struct {
	registry                 *prometheus.Registry
	requestsTotal            prometheus.Counter
	errorsTotal              prometheus.Counter
	framesProcessedTotal     prometheus.Counter
	profileSwitchesTotal     prometheus.Counter
	framesRejectedTotal      *prometheus.CounterVec
	exposureAdjustmentsTotal prometheus.Counter
	configuredCameras        prometheus.Gauge
}

// New creates and registers Prometheus metrics for the service.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hdr_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hdr_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	framesProcessedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hdr_frames_processed_total",
		Help: "Total number of frames assigned a bracket identity",
	})
	profileSwitchesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hdr_profile_switches_total",
		Help: "Total number of profile switches observed in the frame stream",
	})
	framesRejectedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hdr_frames_rejected_total",
		Help: "Total number of frames rejected, by reason",
	}, []string{"reason"})
	exposureAdjustmentsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hdr_exposure_adjustments_total",
		Help: "Total number of profile 1 exposures moved to avoid duplicating profile 0",
	})
	configuredCameras := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hdr_configured_cameras",
		Help: "Number of cameras with configured HDR profiles",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		framesProcessedTotal,
		profileSwitchesTotal,
		framesRejectedTotal,
		exposureAdjustmentsTotal,
		configuredCameras,
	)

	return &Metrics{
		registry:                 registry,
		requestsTotal:            requestsTotal,
		errorsTotal:              errorsTotal,
		framesProcessedTotal:     framesProcessedTotal,
		profileSwitchesTotal:     profileSwitchesTotal,
		framesRejectedTotal:      framesRejectedTotal,
		exposureAdjustmentsTotal: exposureAdjustmentsTotal,
		configuredCameras:        configuredCameras,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncFramesProcessed increments the processed frames counter.
func (m *Metrics) IncFramesProcessed() {
	m.framesProcessedTotal.Inc()
}

// IncProfileSwitches increments the profile switch counter.
func (m *Metrics) IncProfileSwitches() {
	m.profileSwitchesTotal.Inc()
}

// IncFramesRejected increments the rejected frames counter for reason.
func (m *Metrics) IncFramesRejected(reason string) {
	m.framesRejectedTotal.WithLabelValues(reason).Inc()
}

// AddExposureAdjustments adds n to the exposure adjustments counter.
func (m *Metrics) AddExposureAdjustments(n int) {
	m.exposureAdjustmentsTotal.Add(float64(n))
}

// SetConfiguredCameras sets the configured cameras gauge.
func (m *Metrics) SetConfiguredCameras(n int) {
	m.configuredCameras.Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values (e.g. configured cameras).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}

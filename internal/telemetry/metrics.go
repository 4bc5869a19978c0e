package telemetry

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tournevent/shipcost/pkg/shipping"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	QuotesTotal        *prometheus.CounterVec
	QuoteDuration      *prometheus.HistogramVec
	ConfigGaps         *prometheus.CounterVec
	OversizedFallbacks prometheus.Counter
	DataWarnings       prometheus.Counter
}

// NewMetrics creates and registers Prometheus metrics on reg. A nil reg uses
// the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		QuotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipcost_quotes_total",
				Help: "Total number of shipping computations by operation, profile, and status",
			},
			[]string{"operation", "profile", "status"},
		),
		QuoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shipcost_quote_duration_seconds",
				Help:    "Shipping computation duration in seconds by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		ConfigGaps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipcost_config_gaps_total",
				Help: "Orders that could not be priced because of the rate configuration, by code",
			},
			[]string{"code"},
		),
		OversizedFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "shipcost_oversized_fallbacks_total",
				Help: "Orders packed into the largest box because no box was big enough",
			},
		),
		DataWarnings: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "shipcost_catalog_data_warnings_total",
				Help: "Catalog weight or dimension values that could not be parsed",
			},
		),
	}
}

// Status labels.
const (
	StatusOK      = "ok"
	StatusPending = "pending"
	StatusGap     = "config_gap"
	StatusError   = "error"
)

// Status classifies an outcome for the status label.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case shipping.IsMissingInput(err):
		return StatusPending
	case shipping.IsConfigurationGap(err):
		return StatusGap
	default:
		return StatusError
	}
}

// RecordQuote records one shipping computation and its side signals.
func (m *Metrics) RecordQuote(operation, profile string, res *shipping.ShippingCostResult, err error, duration float64) {
	m.QuotesTotal.WithLabelValues(operation, profile, Status(err)).Inc()
	m.QuoteDuration.WithLabelValues(operation).Observe(duration)

	var cfgErr *shipping.ConfigError
	if errors.As(err, &cfgErr) {
		m.ConfigGaps.WithLabelValues(cfgErr.Code).Inc()
	}
	if res != nil {
		if res.Oversized {
			m.OversizedFallbacks.Inc()
		}
		m.DataWarnings.Add(float64(len(res.Warnings)))
	}
}

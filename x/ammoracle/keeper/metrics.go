package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the ammoracle module's Prometheus metrics. Mirrors the
// repository's single-collector-per-module convention (see
// metrics/prometheus.go) at a scale appropriate to one ring oracle rather
// than the whole exchange.
type Collector struct {
	ObservationsTotal  *prometheus.CounterVec
	ObservationsStored *prometheus.GaugeVec
	QueryLatency       *prometheus.HistogramVec
	QueryErrorsTotal   *prometheus.CounterVec
}

var (
	collectorOnce sync.Once
	collector     *Collector
)

// NewCollector returns the module's singleton Collector, registering its
// metrics with the default Prometheus registry on first use.
func NewCollector() *Collector {
	collectorOnce.Do(func() {
		collector = &Collector{
			ObservationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ammoracle",
				Name:      "observations_total",
				Help:      "Total number of price_sqrt samples ingested via observe.",
			}, []string{}),
			ObservationsStored: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "ammoracle",
				Name:      "observations_stored",
				Help:      "Current count of valid ring slots.",
			}, []string{}),
			QueryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "ammoracle",
				Name:      "query_latency_seconds",
				Help:      "Latency of observation and observation_intervals queries.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"query"}),
			QueryErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ammoracle",
				Name:      "query_errors_total",
				Help:      "Total number of failed queries, by query.",
			}, []string{"query"}),
		}
		prometheus.MustRegister(
			collector.ObservationsTotal,
			collector.ObservationsStored,
			collector.QueryLatency,
			collector.QueryErrorsTotal,
		)
	})
	return collector
}

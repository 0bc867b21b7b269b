package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics HTTP 层指标，注册到传入的 registry
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	LoadedAirlines  prometheus.Gauge
	LongTableRows   prometheus.Gauge
	ExportBytes     prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "airline_safety_http_requests_total", Help: "Total HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "airline_safety_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		LoadedAirlines: factory.NewGauge(prometheus.GaugeOpts{
			Name: "airline_safety_loaded_airlines", Help: "Number of airline rows loaded at startup.",
		}),
		LongTableRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "airline_safety_long_table_rows", Help: "Number of rows in the long metric table.",
		}),
		ExportBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "airline_safety_export_bytes_total", Help: "Total bytes of xlsx exports served.",
		}),
	}
}

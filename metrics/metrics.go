package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the service's Prometheus instruments over a private
// registry.
type Collector struct {
	reg *prometheus.Registry

	Requests        *prometheus.CounterVec // view label: kpi|heatmap|...
	RequestErrs     *prometheus.CounterVec
	RequestDuration prometheus.Histogram

	RowsSkipped prometheus.Counter

	AlertsPublished  prometheus.Counter
	AlertPublishErrs prometheus.Counter
	NATSConnected    prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railway_requests_total",
			Help: "Total analytics requests served, by view.",
		}, []string{"view"}),
		RequestErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railway_request_errors_total",
			Help: "Total failed analytics requests, by view.",
		}, []string{"view"}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "railway_request_duration_seconds",
			Help:    "Duration of analytics request handling.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railway_rows_skipped_total",
			Help: "Total malformed rows dropped during aggregation.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railway_alerts_published_total",
			Help: "Total alert messages published to NATS.",
		}),
		AlertPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railway_alert_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "railway_nats_connected",
			Help: "1 if the NATS connection is established, 0 otherwise.",
		}),
	}

	reg.MustRegister(
		c.Requests, c.RequestErrs, c.RequestDuration,
		c.RowsSkipped,
		c.AlertsPublished, c.AlertPublishErrs, c.NATSConnected,
	)
	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}

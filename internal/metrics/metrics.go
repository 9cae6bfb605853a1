// internal/metrics/metrics.go
//
// Package metrics holds the Prometheus instruments for the host and the
// profile component.  Collectors register with the default registry via
// promauto, so main only has to mount promhttp.Handler on /metrics.
//
// Label values
// ------------
//   - tenant loads:     result ∈ {ok, not_found, error}
//   - tenant evictions: reason ∈ {idle, lru, shutdown}
//   - profile saves:    result ∈ {ok, error}
//   - profile views:    device ∈ {desktop, mobile, tablet, bot, other}
//   - code rewrites:    kind   ∈ {custom, sandbox}
//   - media uploads:    result ∈ {ok, too_large, unsupported, svg, error}
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "linkcard"

var (
	TenantsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "tenant", Name: "active",
		Help: "Tenants currently loaded in memory.",
	})

	TenantLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "tenant", Name: "loads_total",
		Help: "Cold tenant loads by result.",
	}, []string{"result"})

	TenantLoadSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "tenant", Name: "load_seconds",
		Help:    "Time spent on one cold tenant load.",
		Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	})

	TenantEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "tenant", Name: "evictions_total",
		Help: "Tenants dropped from the cache by reason.",
	}, []string{"reason"})

	ProfileSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "profile", Name: "saves_total",
		Help: "Profile saves by result.",
	}, []string{"result"})

	ProfileViews = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "profile", Name: "views_total",
		Help: "Public card renders by device class.",
	}, []string{"device"})

	BackgroundCodeRewritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "profile", Name: "code_rewritten_total",
		Help: "Saves where sanitising changed submitted background code.",
	}, []string{"kind"})

	MediaUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "media", Name: "uploads_total",
		Help: "Upload attempts by result.",
	}, []string{"result"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "http", Name: "requests_total",
		Help: "Served requests by method and status class.",
	}, []string{"method", "class"})

	HTTPSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "http", Name: "request_seconds",
		Help:    "Request latency by method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

// Package metrics exposes Prometheus collectors for the regatta results API.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	upstreamFetchesTotal       *prometheus.CounterVec
	upstreamBytesTotal         *prometheus.CounterVec
	crewPagesTotal             *prometheus.CounterVec
	crewFetchesInflight        prometheus.Gauge
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		upstreamFetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regatta_upstream_fetches_total",
				Help: "Total number of upstream page fetches, labeled by site and status.",
			},
			[]string{"site", "status"},
		)

		upstreamBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regatta_upstream_bytes_total",
				Help: "Total number of bytes fetched from upstream, labeled by site.",
			},
			[]string{"site"},
		)

		crewPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regatta_crew_pages_total",
				Help: "Total number of crew pages processed, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		crewFetchesInflight = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "regatta_crew_fetches_inflight",
				Help: "Number of crew page fetches currently in flight.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
			},
			[]string{"method", "route"},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch records one upstream fetch. status is the HTTP status code, or
// 0 when no response arrived.
func ObserveFetch(site string, status int, bytesFetched int) {
	Init()
	sanitizedSite := SanitizeSite(site)
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	upstreamFetchesTotal.WithLabelValues(sanitizedSite, label).Inc()
	if bytesFetched > 0 {
		upstreamBytesTotal.WithLabelValues(sanitizedSite).Add(float64(bytesFetched))
	}
}

// ObserveCrewPage counts a crew page by outcome (primary, fallback, failed).
func ObserveCrewPage(outcome string) {
	Init()
	crewPagesTotal.WithLabelValues(outcome).Inc()
}

// IncCrewFetches increments the in-flight crew fetch gauge.
func IncCrewFetches() {
	Init()
	crewFetchesInflight.Inc()
}

// DecCrewFetches decrements the in-flight crew fetch gauge.
func DecCrewFetches() {
	Init()
	crewFetchesInflight.Dec()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation. Metrics() measures request
// counts, latencies, in-flight concurrency, and response sizes per registered
// route. The "path" label uses c.FullPath() so raw URLs cannot blow up label
// cardinality; unmatched requests fall back to the raw path.
//
// Two domain counters track the funnel itself: scans and expanded reports by
// outcome. Handlers record them via ObserveScan and ObserveReport.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// Status is omitted from the latency histogram to keep cardinality low.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_response_size_bytes",
			Help: "Size of HTTP responses in bytes.",
			Buckets: []float64{
				200, 500, 1 << 10, 2 << 10, 5 << 10,
				10 << 10, 25 << 10, 50 << 10,
				100 << 10, 250 << 10, 500 << 10,
				1 << 20,
			},
		},
		[]string{"method", "path"},
	)

	// scanReqs counts website scans by outcome: ok, invalid_input,
	// quota_exceeded, unreachable, error.
	scanReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "businessscan_scans_total",
			Help: "Total number of website scan requests by outcome.",
		},
		[]string{"outcome"},
	)

	// reportReqs counts expanded reports by outcome and whether the email
	// copy was dispatched.
	reportReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "businessscan_reports_total",
			Help: "Total number of expanded report requests by outcome.",
		},
		[]string{"outcome", "email_sent"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRespSize, scanReqs, reportReqs)
}

// Metrics returns a Gin middleware that instruments requests with Prometheus.
//
// Usage:
//
//	r := gin.New()
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		dur := time.Since(start).Seconds()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())
		size := c.Writer.Size() // -1 when unknown

		httpReqs.WithLabelValues(method, path, status).Inc()
		httpLat.WithLabelValues(method, path).Observe(dur)
		if size >= 0 {
			httpRespSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}

// ObserveScan records the outcome of one scan request.
func ObserveScan(outcome string) {
	scanReqs.WithLabelValues(outcome).Inc()
}

// ObserveReport records the outcome of one expanded report request.
func ObserveReport(outcome string, emailSent bool) {
	reportReqs.WithLabelValues(outcome, strconv.FormatBool(emailSent)).Inc()
}

// Package metrics exposes Prometheus counters for the HTTP layer and the AI
// gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type Collector struct {
	httpRequests *prometheus.CounterVec
	aiRequests   *prometheus.CounterVec
	aiLatency    *prometheus.HistogramVec
	uploads      *prometheus.CounterVec
}

// NewCollector registers every metric on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		aiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_ai_requests_total",
			Help: "Model gateway calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		aiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "resume_ai_request_duration_seconds",
			Help:    "Model gateway call latency.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"operation"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_uploads_total",
			Help: "Resume uploads by detected content type and outcome.",
		}, []string{"content_type", "outcome"}),
	}

	reg.MustRegister(c.httpRequests, c.aiRequests, c.aiLatency, c.uploads)
	return c
}

func (c *Collector) RecordHTTPRequest(route, method string, status int) {
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

func (c *Collector) RecordAIRequest(operation, outcome string, d time.Duration) {
	c.aiRequests.WithLabelValues(operation, outcome).Inc()
	c.aiLatency.WithLabelValues(operation).Observe(d.Seconds())
}

func (c *Collector) RecordUpload(contentType, outcome string) {
	c.uploads.WithLabelValues(contentType, outcome).Inc()
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Package metrics holds the Prometheus instruments for feed fetching and
// link preview resolution.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "feedview"

type Metrics struct {
	// Orchestration
	FetchTotal      *prometheus.CounterVec
	DecodeDropped   *prometheus.CounterVec
	PostsClassified *prometheus.CounterVec
	ArchiveFailures prometheus.Counter

	// Link previews
	PreviewRequests  *prometheus.CounterVec
	PreviewResults   *prometheus.CounterVec
	PreviewsInFlight prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers every instrument on reg. Use prometheus.NewRegistry() in tests
// to avoid duplicate registration on the default registry.
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Feed and thread fetches by operation and result",
		}, []string{"op", "result"}),
		DecodeDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_dropped_total",
			Help:      "Listing children dropped because they failed to decode",
		}, []string{"entity"}),
		PostsClassified: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_classified_total",
			Help:      "Published posts by content kind",
		}, []string{"kind"}),
		ArchiveFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_failures_total",
			Help:      "Feed archive writes that failed",
		}),
		PreviewRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preview_requests_total",
			Help:      "Preview resolutions requested, by whether a fetch was started or coalesced",
		}, []string{"outcome"}),
		PreviewResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preview_results_total",
			Help:      "Completed preview fetches by result",
		}, []string{"result"}),
		PreviewsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "previews_inflight",
			Help:      "Preview document fetches currently running",
		}),
		gatherer: gatherer,
	}
}

// NewDefault registers on the process-wide default registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewIsolated registers on a fresh registry.
func NewIsolated() *Metrics {
	reg := prometheus.NewRegistry()
	return New(reg, reg)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

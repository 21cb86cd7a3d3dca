// Package metrics exposes Prometheus counters for capture, upload and feed activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "citypeople"

// Metrics is a private registry with the service collectors.
type Metrics struct {
	reg *prometheus.Registry

	Recordings     *prometheus.CounterVec // outcome: recorded | discarded | failed
	RecordDuration prometheus.Histogram
	Uploads        *prometheus.CounterVec // outcome: ok | rejected | failed
	UploadSeconds  prometheus.Histogram
	FeedFetches    *prometheus.CounterVec // source: remote | cache
	FeedOwners     prometheus.Gauge
	WSSubscribers  prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		Recordings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recordings_total",
			Help:      "Finished recordings by outcome.",
		}, []string{"outcome"}),
		RecordDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recording_duration_seconds",
			Help:      "Duration of emitted recordings.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60},
		}),
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Upload attempts by outcome.",
		}, []string{"outcome"}),
		UploadSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_seconds",
			Help:      "Wall time of upload attempts.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		FeedFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetches_total",
			Help:      "Feed loads by source.",
		}, []string{"source"}),
		FeedOwners: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_owners",
			Help:      "Owner groups in the last loaded feed.",
		}),
		WSSubscribers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_subscribers",
			Help:      "Connected event stream subscribers.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveUpload records one upload attempt. Nil receivers are ignored.
func (m *Metrics) ObserveUpload(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(outcome).Inc()
	m.UploadSeconds.Observe(time.Since(started).Seconds())
}

// ObserveRecording records a finished recording. Nil receivers are ignored.
func (m *Metrics) ObserveRecording(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Recordings.WithLabelValues(outcome).Inc()
	if outcome == "recorded" {
		m.RecordDuration.Observe(d.Seconds())
	}
}

// ObserveFeed records a feed load. Nil receivers are ignored.
func (m *Metrics) ObserveFeed(source string, owners int) {
	if m == nil {
		return
	}
	m.FeedFetches.WithLabelValues(source).Inc()
	m.FeedOwners.Set(float64(owners))
}

// Subscribers adjusts the subscriber gauge. Nil receivers are ignored.
func (m *Metrics) Subscribers(delta int) {
	if m == nil {
		return
	}
	m.WSSubscribers.Add(float64(delta))
}

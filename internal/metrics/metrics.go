// Package metrics exposes prometheus collectors for quotes and sync.
//
// All methods are safe on a nil *Metrics so components can run without them.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quotes"

// Trigger labels for sync runs
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// Source labels for added quotes
const (
	SourceManual = "manual"
	SourceImport = "import"
	SourceSync   = "sync"
)

type Metrics struct {
	registry *prometheus.Registry

	syncRuns     *prometheus.CounterVec
	syncDuration prometheus.Histogram
	quotesAdded  *prometheus.CounterVec
	pushes       *prometheus.CounterVec
}

// New creates the collectors on a dedicated registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		syncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "Reconcile runs by trigger and outcome.",
		}, []string{"trigger", "status"}),
		syncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of reconcile runs.",
			Buckets:   prometheus.DefBuckets,
		}),
		quotesAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "added_total",
			Help:      "Quotes appended to the collection by source.",
		}, []string{"source"}),
		pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_total",
			Help:      "Outbound quote pushes by outcome.",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.syncRuns,
		m.syncDuration,
		m.quotesAdded,
		m.pushes,
	)
	return m
}

// RegisterCollectionSize publishes the current collection length as a gauge.
func (m *Metrics) RegisterCollectionSize(size func() int) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "collection_size",
		Help:      "Number of quotes in the collection.",
	}, func() float64 {
		return float64(size())
	}))
}

func (m *Metrics) ObserveSync(trigger string, duration time.Duration, merged int, err error) {
	if m == nil {
		return
	}
	m.syncRuns.WithLabelValues(trigger, status(err)).Inc()
	m.syncDuration.Observe(duration.Seconds())
	m.AddQuotes(SourceSync, merged)
}

func (m *Metrics) AddQuotes(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.quotesAdded.WithLabelValues(source).Add(float64(n))
}

func (m *Metrics) ObservePush(err error) {
	if m == nil {
		return
	}
	m.pushes.WithLabelValues(status(err)).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func status(err error) string {
	if err != nil {
		return "failed"
	}
	return "success"
}

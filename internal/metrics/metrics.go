// Package metrics exposes Prometheus metrics for the portfolio site.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portfolio"

// Manager owns the site's collectors on its own registry.
type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	layouts            *prometheus.CounterVec
	sectionChanges     *prometheus.CounterVec
	sectionObserves    prometheus.Counter
	activeTrackers     prometheus.Gauge
	trackersReleased   prometheus.Counter
	contactSubmissions *prometheus.CounterVec
	prefChanges        *prometheus.CounterVec
	visitorsPruned     prometheus.Counter
}

// New registers every collector on a fresh registry.
func New() *Manager {
	reg := prometheus.NewRegistry()
	m := &Manager{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "skills", Name: "layouts_total",
			Help: "Skill layouts computed by viewport mode.",
		}, []string{"mode"}),
		sectionChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sections", Name: "active_changes_total",
			Help: "Active section transitions by target section.",
		}, []string{"section"}),
		sectionObserves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sections", Name: "observations_total",
			Help: "Section geometry batches observed.",
		}),
		activeTrackers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "sections", Name: "trackers",
			Help: "Live per-visitor section trackers.",
		}),
		trackersReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sections", Name: "trackers_released_total",
			Help: "Idle section trackers released.",
		}),
		contactSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "contact", Name: "submissions_total",
			Help: "Contact submissions by outcome.",
		}, []string{"outcome"}),
		prefChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "prefs", Name: "changes_total",
			Help: "Preference toggles by kind and new value.",
		}, []string{"kind", "value"}),
		visitorsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "visitors", Name: "pruned_total",
			Help: "Visitor rows removed by retention cleanup.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpRequestDuration,
		m.layouts, m.sectionChanges, m.sectionObserves, m.activeTrackers, m.trackersReleased,
		m.contactSubmissions, m.prefChanges, m.visitorsPruned,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

func (m *Manager) ObserveHTTP(route, method, status string, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Manager) RecordLayout(mode string) { m.layouts.WithLabelValues(mode).Inc() }

func (m *Manager) RecordSectionChange(id string) { m.sectionChanges.WithLabelValues(id).Inc() }

func (m *Manager) RecordObservation() { m.sectionObserves.Inc() }

func (m *Manager) SetActiveTrackers(n int) { m.activeTrackers.Set(float64(n)) }

func (m *Manager) RecordTrackersReleased(n int) { m.trackersReleased.Add(float64(n)) }

func (m *Manager) RecordContact(outcome string) { m.contactSubmissions.WithLabelValues(outcome).Inc() }

func (m *Manager) RecordPrefChange(kind, value string) { m.prefChanges.WithLabelValues(kind, value).Inc() }

func (m *Manager) RecordVisitorsPruned(n int64) { m.visitorsPruned.Add(float64(n)) }

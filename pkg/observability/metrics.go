package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implements every hook interface on top of Prometheus collectors.
type Metrics struct {
	loads         *prometheus.CounterVec
	loadDuration  prometheus.Histogram
	loadedRows    prometheus.Gauge
	filterKept    prometheus.Histogram
	resolves      *prometheus.CounterVec
	resolveLevel1 prometheus.Histogram
	resolveTime   prometheus.Histogram
	cacheEvents   *prometheus.CounterVec
	cacheBytes    prometheus.Counter
	requests      *prometheus.CounterVec
	reqDuration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prgraph_dataset_loads_total",
			Help: "Dataset loads by outcome.",
		}, []string{"outcome"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "prgraph_dataset_load_duration_seconds",
			Help:    "Time spent reading and validating a dataset.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		loadedRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prgraph_dataset_rows",
			Help: "Rows in the most recently loaded dataset.",
		}),
		filterKept: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "prgraph_filter_kept_ratio",
			Help:    "Share of rows kept by a category filter.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prgraph_resolutions_total",
			Help: "Two-hop resolutions by scope and whether level 1 was empty.",
		}, []string{"scope", "empty"}),
		resolveLevel1: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "prgraph_resolution_level1_size",
			Help:    "Number of level-1 connections per resolution.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		resolveTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "prgraph_resolution_duration_seconds",
			Help:    "Time spent resolving a two-hop neighbourhood.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prgraph_cache_events_total",
			Help: "Cache hits, misses and writes by key type.",
		}, []string{"event", "key_type"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prgraph_cache_written_bytes_total",
			Help: "Bytes written to the result cache.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prgraph_http_requests_total",
			Help: "HTTP responses by method, route and status.",
		}, []string{"method", "route", "status"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "prgraph_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.loads, m.loadDuration, m.loadedRows, m.filterKept,
		m.resolves, m.resolveLevel1, m.resolveTime,
		m.cacheEvents, m.cacheBytes,
		m.requests, m.reqDuration,
	)
	return m
}

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, rows int, d time.Duration, err error) {
	if err != nil {
		m.loads.WithLabelValues("error").Inc()
		return
	}
	m.loads.WithLabelValues("ok").Inc()
	m.loadDuration.Observe(d.Seconds())
	m.loadedRows.Set(float64(rows))
}

func (m *Metrics) OnFilter(_ context.Context, _ string, total, kept int) {
	if total == 0 {
		return
	}
	m.filterKept.Observe(float64(kept) / float64(total))
}

func (m *Metrics) OnResolve(_ context.Context, scope string, level1, _ int, d time.Duration) {
	m.resolves.WithLabelValues(scope, strconv.FormatBool(level1 == 0)).Inc()
	m.resolveLevel1.Observe(float64(level1))
	m.resolveTime.Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues("hit", keyType).Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues("miss", keyType).Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues("set", keyType).Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.reqDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)

package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 是引擎的可观测指标。nil *Metrics 是合法的（全部打点为 no-op），
// 不想接 Prometheus 的调用方不需要传 registry。
type Metrics struct {
	buildDuration prometheus.Histogram
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	invalidations prometheus.Counter
}

// NewMetrics 在 reg 上注册引擎指标。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "reelkit",
			Name:      "model_build_seconds",
			Help:      "Wall time of full hybrid model builds.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: "reelkit",
			Name:      "model_cache_hits_total",
			Help:      "Model cache lookups served from memory.",
		}),
		cacheMisses: f.NewCounter(prometheus.CounterOpts{
			Namespace: "reelkit",
			Name:      "model_cache_misses_total",
			Help:      "Model cache lookups that required a build.",
		}),
		invalidations: f.NewCounter(prometheus.CounterOpts{
			Namespace: "reelkit",
			Name:      "model_invalidations_total",
			Help:      "Explicit model invalidations.",
		}),
	}
}

func (m *Metrics) observeBuild(d time.Duration) {
	if m == nil {
		return
	}
	m.buildDuration.Observe(d.Seconds())
}

func (m *Metrics) cacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) cacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) invalidation() {
	if m == nil {
		return
	}
	m.invalidations.Inc()
}

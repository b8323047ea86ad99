// Package metrics exposes Prometheus counters and histograms for analysis runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements the service and loader metric hooks using Prometheus.
type Recorder struct {
	runsTotal      *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	priceFallbacks *prometheus.CounterVec
	featureCache   *prometheus.CounterVec
	sinkFailures   *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg uses the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		runsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksentix_runs_total",
				Help: "Analysis runs by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		runDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stocksentix_run_duration_seconds",
				Help:    "Duration of analysis runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		priceFallbacks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksentix_price_fallbacks_total",
				Help: "Price requests served from the synthetic series",
			},
			[]string{"ticker"},
		),
		featureCache: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksentix_feature_cache_total",
				Help: "Feature dataset cache lookups by result",
			},
			[]string{"result"},
		),
		sinkFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksentix_sink_failures_total",
				Help: "Run records that a sink failed to persist",
			},
			[]string{"sink"},
		),
	}
}

// ObserveRun records one run and its latency. outcome is "ok" or an error kind.
func (r *Recorder) ObserveRun(mode, outcome string, d time.Duration) {
	r.runsTotal.WithLabelValues(mode, outcome).Inc()
	r.runDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (r *Recorder) PriceFallback(ticker string) {
	r.priceFallbacks.WithLabelValues(ticker).Inc()
}

func (r *Recorder) FeatureCacheHit() { r.featureCache.WithLabelValues("hit").Inc() }

func (r *Recorder) FeatureCacheMiss() { r.featureCache.WithLabelValues("miss").Inc() }

func (r *Recorder) SinkFailure(sink string) {
	r.sinkFailures.WithLabelValues(sink).Inc()
}

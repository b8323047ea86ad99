package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveRun("correlation", "ok", 150*time.Millisecond)
	r.ObserveRun("correlation", "ok", 10*time.Millisecond)
	r.ObserveRun("csv_prediction", "insufficient_data", time.Second)
	r.PriceFallback("AAPL")
	r.FeatureCacheHit()
	r.FeatureCacheMiss()
	r.FeatureCacheMiss()
	r.SinkFailure("kafka")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("correlation", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("csv_prediction", "insufficient_data")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.priceFallbacks.WithLabelValues("AAPL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.featureCache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.featureCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sinkFailures.WithLabelValues("kafka")))

	n, err := testutil.GatherAndCount(reg, "stocksentix_run_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}

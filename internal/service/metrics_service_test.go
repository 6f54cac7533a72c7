package service

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceCacheHitRatio(t *testing.T) {
	m := NewMetricsService()

	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)

	assert.InDelta(t, 0.75, testutil.ToFloat64(m.cacheHitRatio), 1e-9)
	assert.InDelta(t, 3, testutil.ToFloat64(m.cacheHits), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.cacheMisses), 1e-9)
}

func TestMetricsServiceCacheHitRatioAllMisses(t *testing.T) {
	m := NewMetricsService()

	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)

	assert.InDelta(t, 0, testutil.ToFloat64(m.cacheHitRatio), 1e-9)
}

func TestMetricsServiceNilReceiverNoPanic(t *testing.T) {
	var m *MetricsService

	assert.NotPanics(t, func() {
		m.RecordCacheOperation(true, time.Millisecond)
		m.ObserveCacheWrite(time.Millisecond)
		m.ObserveDBQuery("villages_list", time.Millisecond)
	})
}

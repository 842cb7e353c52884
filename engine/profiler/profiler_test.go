package profiler

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsAtInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	fps := prometheus.NewGauge(prometheus.GaugeOpts{Name: "fps"})
	heap := prometheus.NewGauge(prometheus.GaugeOpts{Name: "heap"})
	p := NewProfiler(withClock(clock.now), WithInterval(time.Second), WithGauges(fps, heap))

	for range 10 {
		clock.t = clock.t.Add(50 * time.Millisecond)
		require.False(t, p.Tick())
	}
	assert.Zero(t, p.Last().FPS)

	clock.t = clock.t.Add(600 * time.Millisecond)
	require.True(t, p.Tick())

	stats := p.Last()
	assert.InDelta(t, 10, stats.FPS, 1e-9)
	assert.Greater(t, stats.HeapMB, 0.0)
	assert.InDelta(t, stats.FPS, testutil.ToFloat64(fps), 1e-9)
	assert.Greater(t, testutil.ToFloat64(heap), 0.0)
}

func TestTickResetsWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(withClock(clock.now), WithInterval(time.Second))

	clock.t = clock.t.Add(2 * time.Second)
	require.True(t, p.Tick())
	assert.InDelta(t, 0.5, p.Last().FPS, 1e-9)

	clock.t = clock.t.Add(time.Second / 2)
	assert.False(t, p.Tick())
	clock.t = clock.t.Add(time.Second / 2)
	require.True(t, p.Tick())
	assert.InDelta(t, 2, p.Last().FPS, 1e-9)
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithLogger(nil))
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.logger)
}

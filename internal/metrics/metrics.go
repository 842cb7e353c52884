package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Carmen-Shannon/contraption/engine/renderer"
	"github.com/Carmen-Shannon/contraption/engine/transform"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "contraption"

// Metrics holds the Prometheus collectors for one engine instance. Each
// instance owns its registry so tests and multiple engines never collide on
// the global default registry.
//
// Every method is safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	Frames              prometheus.Counter
	FrameSeconds        prometheus.Histogram
	Draws               prometheus.Gauge
	Culled              prometheus.Gauge
	MatrixRecomputes    prometheus.Counter
	DirectionRecomputes prometheus.Counter
	CommandsApplied     prometheus.Counter
	SceneReloads        prometheus.Counter
	FPS                 prometheus.Gauge
	HeapBytes           prometheus.Gauge
	InspectorRequests   *prometheus.CounterVec
}

// New creates the collectors and registers them, plus the Go runtime and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of frames drawn",
		}),
		FrameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Wall time spent producing one frame",
			Buckets:   []float64{0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1},
		}),
		Draws: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "draws",
			Help:      "Draw commands submitted in the last frame",
		}),
		Culled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "culled",
			Help:      "Entities rejected by frustum culling in the last frame",
		}),
		MatrixRecomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matrix_recomputes_total",
			Help:      "Local/world matrix recomputations in the transform graph",
		}),
		DirectionRecomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "direction_recomputes_total",
			Help:      "Right/up/forward recomputations in the transform graph",
		}),
		CommandsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_applied_total",
			Help:      "Queued scene commands executed by the frame loop",
		}),
		SceneReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scene_reloads_total",
			Help:      "Scenes swapped in by hot reload",
		}),
		FPS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fps",
			Help:      "Frames per second over the last profiler interval",
		}),
		HeapBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heap_bytes",
			Help:      "Live heap bytes at the last profiler interval",
		}),
		InspectorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inspector_requests_total",
			Help:      "Inspector HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Frames,
		m.FrameSeconds,
		m.Draws,
		m.Culled,
		m.MatrixRecomputes,
		m.DirectionRecomputes,
		m.CommandsApplied,
		m.SceneReloads,
		m.FPS,
		m.HeapBytes,
		m.InspectorRequests,
	)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveFrame records one frame. graph holds the recompute counts accrued
// since the previous call.
func (m *Metrics) ObserveFrame(stats renderer.FrameStats, graph transform.Stats, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Frames.Inc()
	m.FrameSeconds.Observe(elapsed.Seconds())
	m.Draws.Set(float64(stats.Draws))
	m.Culled.Set(float64(stats.Culled))
	m.MatrixRecomputes.Add(float64(graph.MatrixRecomputes))
	m.DirectionRecomputes.Add(float64(graph.DirectionRecomputes))
}

// ObserveCommands records queued commands executed in one drain.
func (m *Metrics) ObserveCommands(n int) {
	if m == nil || n == 0 {
		return
	}
	m.CommandsApplied.Add(float64(n))
}

// ObserveReload records a scene hot reload.
func (m *Metrics) ObserveReload() {
	if m == nil {
		return
	}
	m.SceneReloads.Inc()
}

// ObserveRequest records one inspector request.
func (m *Metrics) ObserveRequest(route string, code int) {
	if m == nil {
		return
	}
	m.InspectorRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

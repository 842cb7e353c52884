package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const bytesPerMB = 1024 * 1024

// Stats is one profiler report.
type Stats struct {
	FPS         float64       `json:"fps"`
	HeapMB      float64       `json:"heap_mb"`
	AllocRateMB float64       `json:"alloc_rate_mb"`
	SysMB       float64       `json:"sys_mb"`
	GCCount     uint32        `json:"gc_count"`
	LastPause   time.Duration `json:"last_pause"`
	MaxPause    time.Duration `json:"max_pause"`
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Reports go to the structured logger and, when configured, Prometheus gauges
// at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	now       func() time.Time
	logger    *slog.Logger
	fpsGauge  prometheus.Gauge
	heapGauge prometheus.Gauge
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame to track frame timing.
// Reports performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were reported this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	stats := Stats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / bytesPerMB,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / bytesPerMB / elapsed.Seconds(),
		SysMB:       float64(p.memStats.Sys) / bytesPerMB,
		GCCount:     p.memStats.NumGC,
	}

	// PauseNs is a circular buffer of the last 256 GC pauses
	if gcCount := p.memStats.NumGC; gcCount > 0 {
		stats.LastPause = time.Duration(p.memStats.PauseNs[(gcCount-1)%256])
		start := p.lastGCCount
		if gcCount-start > 256 {
			start = gcCount - 256
		}
		for i := start; i < gcCount; i++ {
			stats.MaxPause = max(stats.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
	}

	p.logger.Info("profiler",
		"fps", stats.FPS,
		"heap_mb", stats.HeapMB,
		"alloc_rate_mb", stats.AllocRateMB,
		"gc", stats.GCCount,
		"gc_last", stats.LastPause,
		"gc_max", stats.MaxPause,
		"sys_mb", stats.SysMB,
	)
	if p.fpsGauge != nil {
		p.fpsGauge.Set(stats.FPS)
	}
	if p.heapGauge != nil {
		p.heapGauge.Set(float64(p.memStats.Alloc))
	}

	p.last = stats
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = stats.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent report, or the zero Stats before the first one.
//
// Returns:
//   - Stats: the last report
func (p *Profiler) Last() Stats {
	return p.last
}

package profiler

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithLogger sets the logger that receives reports. A nil logger is ignored.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the logger option to a profiler
func WithLogger(logger *slog.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithInterval sets how often a report is produced. Non-positive values are ignored.
//
// Parameters:
//   - interval: the report interval
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval option to a profiler
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithGauges sets the Prometheus gauges updated on every report. Either may be nil.
//
// Parameters:
//   - fps: receives frames per second
//   - heap: receives live heap bytes
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the gauge option to a profiler
func WithGauges(fps, heap prometheus.Gauge) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.fpsGauge = fps
		p.heapGauge = heap
	}
}

func withClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}

package engine

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/contraption/engine/animator"
	"github.com/Carmen-Shannon/contraption/engine/camera"
	"github.com/Carmen-Shannon/contraption/engine/profiler"
	"github.com/Carmen-Shannon/contraption/internal/metrics"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: a configured Profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithFrameLimit stops Run after the given number of frames.
// Pass 0 to run until cancelled (default).
//
// Parameters:
//   - frames: the number of frames to run
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameLimit(frames uint64) EngineBuilderOption {
	return func(e *engine) {
		e.frameLimit = frames
	}
}

// WithQueueSize sets the capacity of the command queue.
// Values <= 0 keep the default.
//
// Parameters:
//   - size: maximum number of pending commands
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithQueueSize(size int) EngineBuilderOption {
	return func(e *engine) {
		if size > 0 {
			e.queueSize = size
		}
	}
}

// WithInput sets the input source passed to the active camera's controller.
//
// Parameters:
//   - input: the input state
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithInput(input camera.Input) EngineBuilderOption {
	return func(e *engine) {
		e.input = input
	}
}

// WithAnimator replaces the default animator.
//
// Parameters:
//   - a: the animator advanced each frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAnimator(a animator.Animator) EngineBuilderOption {
	return func(e *engine) {
		e.animator = a
	}
}

// WithMetrics sets the Prometheus collectors updated each frame.
//
// Parameters:
//   - m: the metrics, may be nil
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMetrics(m *metrics.Metrics) EngineBuilderOption {
	return func(e *engine) {
		e.metrics = m
	}
}

// WithLogger sets the engine logger. A nil logger is ignored.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

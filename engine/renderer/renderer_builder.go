package renderer

import "log/slog"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithLogger sets the structured logger used by the renderer. A nil logger is ignored.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithEncodeWorkers sets the number of worker goroutines used to encode draw
// uniforms. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of encode workers (minimum 1)
//
// Returns:
//   - RendererBuilderOption: a function that applies the worker count option to a renderer
func WithEncodeWorkers(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.encodeWorkers = max(n, 1)
	}
}

// WithParallelThreshold sets the draw count below which uniforms are encoded
// on the calling goroutine instead of the worker pool. Defaults to 64.
//
// Parameters:
//   - n: the minimum draw count for parallel encoding
//
// Returns:
//   - RendererBuilderOption: a function that applies the threshold option to a renderer
func WithParallelThreshold(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.parallelThreshold = n
	}
}

// WithFrustumCulling enables frustum culling with the given per-entity bounding
// radius. A radius of zero disables culling, which is the default.
//
// Parameters:
//   - radius: bounding sphere radius in object units
//
// Returns:
//   - RendererBuilderOption: a function that applies the culling option to a renderer
func WithFrustumCulling(radius float32) RendererBuilderOption {
	return func(r *renderer) {
		r.walker.CullRadius = radius
	}
}

package inspector

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/contraption/internal/metrics"
)

// ServerBuilderOption is a functional option for configuring a Server during construction.
type ServerBuilderOption func(*Server)

// WithLogger sets the server logger. A nil logger is ignored.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ServerBuilderOption: a function that applies the logger option to a server
func WithLogger(logger *slog.Logger) ServerBuilderOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics enables request metrics and mounts GET /metrics.
//
// Parameters:
//   - m: the metrics
//
// Returns:
//   - ServerBuilderOption: a function that applies the metrics option to a server
func WithMetrics(m *metrics.Metrics) ServerBuilderOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithEditTimeout bounds how long an edit waits for the frame loop.
// Non-positive values are ignored.
//
// Parameters:
//   - d: the timeout
//
// Returns:
//   - ServerBuilderOption: a function that applies the timeout option to a server
func WithEditTimeout(d time.Duration) ServerBuilderOption {
	return func(s *Server) {
		if d > 0 {
			s.editTimeout = d
		}
	}
}

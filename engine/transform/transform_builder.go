package transform

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// TransformBuilderOption is a functional option for configuring a node created by Graph.New.
type TransformBuilderOption func(*node)

// WithName sets a human readable name used in logs and inspector output.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - TransformBuilderOption: functional option to set the name
func WithName(name string) TransformBuilderOption {
	return func(n *node) {
		n.name = name
	}
}

// WithPosition sets the initial local position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - TransformBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) TransformBuilderOption {
	return func(n *node) {
		n.position = mgl32.Vec3{x, y, z}
	}
}

// WithEulerRotation sets the initial local rotation.
//
// Parameters:
//   - pitch, yaw, roll: rotation angles in radians
//
// Returns:
//   - TransformBuilderOption: functional option to set the rotation
func WithEulerRotation(pitch, yaw, roll float32) TransformBuilderOption {
	return func(n *node) {
		n.eulerRotation = mgl32.Vec3{pitch, yaw, roll}
	}
}

// WithScale sets the initial local scale.
//
// Parameters:
//   - x, y, z: scale factors
//
// Returns:
//   - TransformBuilderOption: functional option to set the scale
func WithScale(x, y, z float32) TransformBuilderOption {
	return func(n *node) {
		n.scale = mgl32.Vec3{x, y, z}
	}
}

// WithUniformScale sets the same initial scale on all three axes.
//
// Parameters:
//   - s: scale factor
//
// Returns:
//   - TransformBuilderOption: functional option to set the scale
func WithUniformScale(s float32) TransformBuilderOption {
	return func(n *node) {
		n.scale = mgl32.Vec3{s, s, s}
	}
}

// GraphBuilderOption is a functional option for configuring a Graph.
type GraphBuilderOption func(*graph)

// WithLogger sets the logger used for hierarchy diagnostics. Defaults to a discarding logger.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - GraphBuilderOption: functional option to set the logger
func WithLogger(logger *slog.Logger) GraphBuilderOption {
	return func(g *graph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithCapacity preallocates room for n nodes.
//
// Parameters:
//   - n: expected node count
//
// Returns:
//   - GraphBuilderOption: functional option to set the initial capacity
func WithCapacity(n int) GraphBuilderOption {
	return func(g *graph) {
		if n > 0 {
			g.nodes = make([]node, 1, n+1)
		}
	}
}

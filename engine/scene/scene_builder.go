package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/contraption/engine/camera"
	"github.com/Carmen-Shannon/contraption/engine/entity"
	"github.com/Carmen-Shannon/contraption/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene's identifier.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithLogger sets the structured logger used for scene events. A nil logger is ignored.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAmbientColor sets the scene's ambient light color.
//
// Parameters:
//   - color: the ambient RGB color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAmbientColor(color mgl32.Vec3) SceneBuilderOption {
	return func(s *scene) {
		s.ambientColor = color
	}
}

// WithGizmoMesh sets the mesh drawn for light gizmos. Must precede WithLights
// to affect the gizmos it creates.
//
// Parameters:
//   - mesh: the gizmo mesh name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithGizmoMesh(mesh string) SceneBuilderOption {
	return func(s *scene) {
		s.gizmoMesh = mesh
	}
}

// WithEntities adds initial entities to the scene.
// Entities without IDs will be assigned new IDs.
//
// Parameters:
//   - entities: the entities to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithEntities(entities ...entity.Entity) SceneBuilderOption {
	return func(s *scene) {
		for _, e := range entities {
			s.Add(e)
		}
	}
}

// WithLights adds initial lights to the scene, creating a gizmo for each.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		for _, l := range lights {
			s.AddLight(l)
		}
	}
}

// WithCameras adds initial cameras to the scene. The first becomes active.
//
// Parameters:
//   - cameras: the cameras to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCameras(cameras ...camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		for _, cam := range cameras {
			s.AddCamera(cam)
		}
	}
}

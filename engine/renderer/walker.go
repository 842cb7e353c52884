package renderer

import (
	"github.com/Carmen-Shannon/contraption/common"
	"github.com/Carmen-Shannon/contraption/engine/entity"
	"github.com/Carmen-Shannon/contraption/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// Drawables is the read side of a scene the walker needs: the graph to
// traverse and the entity attached to each node.
type Drawables interface {
	// Graph returns the transform graph to traverse.
	Graph() transform.Graph

	// EntityAt returns the entity whose transform is the given node.
	EntityAt(id transform.NodeID) (entity.Entity, bool)
}

// Walker turns a scene graph into an ordered list of draw commands.
//
// The walk is depth-first from every root in insertion order with children in
// insertion order. World and world inverse-transpose matrices are resolved for
// each drawn entity; the walker never writes a pose. A disabled entity hides
// itself and everything below it.
type Walker struct {
	// CullRadius enables frustum culling when positive. Each entity is treated
	// as a sphere of this radius, scaled by its largest world axis scale.
	CullRadius float32

	// Culled counts entities rejected by frustum culling during the last Collect.
	Culled int
}

// Collect appends a draw command for every visible entity reachable from the graph roots.
//
// Parameters:
//   - src: the scene to walk
//   - view: the camera view matrix copied into each command
//   - projection: the camera projection matrix copied into each command
//   - dst: slice to append to; pass dst[:0] to reuse a buffer across frames
//
// Returns:
//   - []DrawCommand: dst extended with the collected commands
func (w *Walker) Collect(src Drawables, view, projection mgl32.Mat4, dst []DrawCommand) []DrawCommand {
	w.Culled = 0

	var frustum common.Frustum
	culling := w.CullRadius > 0
	if culling {
		frustum = common.ExtractFrustum(projection.Mul4(view))
	}

	src.Graph().Walk(func(t transform.Transform, depth int) bool {
		e, ok := src.EntityAt(t.ID())
		if !ok {
			return true
		}
		if !e.Enabled() {
			return false
		}

		world := t.WorldMatrix()
		if culling && !frustum.ContainsSphere(world.Col(3).Vec3(), w.CullRadius*maxAxisScale(world)) {
			w.Culled++
			return true
		}

		m := e.Material()
		dst = append(dst, DrawCommand{
			EntityID:          e.ID(),
			Node:              t.ID(),
			Name:              t.Name(),
			Mesh:              e.Mesh(),
			Depth:             depth,
			VertexShader:      m.VertexShader(),
			PixelShader:       m.PixelShader(),
			Material:          m.Params(),
			World:             world,
			WorldInvTranspose: t.WorldInverseTransposeMatrix(),
			View:              view,
			Projection:        projection,
		})
		return true
	})
	return dst
}

// maxAxisScale returns the length of the longest basis column of m.
func maxAxisScale(m mgl32.Mat4) float32 {
	s := m.Col(0).Vec3().Len()
	if y := m.Col(1).Vec3().Len(); y > s {
		s = y
	}
	if z := m.Col(2).Vec3().Len(); z > s {
		s = z
	}
	return s
}

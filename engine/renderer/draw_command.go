package renderer

import (
	"github.com/Carmen-Shannon/contraption/engine/material"
	"github.com/Carmen-Shannon/contraption/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawCommand is a fully resolved request to draw one entity.
// It is a plain value: nothing in it refers back to the transform graph, so
// commands can be handed to other goroutines once collected.
type DrawCommand struct {
	EntityID     uint64
	Node         transform.NodeID
	Name         string
	Mesh         string
	Depth        int
	VertexShader string
	PixelShader  string
	Material     material.GPUMaterialParams

	World             mgl32.Mat4
	WorldInvTranspose mgl32.Mat4
	View              mgl32.Mat4
	Projection        mgl32.Mat4
}

// Uniform packs the command into its per-draw GPU layout.
//
// Returns:
//   - GPUDrawUniform: the per-draw uniform block
func (c *DrawCommand) Uniform() GPUDrawUniform {
	return GPUDrawUniform{
		Tint:              c.Material.Tint,
		World:             c.World,
		View:              c.View,
		Projection:        c.Projection,
		WorldInvTranspose: c.WorldInvTranspose,
	}
}

package renderer

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUDrawUniform is the GPU-aligned per-draw block consumed by the vertex shader.
// Size: 272 bytes (one float4 followed by four float4x4, constant buffer aligned).
type GPUDrawUniform struct {
	Tint              mgl32.Vec4 // offset   0: material colour tint
	World             mgl32.Mat4 // offset  16: object to world
	View              mgl32.Mat4 // offset  80: world to view
	Projection        mgl32.Mat4 // offset 144: view to clip
	WorldInvTranspose mgl32.Mat4 // offset 208: normal matrix
}

// Size returns the size of the GPUDrawUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (272)
func (g *GPUDrawUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUDrawUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 272-byte buffer ready for GPU upload
func (g *GPUDrawUniform) Marshal() []byte {
	return g.AppendTo(make([]byte, 0, g.Size()))
}

// AppendTo appends the serialized uniform to buf and returns the extended slice.
// Lets encoders pack many uniforms into one backing array.
//
// Parameters:
//   - buf: the destination buffer
//
// Returns:
//   - []byte: buf extended by 272 bytes
func (g *GPUDrawUniform) AppendTo(buf []byte) []byte {
	for i := range 4 {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(g.Tint[i]))
	}
	for _, m := range [...]*mgl32.Mat4{&g.World, &g.View, &g.Projection, &g.WorldInvTranspose} {
		for i := range 16 {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(m[i]))
		}
	}
	return buf
}

package material

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUMaterialParams is the GPU-aligned per-material block read by the pixel shader.
// Size: 32 bytes (two 16-byte rows).
type GPUMaterialParams struct {
	Tint      mgl32.Vec4 // offset  0: RGBA colour tint
	UVOffset  mgl32.Vec2 // offset 16: texture coordinate offset
	Roughness float32    // offset 24: roughness factor
	_pad      float32    // offset 28: padding to 32 bytes
}

// Size returns the size of the GPUMaterialParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUMaterialParams) Marshal() []byte {
	buf := make([]byte, 32)
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Tint[i]))
	}
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.UVOffset[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.UVOffset[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Roughness))
	return buf
}

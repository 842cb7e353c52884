package light

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxGPULights is the maximum number of lights marshaled into the per-frame
// light buffer. The CPU-side light list is unbounded; lights past the budget
// are dropped in scene order.
const MaxGPULights = 128

// GPULight is the GPU-aligned representation of a single light source.
// Field order matches the pixel shader's Light constant buffer struct.
// Size: 64 bytes (HLSL constant buffer packing, 16-byte rows).
type GPULight struct {
	Type        int32      // offset  0: 0 = directional, 1 = point, 2 = spot
	Direction   mgl32.Vec3 // offset  4: normalized direction (directional/spot)
	Range       float32    // offset 16: attenuation cutoff distance
	Position    mgl32.Vec3 // offset 20: world-space position (point/spot)
	Intensity   float32    // offset 32: scalar multiplier
	Color       mgl32.Vec3 // offset 36: RGB color
	SpotFalloff float32    // offset 48: spot cone falloff exponent
	_pad        [3]float32 // offset 52: padding to 64 bytes
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 64)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(g.Type))
	putVec3(buf[4:16], g.Direction)
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Range))
	putVec3(buf[20:32], g.Position)
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Intensity))
	putVec3(buf[36:48], g.Color)
	binary.LittleEndian.PutUint32(buf[48:52], math.Float32bits(g.SpotFalloff))
	return buf
}

// GPULightHeader is the header prepended to the light buffer.
// Contains the ambient color and the active light count.
// Size: 16 bytes (vec3 + uint).
type GPULightHeader struct {
	AmbientColor mgl32.Vec3 // offset 0: scene ambient RGB
	LightCount   uint32     // offset 12: number of active lights following the header
}

// Size returns the size of the GPULightHeader struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// Marshal serializes the GPULightHeader struct into a byte buffer suitable for
// GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (h *GPULightHeader) Marshal() []byte {
	buf := make([]byte, 16)
	putVec3(buf[0:12], h.AmbientColor)
	binary.LittleEndian.PutUint32(buf[12:16], h.LightCount)
	return buf
}

// ToGPULight converts a Light into its GPU-aligned representation.
//
// Parameters:
//   - l: the Light to convert
//
// Returns:
//   - GPULight: the GPU-aligned representation
func ToGPULight(l Light) GPULight {
	return GPULight{
		Type:        int32(l.Type()),
		Direction:   l.Direction(),
		Range:       l.Range(),
		Position:    l.Position(),
		Intensity:   l.Intensity(),
		Color:       l.Color(),
		SpotFalloff: l.SpotFalloff(),
	}
}

// MarshalLightBuffer marshals a slice of enabled lights into a byte buffer
// suitable for GPU upload. The buffer layout is:
//
//	[GPULightHeader (16 bytes)] [GPULight × count (64 bytes each)]
//
// Only enabled lights are included, up to MaxGPULights.
//
// Parameters:
//   - lights: the full slice of lights to marshal (only enabled lights are included)
//   - ambient: the scene ambient color as RGB
//
// Returns:
//   - []byte: the marshaled buffer ready for GPU upload
func MarshalLightBuffer(lights []Light, ambient mgl32.Vec3) []byte {
	header := GPULightHeader{AmbientColor: ambient}
	lightSize := (&GPULight{}).Size()

	active := make([]Light, 0, len(lights))
	for _, l := range lights {
		if len(active) == MaxGPULights {
			break
		}
		if l.Enabled() {
			active = append(active, l)
		}
	}
	header.LightCount = uint32(len(active))

	buf := make([]byte, header.Size()+len(active)*lightSize)
	copy(buf, header.Marshal())

	offset := header.Size()
	for _, l := range active {
		gpu := ToGPULight(l)
		copy(buf[offset:offset+lightSize], gpu.Marshal())
		offset += lightSize
	}
	return buf
}

func putVec3(buf []byte, v mgl32.Vec3) {
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v[i]))
	}
}

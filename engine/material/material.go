package material

import "github.com/go-gl/mathgl/mgl32"

// Textures names the texture files a material samples. Empty paths mean the
// shader falls back to its constant inputs.
type Textures struct {
	Albedo   string `yaml:"albedo" mapstructure:"albedo"`
	Specular string `yaml:"specular" mapstructure:"specular"`
	Normal   string `yaml:"normal" mapstructure:"normal"`
}

// material is the implementation of the Material interface.
type material struct {
	name         string
	tint         mgl32.Vec4
	roughness    float32
	uvOffset     mgl32.Vec2
	vertexShader string
	pixelShader  string
	textures     Textures
}

// Material defines the surface description of an entity.
//
// A Material is pure data: it carries the colour tint fed into every draw
// uniform, the roughness and UV offset consumed by the pixel shader, and the
// names of the shaders and textures the graphics backend should bind. The
// engine never compiles shaders or loads textures itself.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Tint retrieves the RGBA colour tint multiplied into the surface colour.
	//
	// Returns:
	//   - mgl32.Vec4: the tint as RGBA values
	Tint() mgl32.Vec4

	// Roughness retrieves the roughness factor of the material.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 represents a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// UVOffset retrieves the texture coordinate offset applied before sampling.
	//
	// Returns:
	//   - mgl32.Vec2: the UV offset
	UVOffset() mgl32.Vec2

	// VertexShader retrieves the name of the vertex shader the backend should bind.
	//
	// Returns:
	//   - string: the vertex shader name
	VertexShader() string

	// PixelShader retrieves the name of the pixel shader the backend should bind.
	//
	// Returns:
	//   - string: the pixel shader name
	PixelShader() string

	// Textures retrieves the texture paths sampled by this material.
	//
	// Returns:
	//   - Textures: the albedo, specular and normal map paths
	Textures() Textures

	// SetTint sets the RGBA colour tint.
	//
	// Parameters:
	//   - tint: the new tint
	SetTint(tint mgl32.Vec4)

	// SetRoughness sets the roughness factor, clamped to [0, 1].
	//
	// Parameters:
	//   - roughness: the new roughness
	SetRoughness(roughness float32)

	// SetUVOffset sets the texture coordinate offset.
	//
	// Parameters:
	//   - offset: the new UV offset
	SetUVOffset(offset mgl32.Vec2)

	// Params packs the shader-facing surface values into their GPU layout.
	//
	// Returns:
	//   - GPUMaterialParams: the packed parameters
	Params() GPUMaterialParams
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Defaults to a white tint, roughness 0.5 and no UV offset.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		tint:         mgl32.Vec4{1, 1, 1, 1},
		roughness:    0.5,
		vertexShader: "VertexShader",
		pixelShader:  "PixelShader",
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Tint() mgl32.Vec4 {
	return m.tint
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) UVOffset() mgl32.Vec2 {
	return m.uvOffset
}

func (m *material) VertexShader() string {
	return m.vertexShader
}

func (m *material) PixelShader() string {
	return m.pixelShader
}

func (m *material) Textures() Textures {
	return m.textures
}

func (m *material) SetTint(tint mgl32.Vec4) {
	m.tint = tint
}

func (m *material) SetRoughness(roughness float32) {
	m.roughness = mgl32.Clamp(roughness, 0, 1)
}

func (m *material) SetUVOffset(offset mgl32.Vec2) {
	m.uvOffset = offset
}

func (m *material) Params() GPUMaterialParams {
	return GPUMaterialParams{
		Tint:      m.tint,
		UVOffset:  m.uvOffset,
		Roughness: m.roughness,
	}
}

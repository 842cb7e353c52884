package material

import "github.com/go-gl/mathgl/mgl32"

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithTint is an option builder that sets the RGBA colour tint of the material.
//
// Parameters:
//   - tint: the tint as RGBA values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the tint option to a material
func WithTint(tint mgl32.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.tint = tint
	}
}

// WithRoughness is an option builder that sets the roughness factor of the material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough), clamped
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = mgl32.Clamp(roughness, 0, 1)
	}
}

// WithUVOffset is an option builder that sets the texture coordinate offset.
//
// Parameters:
//   - offset: the UV offset
//
// Returns:
//   - MaterialBuilderOption: a function that applies the UV offset option to a material
func WithUVOffset(offset mgl32.Vec2) MaterialBuilderOption {
	return func(m *material) {
		m.uvOffset = offset
	}
}

// WithShaders is an option builder that sets the vertex and pixel shader names.
// Empty names keep the defaults.
//
// Parameters:
//   - vertex: the vertex shader name
//   - pixel: the pixel shader name
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shader option to a material
func WithShaders(vertex, pixel string) MaterialBuilderOption {
	return func(m *material) {
		if vertex != "" {
			m.vertexShader = vertex
		}
		if pixel != "" {
			m.pixelShader = pixel
		}
	}
}

// WithTextures is an option builder that sets the texture paths sampled by the material.
//
// Parameters:
//   - textures: the albedo, specular and normal map paths
//
// Returns:
//   - MaterialBuilderOption: a function that applies the textures option to a material
func WithTextures(textures Textures) MaterialBuilderOption {
	return func(m *material) {
		m.textures = textures
	}
}

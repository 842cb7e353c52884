package light

import (
	"strconv"
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source. Values match the GPU constants.
type LightType int32

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Affects all fragments uniformly with no distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position
	// and attenuates with distance up to its range.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position along a
	// direction. The cone edge is shaped by the spot falloff exponent.
	LightTypeSpot
)

// String returns the lowercase name used in scene files and the inspector.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	default:
		return "LightType(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseLightType converts a scene-file name into a LightType.
//
// Parameters:
//   - s: "directional", "point" or "spot"
//
// Returns:
//   - LightType: the parsed type
//   - bool: false if s names no light type
func ParseLightType(s string) (LightType, bool) {
	switch s {
	case "directional":
		return LightTypeDirectional, true
	case "point":
		return LightTypePoint, true
	case "spot":
		return LightTypeSpot, true
	}
	return 0, false
}

// ID uniquely identifies a light for the lifetime of the process.
// Scenes key per-light state such as gizmos by ID.
type ID uint64

// lightCount is an atomic counter used to hand out unique light IDs.
var lightCount atomic.Uint64

type lightImpl struct {
	id          ID
	name        string
	lightType   LightType
	position    mgl32.Vec3
	direction   mgl32.Vec3
	color       mgl32.Vec3
	intensity   float32
	lightRange  float32
	spotFalloff float32
	enabled     bool
}

// Light defines the interface for a light source in the scene.
//
// Lights are plain data: the engine never evaluates lighting itself, it only
// marshals lights into the per-frame GPU buffer via the gpu_types helpers.
// Type-specific properties (range for point and spot, falloff for spot) are
// carried for every type and ignored where they do not apply.
type Light interface {
	// ID returns the light's unique identifier.
	//
	// Returns:
	//   - ID: the light ID
	ID() ID

	// Name returns the display name of the light.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or spot)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Direction returns the normalized direction of the light.
	// Meaningless for point lights.
	//
	// Returns:
	//   - mgl32.Vec3: the normalized direction
	Direction() mgl32.Vec3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Range returns the maximum attenuation distance for point and spot lights.
	//
	// Returns:
	//   - float32: the range value
	Range() float32

	// SpotFalloff returns the exponent shaping the spot cone edge.
	//
	// Returns:
	//   - float32: the falloff exponent
	SpotFalloff() float32

	// Enabled returns whether this light is active for rendering.
	// Disabled lights are skipped during GPU buffer marshaling.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// SetName sets the display name of the light.
	//
	// Parameters:
	//   - name: the new name
	SetName(name string)

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetRange sets the maximum attenuation distance.
	//
	// Parameters:
	//   - lightRange: the range value
	SetRange(lightRange float32)

	// SetSpotFalloff sets the spot cone falloff exponent.
	//
	// Parameters:
	//   - falloff: the falloff exponent
	SetSpotFalloff(falloff float32)

	// SetEnabled enables or disables the light for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create (directional, point, or spot)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		id:          ID(lightCount.Add(1)),
		lightType:   lightType,
		direction:   mgl32.Vec3{0, -1, 0},
		color:       mgl32.Vec3{1, 1, 1},
		intensity:   1.0,
		lightRange:  10.0,
		spotFalloff: 1.0,
		enabled:     true,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.name == "" {
		l.name = lightType.String() + "_" + strconv.FormatUint(uint64(l.id), 10)
	}
	return l
}

func (l *lightImpl) ID() ID {
	return l.id
}

func (l *lightImpl) Name() string {
	return l.name
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) SpotFalloff() float32 {
	return l.spotFalloff
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetName(name string) {
	l.name = name
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = mgl32.Vec3{x, y, z}
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = mgl32.Vec3{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetRange(lightRange float32) {
	l.lightRange = lightRange
}

func (l *lightImpl) SetSpotFalloff(falloff float32) {
	l.spotFalloff = falloff
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// normalize3 normalizes a 3-component vector. Returns a zero vector if the input
// has zero length.
func normalize3(x, y, z float32) mgl32.Vec3 {
	length := math32.Sqrt(x*x + y*y + z*z)
	if length == 0 {
		return mgl32.Vec3{}
	}
	inv := 1.0 / length
	return mgl32.Vec3{x * inv, y * inv, z * inv}
}

package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestNewLightDefaults(t *testing.T) {
	l := NewLight(LightTypePoint)

	assert.Equal(t, LightTypePoint, l.Type())
	assert.True(t, l.Enabled())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Color())
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, l.Direction())
	assert.Equal(t, float32(1), l.Intensity())
	assert.Contains(t, l.Name(), "point_")
}

func TestLightIDsAreUnique(t *testing.T) {
	a := NewLight(LightTypeDirectional)
	b := NewLight(LightTypeDirectional)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Greater(t, b.ID(), a.ID())
}

func TestDirectionIsNormalized(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithDirection(1, -1, 0))
	s := float32(1 / math.Sqrt2)
	assert.True(t, mgl32.Vec3{s, -s, 0}.ApproxEqualThreshold(l.Direction(), 1e-6))

	l.SetDirection(0, 0, 0)
	assert.Equal(t, mgl32.Vec3{}, l.Direction())

	l.SetDirection(0, 5, 0)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, l.Direction())
}

func TestLightSetters(t *testing.T) {
	l := NewLight(LightTypeSpot, WithName("lamp"))
	l.SetPosition(1, 2, 3)
	l.SetColor(0, 1, 0)
	l.SetIntensity(2)
	l.SetRange(40)
	l.SetSpotFalloff(8)
	l.SetEnabled(false)
	l.SetName("torch")

	assert.Equal(t, "torch", l.Name())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, l.Position())
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, l.Color())
	assert.Equal(t, float32(2), l.Intensity())
	assert.Equal(t, float32(40), l.Range())
	assert.Equal(t, float32(8), l.SpotFalloff())
	assert.False(t, l.Enabled())
}

func TestParseLightType(t *testing.T) {
	for _, lt := range []LightType{LightTypeDirectional, LightTypePoint, LightTypeSpot} {
		got, ok := ParseLightType(lt.String())
		require.True(t, ok)
		assert.Equal(t, lt, got)
	}
	_, ok := ParseLightType("area")
	assert.False(t, ok)
	assert.Equal(t, "LightType(7)", LightType(7).String())
}

func TestGPULightLayout(t *testing.T) {
	l := NewLight(LightTypePoint,
		WithPosition(2, 2, 0),
		WithColor(0, 1, 0),
		WithRange(40),
		WithIntensity(3),
		WithSpotFalloff(5),
	)
	gpu := ToGPULight(l)
	require.Equal(t, 64, gpu.Size())

	buf := gpu.Marshal()
	require.Len(t, buf, 64)
	assert.Equal(t, uint32(LightTypePoint), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, float32(-1), f32At(buf, 8))
	assert.Equal(t, float32(40), f32At(buf, 16))
	assert.Equal(t, float32(2), f32At(buf, 20))
	assert.Equal(t, float32(2), f32At(buf, 24))
	assert.Equal(t, float32(3), f32At(buf, 32))
	assert.Equal(t, float32(1), f32At(buf, 40))
	assert.Equal(t, float32(5), f32At(buf, 48))
	assert.Equal(t, make([]byte, 12), buf[52:])
}

func TestMarshalLightBufferSkipsDisabled(t *testing.T) {
	lights := []Light{
		NewLight(LightTypeDirectional, WithColor(0.2, 0.2, 0.2)),
		NewLight(LightTypePoint, WithEnabled(false)),
		NewLight(LightTypePoint, WithColor(0, 0, 1), WithRange(100)),
	}
	buf := MarshalLightBuffer(lights, mgl32.Vec3{0.1, 0.1, 0.25})

	require.Len(t, buf, 16+2*64)
	assert.Equal(t, float32(0.25), f32At(buf, 8))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[12:]))
	assert.Equal(t, uint32(LightTypeDirectional), binary.LittleEndian.Uint32(buf[16:]))
	assert.Equal(t, float32(100), f32At(buf, 16+64+16))
}

func TestMarshalLightBufferCapsAtMax(t *testing.T) {
	lights := make([]Light, MaxGPULights+10)
	for i := range lights {
		lights[i] = NewLight(LightTypePoint)
	}
	buf := MarshalLightBuffer(lights, mgl32.Vec3{})

	assert.Len(t, buf, 16+MaxGPULights*64)
	assert.Equal(t, uint32(MaxGPULights), binary.LittleEndian.Uint32(buf[12:]))
}

func TestMarshalLightBufferEmpty(t *testing.T) {
	buf := MarshalLightBuffer(nil, mgl32.Vec3{1, 1, 1})
	assert.Len(t, buf, 16)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[12:]))
}

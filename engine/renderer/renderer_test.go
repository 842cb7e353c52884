package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/contraption/engine/camera"
	"github.com/Carmen-Shannon/contraption/engine/entity"
	"github.com/Carmen-Shannon/contraption/engine/light"
	"github.com/Carmen-Shannon/contraption/engine/scene"
	"github.com/Carmen-Shannon/contraption/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

// buildScene returns a scene with a camera at z=-5 and the hierarchy
//
//	a
//	├── b
//	│   └── c
//	└── d
//	e
func buildScene(t *testing.T) (scene.Scene, map[string]entity.Entity) {
	t.Helper()
	g := transform.NewGraph()
	ents := map[string]entity.Entity{}
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ents[name] = entity.NewEntity(g, entity.WithName(name), entity.WithMesh(name+".obj"))
	}
	require.NoError(t, ents["a"].Transform().AddChild(ents["b"].Transform(), false))
	require.NoError(t, ents["b"].Transform().AddChild(ents["c"].Transform(), false))
	require.NoError(t, ents["a"].Transform().AddChild(ents["d"].Transform(), false))
	ents["a"].Transform().SetPosition(1, 0, 0)
	ents["c"].Transform().SetPosition(0, 2, 0)

	s := scene.NewScene(g,
		scene.WithEntities(ents["a"], ents["b"], ents["c"], ents["d"], ents["e"]),
		scene.WithCameras(camera.NewCamera(g, camera.WithPosition(0, 0, -5))),
	)
	return s, ents
}

func names(cmds []DrawCommand) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Name
	}
	return out
}

func TestWalkerDepthFirstInsertionOrder(t *testing.T) {
	s, _ := buildScene(t)
	var w Walker
	cmds := w.Collect(s, mgl32.Ident4(), mgl32.Ident4(), nil)

	// the camera node carries no entity and is skipped
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names(cmds))
	assert.Equal(t, []int{0, 1, 2, 1, 0}, []int{cmds[0].Depth, cmds[1].Depth, cmds[2].Depth, cmds[3].Depth, cmds[4].Depth})
	assert.Equal(t, "c.obj", cmds[2].Mesh)
	assert.True(t, mgl32.Vec3{1, 2, 0}.ApproxEqualThreshold(cmds[2].World.Col(3).Vec3(), 1e-6))
}

func TestWalkerDisabledEntityHidesSubtree(t *testing.T) {
	s, ents := buildScene(t)
	ents["b"].SetEnabled(false)

	var w Walker
	cmds := w.Collect(s, mgl32.Ident4(), mgl32.Ident4(), nil)
	assert.Equal(t, []string{"a", "d", "e"}, names(cmds))
}

func TestWalkerIsReadOnly(t *testing.T) {
	s, ents := buildScene(t)
	var w Walker
	w.Collect(s, mgl32.Ident4(), mgl32.Ident4(), nil)

	g := s.Graph()
	g.ResetStats()
	before := ents["c"].Transform().Position()
	w.Collect(s, mgl32.Ident4(), mgl32.Ident4(), nil)

	assert.Zero(t, g.Stats().MatrixRecomputes)
	assert.Equal(t, before, ents["c"].Transform().Position())
}

func TestWalkerFrustumCulling(t *testing.T) {
	s, ents := buildScene(t)
	ents["e"].Transform().SetPosition(0, 0, -50)

	cam := s.ActiveCamera()
	w := Walker{CullRadius: 1}
	cmds := w.Collect(s, cam.ViewMatrix(), cam.ProjectionMatrix(), nil)

	assert.Equal(t, []string{"a", "b", "c", "d"}, names(cmds))
	assert.Equal(t, 1, w.Culled)
}

func TestRenderFrameSubmitsToBackend(t *testing.T) {
	s, _ := buildScene(t)
	s.AddLight(light.NewLight(light.LightTypePoint, light.WithPosition(0, 3, 0)))
	backend := NewRecordingBackend(2)
	r := NewRenderer(backend)
	defer r.Close()

	stats, err := r.RenderFrame(s)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Draws)

	frame, ok := backend.LastFrame()
	require.True(t, ok)
	assert.Len(t, frame.Uniforms.Camera, 144)
	assert.Len(t, frame.Uniforms.Lights, 16+64)
	require.Len(t, frame.Draws, 6)
	assert.Equal(t, "light_gizmo", frame.Draws[5].Command.Mesh)

	for _, d := range frame.Draws {
		u := d.Command.Uniform()
		assert.Equal(t, u.Marshal(), d.Uniform, d.Command.Name)
	}
	assert.Equal(t, float32(1), f32At(frame.Draws[0].Uniform, 16+12*4))
}

func TestRenderFrameParallelEncoding(t *testing.T) {
	g := transform.NewGraph()
	s := scene.NewScene(g, scene.WithCameras(camera.NewCamera(g)))
	for i := range 300 {
		s.Add(entity.NewEntity(g, entity.WithPose(transform.WithPosition(float32(i), 0, 0))))
	}

	backend := NewRecordingBackend(1)
	r := NewRenderer(backend, WithEncodeWorkers(4), WithParallelThreshold(1))
	defer r.Close()

	_, err := r.RenderFrame(s)
	require.NoError(t, err)

	frame, _ := backend.LastFrame()
	require.Len(t, frame.Draws, 300)
	for i, d := range frame.Draws {
		require.Len(t, d.Uniform, 272)
		assert.Equal(t, float32(i), f32At(d.Uniform, 16+12*4), "draw %d", i)
	}
	assert.Len(t, r.Commands(), 300)
}

func TestRenderFrameWithoutCamera(t *testing.T) {
	s := scene.NewScene(transform.NewGraph())
	r := NewRenderer(NewRecordingBackend(1))
	defer r.Close()

	_, err := r.RenderFrame(s)
	assert.ErrorIs(t, err, ErrNoCamera)
}

type failingBackend struct {
	RecordingBackend
	err error
}

func (f failingBackend) Draw(DrawCommand, []byte) error { return f.err }

func TestRenderFrameWrapsBackendErrors(t *testing.T) {
	s, _ := buildScene(t)
	boom := errors.New("device lost")
	r := NewRenderer(failingBackend{RecordingBackend: NewRecordingBackend(1), err: boom})
	defer r.Close()

	_, err := r.RenderFrame(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `draw "a"`)
}

func TestRecordingBackendFrameOrder(t *testing.T) {
	b := NewRecordingBackend(2)
	assert.ErrorIs(t, b.Draw(DrawCommand{}, nil), ErrFrameState)
	assert.ErrorIs(t, b.EndFrame(), ErrFrameState)

	for i := range 3 {
		require.NoError(t, b.BeginFrame(FrameUniforms{Camera: []byte{byte(i)}}))
		if i == 0 {
			assert.ErrorIs(t, b.BeginFrame(FrameUniforms{}), ErrFrameState)
		}
		require.NoError(t, b.EndFrame())
	}

	frames := b.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, []byte{1}, frames[0].Uniforms.Camera)
	assert.Equal(t, uint64(3), b.Submitted())
}

func TestGPUDrawUniformLayout(t *testing.T) {
	u := GPUDrawUniform{
		Tint:       mgl32.Vec4{0.5, 0.25, 1, 1},
		World:      mgl32.Translate3D(7, 8, 9),
		Projection: mgl32.Scale3D(2, 2, 2),
	}
	require.Equal(t, 272, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 272)
	assert.Equal(t, float32(0.25), f32At(buf, 4))
	assert.Equal(t, float32(8), f32At(buf, 16+13*4))
	assert.Equal(t, float32(0), f32At(buf, 80))
	assert.Equal(t, float32(2), f32At(buf, 144))
}

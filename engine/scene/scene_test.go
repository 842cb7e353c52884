package scene

import (
	"testing"

	"github.com/Carmen-Shannon/contraption/engine/camera"
	"github.com/Carmen-Shannon/contraption/engine/entity"
	"github.com/Carmen-Shannon/contraption/engine/light"
	"github.com/Carmen-Shannon/contraption/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T, options ...SceneBuilderOption) (Scene, transform.Graph) {
	t.Helper()
	g := transform.NewGraph()
	return NewScene(g, options...), g
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	s, g := newTestScene(t)
	a := entity.NewEntity(g, entity.WithName("a"))
	b := entity.NewEntity(g, entity.WithName("b"))
	c := entity.NewEntity(g, entity.WithName("c"), entity.WithID(10))

	assert.Equal(t, uint64(1), s.Add(a))
	assert.Equal(t, uint64(10), s.Add(c))
	assert.Equal(t, uint64(11), s.Add(b))
	assert.Equal(t, 3, s.Count())

	names := []string{}
	for _, e := range s.Entities() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a", "c", "b"}, names)

	got, err := s.Get(10)
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = s.Get(99)
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestAddRejectsForeignGraph(t *testing.T) {
	s, _ := newTestScene(t)
	other := entity.NewEntity(transform.NewGraph())
	assert.Panics(t, func() { s.Add(other) })
}

func TestAddRejectsDuplicateID(t *testing.T) {
	s, g := newTestScene(t)
	first := entity.NewEntity(g, entity.WithName("first"), entity.WithID(7))
	s.Add(first)

	assert.NotPanics(t, func() { s.Add(first) })
	assert.Panics(t, func() { s.Add(entity.NewEntity(g, entity.WithName("second"), entity.WithID(7))) })

	got, err := s.Get(7)
	require.NoError(t, err)
	assert.Same(t, first, got)
	assert.Equal(t, 1, s.Count())
	assert.Zero(t, s.CountEphemeral())
}

func TestEntityAtAndFindByName(t *testing.T) {
	s, g := newTestScene(t)
	e := entity.NewEntity(g, entity.WithName("helix"))
	s.Add(e)

	got, ok := s.EntityAt(e.Transform().ID())
	require.True(t, ok)
	assert.Same(t, e, got)

	found, ok := s.FindByName("helix")
	require.True(t, ok)
	assert.Same(t, e, found)

	_, ok = s.FindByName("missing")
	assert.False(t, ok)
}

func TestRemoveHonoursChildren(t *testing.T) {
	s, g := newTestScene(t)
	parent := entity.NewEntity(g, entity.WithName("parent"))
	child := entity.NewEntity(g, entity.WithName("child"))
	s.Add(parent)
	s.Add(child)
	require.NoError(t, parent.Transform().AddChild(child.Transform(), false))

	assert.ErrorIs(t, s.Remove(parent.ID()), transform.ErrHasChildren)
	assert.Equal(t, 2, s.Count())

	n, err := s.RemoveTree(parent.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 0, g.Len())

	_, err = s.RemoveTree(parent.ID())
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestAddLightCreatesGizmo(t *testing.T) {
	s, _ := newTestScene(t)
	l := light.NewLight(light.LightTypePoint, light.WithPosition(2, 2, 0), light.WithColor(0, 1, 0))
	gizmo := s.AddLight(l)

	assert.True(t, gizmo.Ephemeral())
	assert.Equal(t, DefaultGizmoMesh, gizmo.Mesh())
	assert.Equal(t, mgl32.Vec3{2, 2, 0}, gizmo.Transform().Position())
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, gizmo.Material().Tint())
	assert.Equal(t, float32(1), gizmo.Material().Roughness())
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 1, s.CountEphemeral())

	again := s.AddLight(l)
	assert.Same(t, gizmo, again)
	assert.Len(t, s.Lights(), 1)
}

func TestUpdateLightMovesAndRetintsGizmo(t *testing.T) {
	s, _ := newTestScene(t)
	l := light.NewLight(light.LightTypePoint, light.WithPosition(1, -3, 0), light.WithColor(0, 0, 1))
	gizmo := s.AddLight(l)

	require.NoError(t, s.UpdateLight(l.ID(), func(l light.Light) {
		l.SetPosition(4, 5, 6)
		l.SetColor(1, 0, 0)
		l.SetRange(100)
	}))

	assert.True(t, mgl32.Vec3{4, 5, 6}.ApproxEqualThreshold(gizmo.Transform().WorldPosition(), 1e-5))
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, gizmo.Material().Tint())
	assert.Equal(t, float32(100), l.Range())

	err := s.UpdateLight(light.ID(1<<40), func(light.Light) {})
	assert.ErrorIs(t, err, ErrUnknownLight)
}

func TestUpdateLightLeavesUntouchedGizmoClean(t *testing.T) {
	s, g := newTestScene(t)
	l := light.NewLight(light.LightTypeDirectional, light.WithPosition(0, 3, 0))
	gizmo := s.AddLight(l)
	gizmo.Transform().WorldMatrix()
	g.ResetStats()

	require.NoError(t, s.UpdateLight(l.ID(), func(l light.Light) { l.SetDirection(0, -1, 1) }))
	gizmo.Transform().WorldMatrix()
	assert.Zero(t, g.Stats().MatrixRecomputes)
}

func TestRemoveLightDestroysGizmo(t *testing.T) {
	s, g := newTestScene(t)
	l := light.NewLight(light.LightTypePoint)
	gizmo := s.AddLight(l)
	node := gizmo.Transform().ID()

	require.NoError(t, s.RemoveLight(l.ID()))
	assert.Empty(t, s.Lights())
	assert.False(t, g.Valid(node))
	_, ok := s.Gizmo(l.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, s.CountEphemeral())

	assert.ErrorIs(t, s.RemoveLight(l.ID()), ErrUnknownLight)
}

func TestCameras(t *testing.T) {
	g := transform.NewGraph()
	s := NewScene(g)
	assert.Nil(t, s.ActiveCamera())
	assert.Equal(t, -1, s.ActiveCameraIndex())

	near := camera.NewCamera(g, camera.WithPosition(0, 0, -5))
	far := camera.NewCamera(g, camera.WithPosition(0, 0, -20), camera.WithMoveSpeed(3))
	assert.Equal(t, 0, s.AddCamera(near))
	assert.Equal(t, 1, s.AddCamera(far))
	assert.Same(t, near, s.ActiveCamera())

	require.NoError(t, s.SetActiveCamera(1))
	assert.Same(t, far, s.ActiveCamera())
	assert.ErrorIs(t, s.SetActiveCamera(2), ErrUnknownCamera)
	assert.Equal(t, 1, s.ActiveCameraIndex())

	s.Resize(800, 400)
	assert.Equal(t, float32(2), near.Aspect())
	assert.Equal(t, float32(2), far.Aspect())

	s.SetCommonMoveSpeed(5)
	assert.Equal(t, float32(5), near.MoveSpeed())
	assert.Equal(t, float32(5), far.MoveSpeed())
}

func TestSnapshot(t *testing.T) {
	g := transform.NewGraph()
	root := entity.NewEntity(g, entity.WithName("root"), entity.WithPose(transform.WithPosition(5, 0, 0)))
	child := entity.NewEntity(g, entity.WithName("child"), entity.WithPose(transform.WithPosition(1, 0, 0)))
	require.NoError(t, root.Transform().AddChild(child.Transform(), false))

	s := NewScene(g,
		WithName("demo"),
		WithEntities(root, child),
		WithLights(light.NewLight(light.LightTypeSpot, light.WithName("spot"))),
		WithCameras(camera.NewCamera(g)),
		WithAmbientColor(mgl32.Vec3{0.2, 0.2, 0.2}),
	)

	snap := s.Snapshot()
	assert.Equal(t, "demo", snap.Name)
	require.Len(t, snap.Entities, 2)
	assert.Equal(t, root.ID(), snap.Entities[1].Parent)
	assert.True(t, mgl32.Vec3{6, 0, 0}.ApproxEqualThreshold(snap.Entities[1].WorldPosition, 1e-5))
	require.Len(t, snap.Lights, 1)
	assert.Equal(t, "spot", snap.Lights[0].Type)
	require.Len(t, snap.Cameras, 1)
	assert.True(t, snap.Cameras[0].Active)
	assert.Equal(t, 0, snap.ActiveCamera)
	assert.Equal(t, 4, snap.Nodes)
	assert.Equal(t, mgl32.Vec3{0.2, 0.2, 0.2}, snap.Ambient)
}

func TestClear(t *testing.T) {
	g := transform.NewGraph()
	s := NewScene(g,
		WithEntities(entity.NewEntity(g)),
		WithLights(light.NewLight(light.LightTypePoint)),
		WithCameras(camera.NewCamera(g)),
	)
	s.Clear()

	assert.Equal(t, 0, g.Len())
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 0, s.CountEphemeral())
	assert.Empty(t, s.Lights())
	assert.Nil(t, s.ActiveCamera())
}

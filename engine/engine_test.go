package engine

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/contraption/common"
	"github.com/Carmen-Shannon/contraption/engine/animator"
	"github.com/Carmen-Shannon/contraption/engine/camera"
	"github.com/Carmen-Shannon/contraption/engine/entity"
	"github.com/Carmen-Shannon/contraption/engine/renderer"
	"github.com/Carmen-Shannon/contraption/engine/scene"
	"github.com/Carmen-Shannon/contraption/engine/transform"
	"github.com/Carmen-Shannon/contraption/internal/metrics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keys map[int]bool

func (k keys) KeyDown(key int) bool            { return k[key] }
func (k keys) MouseButtonDown(button int) bool { return false }
func (k keys) MouseDelta() (dx, dy float32)    { return 0, 0 }

type failingBackend struct{ err error }

func (b failingBackend) BeginFrame(renderer.FrameUniforms) error { return b.err }
func (b failingBackend) Draw(renderer.DrawCommand, []byte) error { return nil }
func (b failingBackend) EndFrame() error                         { return nil }

func newScene(t *testing.T, withCamera bool) scene.Scene {
	t.Helper()
	g := transform.NewGraph()
	opts := []scene.SceneBuilderOption{
		scene.WithName("test"),
		scene.WithEntities(entity.NewEntity(g, entity.WithName("crate"), entity.WithMesh("crate.obj"))),
	}
	if withCamera {
		opts = append(opts, scene.WithCameras(camera.NewCamera(g,
			camera.WithPosition(0, 0, -5),
			camera.WithMoveSpeed(2),
			camera.WithController(camera.NewFlyController()),
		)))
	}
	return scene.NewScene(g, opts...)
}

func newEngine(t *testing.T, s scene.Scene, options ...EngineBuilderOption) (Engine, renderer.RecordingBackend) {
	t.Helper()
	backend := renderer.NewRecordingBackend(4)
	r := renderer.NewRenderer(backend)
	t.Cleanup(r.Close)
	return NewEngine(s, r, options...), backend
}

func TestStepAppliesCommandsBeforeRendering(t *testing.T) {
	e, backend := newEngine(t, newScene(t, true))

	require.NoError(t, e.Enqueue(func(s scene.Scene) {
		crate, ok := s.FindByName("crate")
		require.True(t, ok)
		crate.Transform().SetPosition(3, 0, 0)
	}))

	_, ok := e.Snapshot()
	assert.False(t, ok)

	info, err := e.Step(1.0 / 60)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.Frame)
	assert.Equal(t, 1, info.Commands)
	assert.Equal(t, 1, info.Render.Draws)

	frame, ok := backend.LastFrame()
	require.True(t, ok)
	require.Len(t, frame.Draws, 1)
	assert.True(t, mgl32.Vec3{3, 0, 0}.ApproxEqual(frame.Draws[0].Command.World.Col(3).Vec3()))

	snap, ok := e.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "test", snap.Name)
	require.Len(t, snap.Entities, 1)
	assert.True(t, mgl32.Vec3{3, 0, 0}.ApproxEqual(snap.Entities[0].WorldPosition))

	last, ok := e.LastFrame()
	require.True(t, ok)
	assert.Equal(t, info.Frame, last.Frame)
	assert.Equal(t, uint64(1), e.Frames())
}

func TestStepAdvancesAnimationAndCallback(t *testing.T) {
	s := newScene(t, true)
	e, _ := newEngine(t, s)
	crate, _ := s.FindByName("crate")

	e.Animator().AddSpin(animator.Spin{Target: crate.Transform(), Speed: mgl32.Vec3{0, 1, 0}})
	var ticks []float32
	e.SetTickCallback(func(dt float32) { ticks = append(ticks, dt) })

	_, err := e.Step(0.5)
	require.NoError(t, err)
	_, err = e.Step(0.25)
	require.NoError(t, err)

	assert.Equal(t, []float32{0.5, 0.25}, ticks)
	assert.InDelta(t, 0.75, crate.Transform().EulerRotation().Y(), 1e-6)
}

func TestStepDrivesCameraController(t *testing.T) {
	s := newScene(t, true)
	e, _ := newEngine(t, s, WithInput(keys{common.KeyW: true}))

	_, err := e.Step(0.5)
	require.NoError(t, err)
	assert.True(t, mgl32.Vec3{0, 0, -4}.ApproxEqualThreshold(s.ActiveCamera().Transform().Position(), 1e-5))
}

func TestStepWithoutCameraIsNotFatal(t *testing.T) {
	e, backend := newEngine(t, newScene(t, false))

	info, err := e.Step(1.0 / 60)
	require.NoError(t, err)
	assert.Zero(t, info.Render.Draws)
	assert.Zero(t, backend.Submitted())

	_, ok := e.Snapshot()
	assert.True(t, ok)
}

func TestStepWrapsBackendErrors(t *testing.T) {
	boom := stderrors.New("device lost")
	r := renderer.NewRenderer(failingBackend{err: boom})
	t.Cleanup(r.Close)
	e := NewEngine(newScene(t, true), r)

	_, err := e.Step(1.0 / 60)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, e.Frames())
}

func TestEnqueueQueueFull(t *testing.T) {
	e, _ := newEngine(t, newScene(t, true), WithQueueSize(1))

	noop := func(scene.Scene) {}
	require.NoError(t, e.Enqueue(noop))
	assert.ErrorIs(t, e.Enqueue(noop), ErrQueueFull)

	_, err := e.Step(0)
	require.NoError(t, err)
	assert.NoError(t, e.Enqueue(noop))
}

func TestCommandsQueuedDuringDrainWaitForNextFrame(t *testing.T) {
	e, _ := newEngine(t, newScene(t, true))

	var order []int
	require.NoError(t, e.Enqueue(func(scene.Scene) {
		order = append(order, 1)
		_ = e.Enqueue(func(scene.Scene) { order = append(order, 2) })
	}))

	info, err := e.Step(0)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Commands)
	assert.Equal(t, []int{1}, order)

	_, err = e.Step(0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, order)
}

func TestDoWaitsForResult(t *testing.T) {
	e, _ := newEngine(t, newScene(t, true), WithTickRate(1000))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	errNotFound := stderrors.New("not found")
	err := e.Do(ctx, func(s scene.Scene) error {
		if _, ok := s.FindByName("missing"); !ok {
			return errNotFound
		}
		return nil
	})
	assert.ErrorIs(t, err, errNotFound)

	var count int
	require.NoError(t, e.Do(ctx, func(s scene.Scene) error {
		count = s.Count()
		return nil
	}))
	assert.Equal(t, 1, count)

	cancel()
	require.NoError(t, <-done)
}

func TestDoHonoursContext(t *testing.T) {
	e, _ := newEngine(t, newScene(t, true))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := e.Do(ctx, func(scene.Scene) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunStopsAtFrameLimit(t *testing.T) {
	m := metrics.New()
	e, backend := newEngine(t, newScene(t, true), WithTickRate(1000), WithFrameLimit(5), WithMetrics(m))

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, uint64(5), e.Frames())
	assert.Equal(t, uint64(5), backend.Submitted())
	assert.Equal(t, 5.0, testutil.ToFloat64(m.Frames))
}

func TestRunRejectsSecondCaller(t *testing.T) {
	e, _ := newEngine(t, newScene(t, true), WithTickRate(1000))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	require.Eventually(t, func() bool { return e.Frames() > 0 }, time.Second, time.Millisecond)

	assert.ErrorIs(t, e.Run(ctx), ErrRunning)
	cancel()
	require.NoError(t, <-done)
}

func TestQuit(t *testing.T) {
	e, _ := newEngine(t, newScene(t, true), WithTickRate(1000))

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	e.Quit()
	e.Quit()
	require.NoError(t, <-done)
	assert.ErrorIs(t, e.Enqueue(func(scene.Scene) {}), ErrStopped)
	assert.ErrorIs(t, e.Do(context.Background(), func(scene.Scene) error { return nil }), ErrStopped)
}

func TestReplaceScene(t *testing.T) {
	m := metrics.New()
	old := newScene(t, true)
	old.Resize(800, 400)
	e, _ := newEngine(t, old, WithMetrics(m))

	crate, _ := old.FindByName("crate")
	e.Animator().AddSpin(animator.Spin{Target: crate.Transform(), Speed: mgl32.Vec3{1, 0, 0}})

	next := newScene(t, true)
	next.SetName("next")
	require.NoError(t, e.ReplaceScene(next, nil))

	_, err := e.Step(0.1)
	require.NoError(t, err)
	assert.Zero(t, e.Animator().Count())
	assert.Zero(t, crate.Transform().EulerRotation().X())

	snap, ok := e.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "next", snap.Name)
	assert.InDelta(t, 2.0, next.ActiveCamera().Aspect(), 1e-6)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SceneReloads))
}

func TestReplaceSceneWithAnimator(t *testing.T) {
	e, _ := newEngine(t, newScene(t, true))

	next := newScene(t, true)
	crate, _ := next.FindByName("crate")
	staged := animator.NewAnimator()
	staged.AddSpin(animator.Spin{Target: crate.Transform(), Speed: mgl32.Vec3{0, 2, 0}})
	require.NoError(t, e.ReplaceScene(next, staged))

	_, err := e.Step(0.5)
	require.NoError(t, err)
	assert.Same(t, staged, e.Animator())
	assert.InDelta(t, 1.0, crate.Transform().EulerRotation().Y(), 1e-6)
}

func TestWithTickRate(t *testing.T) {
	s := newScene(t, false)
	r := renderer.NewRenderer(renderer.NewRecordingBackend(1))
	t.Cleanup(r.Close)

	e := NewEngine(s, r, WithTickRate(0)).(*engine)
	assert.Equal(t, time.Second/60, e.engineTickRate)

	e = NewEngine(s, r, WithTickRate(200)).(*engine)
	assert.Equal(t, 5*time.Millisecond, e.engineTickRate)
}

func TestNewEnginePanicsOnNil(t *testing.T) {
	r := renderer.NewRenderer(renderer.NewRecordingBackend(1))
	t.Cleanup(r.Close)
	assert.Panics(t, func() { NewEngine(nil, r) })
	assert.Panics(t, func() { NewEngine(newScene(t, false), nil) })
}

package animator

import (
	"testing"

	"github.com/Carmen-Shannon/contraption/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasingEndpoints(t *testing.T) {
	for _, name := range EasingNames() {
		fn, ok := Easing(name)
		require.True(t, ok, name)
		assert.InDelta(t, 0, fn(0), 1e-4, name)
		assert.InDelta(t, 1, fn(1), 1e-4, name)
	}
}

func TestEasingLookup(t *testing.T) {
	names := EasingNames()
	assert.Len(t, names, 31)
	assert.IsIncreasing(t, names)

	_, ok := Easing("EaseSideways")
	assert.False(t, ok)
}

func TestEasingShapes(t *testing.T) {
	assert.Less(t, EaseInQuad(0.5), float32(0.5))
	assert.Greater(t, EaseOutQuad(0.5), float32(0.5))
	assert.InDelta(t, 0.5, EaseInOutCubic(0.5), 1e-6)
	assert.Less(t, EaseInBack(0.2), float32(0), "back overshoots below zero")
	assert.Greater(t, EaseOutBack(0.8), float32(1), "back overshoots above one")
}

func TestPlot(t *testing.T) {
	samples := Plot(Linear)
	require.Len(t, samples, PlotSamples)
	assert.Equal(t, float32(0), samples[0])
	assert.InDelta(t, 0.5, samples[60], 1e-6)
	assert.InDelta(t, float64(119)/120, samples[119], 1e-6)
}

func newNode(t *testing.T) (transform.Graph, transform.Transform) {
	t.Helper()
	g := transform.NewGraph()
	return g, g.New(transform.WithName("mover"))
}

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-5), "want %v got %v", want, got)
}

func TestTweenOnce(t *testing.T) {
	_, node := newNode(t)
	node.SetPosition(9, 9, 9)
	a := NewAnimator()

	a.AddTween(Tween{Target: node, Property: PropertyPosition, To: mgl32.Vec3{10, 0, 0}, Duration: 2})
	assertVec(t, mgl32.Vec3{}, node.Position())

	a.Update(1)
	assertVec(t, mgl32.Vec3{5, 0, 0}, node.Position())
	assert.Equal(t, 1, a.Count())

	a.Update(1.5)
	assertVec(t, mgl32.Vec3{10, 0, 0}, node.Position())
	assert.Zero(t, a.Count())
}

func TestTweenMarksWorldDirty(t *testing.T) {
	g, node := newNode(t)
	child := g.New()
	require.NoError(t, node.AddChild(child, false))
	child.SetPosition(0, 1, 0)
	a := NewAnimator()

	a.AddTween(Tween{Target: node, Property: PropertyScale, From: mgl32.Vec3{1, 1, 1}, To: mgl32.Vec3{3, 3, 3}, Duration: 1})
	a.Update(1)
	assertVec(t, mgl32.Vec3{0, 3, 0}, child.WorldPosition())
}

func TestTweenRepeat(t *testing.T) {
	_, node := newNode(t)
	a := NewAnimator()
	a.AddTween(Tween{Target: node, Property: PropertyPosition, To: mgl32.Vec3{0, 8, 0}, Duration: 2, Loop: LoopRepeat})

	a.Update(2.5)
	assertVec(t, mgl32.Vec3{0, 2, 0}, node.Position())
	assert.Equal(t, 1, a.Count())
}

func TestTweenPingPong(t *testing.T) {
	_, node := newNode(t)
	a := NewAnimator()
	a.AddTween(Tween{Target: node, Property: PropertyPosition, To: mgl32.Vec3{10, 0, 0}, Duration: 2, Loop: LoopPingPong})

	a.Update(3)
	assertVec(t, mgl32.Vec3{5, 0, 0}, node.Position())
	a.Update(0.5)
	assertVec(t, mgl32.Vec3{2.5, 0, 0}, node.Position())
	a.Update(1)
	assertVec(t, mgl32.Vec3{2.5, 0, 0}, node.Position())
}

func TestTweenDelayAndEasing(t *testing.T) {
	_, node := newNode(t)
	a := NewAnimator()
	a.AddTween(Tween{
		Target:   node,
		Property: PropertyRotation,
		To:       mgl32.Vec3{0, 4, 0},
		Duration: 1,
		Delay:    1,
		Easing:   EaseInQuad,
	})

	a.Update(0.5)
	assertVec(t, mgl32.Vec3{}, node.EulerRotation())
	a.Update(1)
	assertVec(t, mgl32.Vec3{0, 1, 0}, node.EulerRotation())
}

func TestZeroDurationTweenCompletesImmediately(t *testing.T) {
	_, node := newNode(t)
	a := NewAnimator()
	a.AddTween(Tween{Target: node, Property: PropertyPosition, To: mgl32.Vec3{1, 2, 3}})

	a.Update(0)
	assertVec(t, mgl32.Vec3{1, 2, 3}, node.Position())
	assert.Zero(t, a.Count())
}

func TestSpin(t *testing.T) {
	_, node := newNode(t)
	a := NewAnimator()
	id := a.AddSpin(Spin{Target: node, Speed: mgl32.Vec3{0, 2, 0}})

	a.Update(0.25)
	a.Update(0.25)
	assertVec(t, mgl32.Vec3{0, 1, 0}, node.EulerRotation())

	assert.True(t, a.Remove(id))
	assert.False(t, a.Remove(id))
	a.Update(1)
	assertVec(t, mgl32.Vec3{0, 1, 0}, node.EulerRotation())
}

func TestDestroyedTargetIsDropped(t *testing.T) {
	g, node := newNode(t)
	a := NewAnimator()
	a.AddSpin(Spin{Target: node, Speed: mgl32.Vec3{1, 0, 0}})
	a.AddTween(Tween{Target: node, Property: PropertyScale, To: mgl32.Vec3{2, 2, 2}, Duration: 1})
	require.Equal(t, 2, a.Count())

	require.NoError(t, g.Destroy(node.ID()))
	assert.NotPanics(t, func() { a.Update(0.1) })
	assert.Zero(t, a.Count())
}

func TestClear(t *testing.T) {
	_, node := newNode(t)
	a := NewAnimator()
	a.AddSpin(Spin{Target: node, Speed: mgl32.Vec3{1, 0, 0}})
	a.AddSpin(Spin{Target: node, Speed: mgl32.Vec3{0, 1, 0}})
	a.Clear()
	assert.Zero(t, a.Count())
}

func TestParseProperty(t *testing.T) {
	p, ok := ParseProperty("scale")
	assert.True(t, ok)
	assert.Equal(t, PropertyScale, p)

	_, ok = ParseProperty("colour")
	assert.False(t, ok)
	assert.Equal(t, "Property(7)", Property(7).String())
}

package transform

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovedRootCarriesRelativeChild(t *testing.T) {
	g := NewGraph()
	root := g.New()
	child := g.New(WithPosition(1, 0, 0))

	require.NoError(t, child.SetParent(root, true))
	root.MoveAbs(5, 0, 0)

	assertVec3(t, mgl32.Vec3{6, 0, 0}, child.WorldPosition())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, child.Position())
}

func TestWorldIsParentWorldTimesLocal(t *testing.T) {
	g := NewGraph()
	parent := g.New(WithPosition(1, 2, 3), WithEulerRotation(0.2, 0.4, 0.1), WithScale(2, 1, 3))
	child := g.New(WithPosition(0, 1, 0), WithEulerRotation(0, 1, 0))
	require.NoError(t, parent.AddChild(child, false))

	assert.Equal(t, parent.WorldMatrix().Mul4(child.LocalMatrix()), child.WorldMatrix())
	assertMat4(t, child.WorldMatrix().Inv().Transpose(), child.WorldInverseTransposeMatrix())
}

func TestSetParentPreservesWorldPose(t *testing.T) {
	g := NewGraph()
	parent := g.New(WithPosition(3, -2, 7), WithEulerRotation(0.3, 1.1, -0.4), WithUniformScale(2))
	child := g.New(WithPosition(-1, 4, 2), WithEulerRotation(-0.2, 0.5, 0.9), WithScale(1, 3, 0.5))

	before := child.WorldMatrix()
	require.NoError(t, child.SetParent(parent, true))

	assertMat4(t, before, child.WorldMatrix())
	assert.Equal(t, parent, child.Parent())
}

func TestSetParentWithoutRelativeKeepsLocal(t *testing.T) {
	g := NewGraph()
	parent := g.New(WithPosition(10, 0, 0))
	child := g.New(WithPosition(1, 0, 0))

	require.NoError(t, child.SetParent(parent, false))

	assert.Equal(t, mgl32.Vec3{1, 0, 0}, child.Position())
	assertVec3(t, mgl32.Vec3{11, 0, 0}, child.WorldPosition())
}

func TestReparentBetweenParentsPreservesPose(t *testing.T) {
	g := NewGraph()
	a := g.New(WithPosition(5, 0, 0), WithEulerRotation(0, math32.Pi/2, 0))
	b := g.New(WithPosition(0, 3, 0), WithUniformScale(0.5))
	child := g.New(WithPosition(0, 0, 2))
	require.NoError(t, a.AddChild(child, false))

	before := child.WorldMatrix()
	require.NoError(t, child.SetParent(b, true))

	assertMat4(t, before, child.WorldMatrix())
	assert.Equal(t, 0, a.ChildCount())
	assert.Equal(t, 1, b.ChildCount())
}

func TestSetParentToSameParentIsNoop(t *testing.T) {
	g := NewGraph()
	parent := g.New()
	a := g.New()
	b := g.New()
	require.NoError(t, parent.AddChild(a, false))
	require.NoError(t, parent.AddChild(b, false))

	require.NoError(t, a.SetParent(parent, true))
	assert.Equal(t, 0, a.ChildIndex())
	assert.Equal(t, 1, b.ChildIndex())
}

func TestSetParentNilDetaches(t *testing.T) {
	g := NewGraph()
	parent := g.New(WithPosition(2, 0, 0))
	child := g.New(WithPosition(1, 0, 0))
	require.NoError(t, parent.AddChild(child, false))

	require.NoError(t, child.SetParent(nil, true))

	assert.Nil(t, child.Parent())
	assert.Equal(t, -1, child.ChildIndex())
	assertVec3(t, mgl32.Vec3{3, 0, 0}, child.Position())
	assert.Contains(t, g.Roots(), child)
}

func TestCyclicParentIsRejected(t *testing.T) {
	g := NewGraph()
	a := g.New()
	b := g.New()
	c := g.New()
	require.NoError(t, a.AddChild(b, false))
	require.NoError(t, b.AddChild(c, false))

	assert.ErrorIs(t, a.SetParent(a, false), ErrCyclicParent)
	assert.ErrorIs(t, a.SetParent(c, false), ErrCyclicParent)
	assert.ErrorIs(t, c.AddChild(a, true), ErrCyclicParent)

	assert.Nil(t, a.Parent())
	assert.Equal(t, b, c.Parent())
}

func TestForeignNodesAreRejected(t *testing.T) {
	a := NewGraph().New()
	b := NewGraph().New()

	assert.ErrorIs(t, a.SetParent(b, false), ErrForeignNode)
	assert.ErrorIs(t, a.AddChild(b, false), ErrForeignNode)
	assert.ErrorIs(t, a.RemoveChild(b, false), ErrForeignNode)
	assert.Equal(t, -1, a.IndexOfChild(b))
}

func TestRemoveChildApplyParentTransform(t *testing.T) {
	g := NewGraph()
	parent := g.New(WithPosition(0, 5, 0), WithEulerRotation(0, 0.8, 0), WithUniformScale(3))
	child := g.New(WithPosition(1, 1, 1), WithEulerRotation(0.2, 0, 0))
	require.NoError(t, parent.AddChild(child, false))

	before := child.WorldMatrix()
	require.NoError(t, parent.RemoveChild(child, true))

	assert.Nil(t, child.Parent())
	assertMat4(t, before, child.WorldMatrix())
}

func TestRemoveChildKeepsLocalValues(t *testing.T) {
	g := NewGraph()
	parent := g.New(WithPosition(0, 5, 0))
	child := g.New(WithPosition(1, 1, 1))
	require.NoError(t, parent.AddChild(child, false))

	require.NoError(t, parent.RemoveChild(child, false))

	assert.Equal(t, mgl32.Vec3{1, 1, 1}, child.Position())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, child.WorldPosition())
}

func TestRemoveChildRejectsNonChild(t *testing.T) {
	g := NewGraph()
	parent := g.New()
	grandchild := g.New()
	child := g.New()
	require.NoError(t, parent.AddChild(child, false))
	require.NoError(t, child.AddChild(grandchild, false))

	assert.ErrorIs(t, parent.RemoveChild(grandchild, false), ErrNotChild)
	assert.ErrorIs(t, parent.RemoveChild(parent, false), ErrNotChild)
	assert.Equal(t, child, grandchild.Parent())
}

func TestChildIndexErrors(t *testing.T) {
	g := NewGraph()
	parent := g.New()
	require.NoError(t, parent.AddChild(g.New(), false))

	_, err := parent.Child(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = parent.Child(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, parent.RemoveChildByIndex(1, false), ErrIndexOutOfRange)
	assert.ErrorIs(t, parent.RemoveChildByIndex(-1, false), ErrIndexOutOfRange)

	c, err := parent.Child(0)
	require.NoError(t, err)
	assert.Equal(t, parent, c.Parent())
}

func TestChildIndexStaysConsistent(t *testing.T) {
	g := NewGraph()
	parent := g.New()
	children := make([]Transform, 5)
	for i := range children {
		children[i] = g.New()
		require.NoError(t, parent.AddChild(children[i], false))
	}

	require.NoError(t, parent.RemoveChildByIndex(1, false))
	require.NoError(t, parent.RemoveChild(children[3], false))

	remaining := parent.Children()
	assert.Equal(t, []Transform{children[0], children[2], children[4]}, remaining)
	for i, c := range remaining {
		assert.Equal(t, i, c.ChildIndex())
		assert.Equal(t, i, parent.IndexOfChild(c))
		got, err := parent.Child(i)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	assert.Equal(t, -1, parent.IndexOfChild(children[1]))
	assert.Equal(t, -1, children[1].ChildIndex())
	assert.Equal(t, -1, children[3].ChildIndex())
}

func TestDeepMutationPropagates(t *testing.T) {
	g := NewGraph()
	chain := []Transform{g.New()}
	for i := 1; i < 8; i++ {
		n := g.New(WithPosition(0, 1, 0), WithEulerRotation(0, 0.1, 0))
		require.NoError(t, chain[i-1].AddChild(n, false))
		chain = append(chain, n)
	}
	leaf := chain[len(chain)-1]
	leaf.WorldMatrix()

	chain[0].SetPosition(0, 0, 10)

	expected := mgl32.Ident4()
	for _, n := range chain {
		expected = expected.Mul4(n.LocalMatrix())
	}
	assertMat4(t, expected, leaf.WorldMatrix())
	assertVec3(t, mgl32.Vec3{0, 7, 10}, leaf.WorldPosition())
}

func TestMutationOnlyDirtiesSubtree(t *testing.T) {
	g := NewGraph()
	root := g.New()
	a := g.New()
	b := g.New()
	require.NoError(t, root.AddChild(a, false))
	require.NoError(t, root.AddChild(b, false))
	a.WorldMatrix()
	b.WorldMatrix()
	g.ResetStats()

	a.MoveAbs(1, 0, 0)
	b.WorldMatrix()
	root.WorldMatrix()
	assert.Equal(t, uint64(0), g.Stats().MatrixRecomputes)

	a.WorldMatrix()
	assert.Equal(t, uint64(1), g.Stats().MatrixRecomputes)
}

func TestParentRotationDoesNotDirtyChildDirections(t *testing.T) {
	g := NewGraph()
	parent := g.New()
	child := g.New()
	require.NoError(t, parent.AddChild(child, false))
	child.Forward()
	g.ResetStats()

	parent.RotateEuler(0, math32.Pi/2, 0)

	assertVec3(t, mgl32.Vec3{0, 0, 1}, child.Forward())
	assert.Equal(t, uint64(0), g.Stats().DirectionRecomputes)
	assert.Equal(t, uint64(0), g.Stats().MatrixRecomputes)
}

func TestChildrenAreInInsertionOrder(t *testing.T) {
	g := NewGraph()
	parent := g.New()
	a, b, c := g.New(WithName("a")), g.New(WithName("b")), g.New(WithName("c"))
	require.NoError(t, parent.AddChild(b, false))
	require.NoError(t, parent.AddChild(a, false))
	require.NoError(t, parent.AddChild(c, false))

	names := []string{}
	for _, ch := range parent.Children() {
		names = append(names, ch.Name())
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)
	assert.Equal(t, 3, parent.ChildCount())
}

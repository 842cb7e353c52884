package transform

import (
	"github.com/Carmen-Shannon/contraption/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a handle to one node of a Graph: its local position, euler
// rotation and scale, the lazily derived matrices and direction vectors, and
// its place in the parent/child hierarchy.
//
// Setters mutate local state and mark caches dirty; matrix and direction
// getters recompute on the first read after a mutation and return the cached
// value until the next one. Handles are comparable values: two handles are
// equal when they name the same node of the same graph. Using a handle after
// its node was destroyed panics.
type Transform interface {
	// ID returns the node ID this handle refers to.
	//
	// Returns:
	//   - NodeID: the node ID
	ID() NodeID

	// Graph returns the graph owning this node.
	//
	// Returns:
	//   - Graph: the owning graph
	Graph() Graph

	// Valid reports whether the node is still alive.
	//
	// Returns:
	//   - bool: true if the node has not been destroyed
	Valid() bool

	// Name returns the node name.
	//
	// Returns:
	//   - string: the name, possibly empty
	Name() string

	// SetName sets the node name.
	//
	// Parameters:
	//   - name: the new name
	SetName(name string)

	// Position returns the local position.
	//
	// Returns:
	//   - mgl32.Vec3: position relative to the parent
	Position() mgl32.Vec3

	// EulerRotation returns the local rotation as (pitch, yaw, roll) radians.
	//
	// Returns:
	//   - mgl32.Vec3: the euler angles
	EulerRotation() mgl32.Vec3

	// LocalScale returns the local per-axis scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale factors
	LocalScale() mgl32.Vec3

	// SetPosition overwrites the local position.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetPositionV overwrites the local position from a vector.
	//
	// Parameters:
	//   - v: the new position
	SetPositionV(v mgl32.Vec3)

	// SetEulerRotation overwrites the local rotation.
	//
	// Parameters:
	//   - pitch, yaw, roll: angles in radians
	SetEulerRotation(pitch, yaw, roll float32)

	// SetEulerRotationV overwrites the local rotation from a vector.
	//
	// Parameters:
	//   - v: (pitch, yaw, roll) in radians
	SetEulerRotationV(v mgl32.Vec3)

	// SetScale overwrites the local scale.
	//
	// Parameters:
	//   - x, y, z: scale factors
	SetScale(x, y, z float32)

	// SetScaleV overwrites the local scale from a vector.
	//
	// Parameters:
	//   - v: the new scale
	SetScaleV(v mgl32.Vec3)

	// SetUniformScale sets all three scale components to s.
	//
	// Parameters:
	//   - s: scale factor
	SetUniformScale(s float32)

	// MoveAbs offsets the position along the parent's axes, ignoring this
	// node's own rotation.
	//
	// Parameters:
	//   - x, y, z: offset components
	MoveAbs(x, y, z float32)

	// MoveAbsV offsets the position along the parent's axes.
	//
	// Parameters:
	//   - delta: the offset
	MoveAbsV(delta mgl32.Vec3)

	// MoveRelative offsets the position along this node's local orientation:
	// the offset is rotated by the node's rotation before being added.
	//
	// Parameters:
	//   - x, y, z: offset components in local axes
	MoveRelative(x, y, z float32)

	// MoveRelativeV offsets the position along this node's local orientation.
	//
	// Parameters:
	//   - delta: the offset in local axes
	MoveRelativeV(delta mgl32.Vec3)

	// RotateEuler adds to each euler angle component-wise. This is not a
	// quaternion composition, so gimbal behavior depends on the accumulated angles.
	//
	// Parameters:
	//   - pitch, yaw, roll: angle deltas in radians
	RotateEuler(pitch, yaw, roll float32)

	// RotateEulerV adds delta to the euler angles component-wise.
	//
	// Parameters:
	//   - delta: (pitch, yaw, roll) deltas in radians
	RotateEulerV(delta mgl32.Vec3)

	// Scale adds to each scale component. Scaling is additive, not multiplicative.
	//
	// Parameters:
	//   - x, y, z: scale deltas
	Scale(x, y, z float32)

	// ScaleV adds delta to the scale.
	//
	// Parameters:
	//   - delta: scale deltas
	ScaleV(delta mgl32.Vec3)

	// ScaleUniform adds s to every scale component.
	//
	// Parameters:
	//   - s: scale delta
	ScaleUniform(s float32)

	// LocalMatrix returns T * R * S for the local pose.
	//
	// Returns:
	//   - mgl32.Mat4: the local matrix
	LocalMatrix() mgl32.Mat4

	// WorldMatrix returns the parent's world matrix times the local matrix, or
	// the local matrix for a root.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix() mgl32.Mat4

	// WorldInverseTransposeMatrix returns the inverse transpose of the world
	// matrix, used to transform normals.
	//
	// Returns:
	//   - mgl32.Mat4: the world inverse transpose matrix
	WorldInverseTransposeMatrix() mgl32.Mat4

	// WorldPosition returns the translation of the resolved world matrix.
	//
	// Returns:
	//   - mgl32.Vec3: position in world space
	WorldPosition() mgl32.Vec3

	// Right returns (1, 0, 0) rotated by the local rotation.
	//
	// Returns:
	//   - mgl32.Vec3: the right vector
	Right() mgl32.Vec3

	// Up returns (0, 1, 0) rotated by the local rotation.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// Forward returns (0, 0, 1) rotated by the local rotation.
	//
	// Returns:
	//   - mgl32.Vec3: the forward vector
	Forward() mgl32.Vec3

	// Parent returns the parent handle, or nil for a root.
	//
	// Returns:
	//   - Transform: the parent or nil
	Parent() Transform

	// SetParent detaches this node from its current parent and attaches it
	// to parent. A nil parent makes the node a root. When makeChildRelative is
	// true the local pose is recomputed so the world pose is unchanged;
	// otherwise the local values are kept and the world pose follows the new parent.
	//
	// Parameters:
	//   - parent: the new parent, or nil
	//   - makeChildRelative: preserve the world pose across the change
	//
	// Returns:
	//   - error: ErrCyclicParent, ErrForeignNode or ErrInvalidNode
	SetParent(parent Transform, makeChildRelative bool) error

	// AddChild is child.SetParent(this, makeChildRelative).
	//
	// Parameters:
	//   - child: the node to adopt
	//   - makeChildRelative: preserve the child's world pose
	//
	// Returns:
	//   - error: ErrCyclicParent, ErrForeignNode or ErrInvalidNode
	AddChild(child Transform, makeChildRelative bool) error

	// RemoveChild detaches a direct child, making it a root. When
	// applyParentTransform is true this node's world transform is baked into
	// the child's local values so its world pose is preserved.
	//
	// Parameters:
	//   - child: the child to detach
	//   - applyParentTransform: preserve the child's world pose
	//
	// Returns:
	//   - error: ErrNotChild, ErrForeignNode or ErrInvalidNode
	RemoveChild(child Transform, applyParentTransform bool) error

	// RemoveChildByIndex detaches the child at index.
	//
	// Parameters:
	//   - index: position in the children sequence
	//   - applyParentTransform: preserve the child's world pose
	//
	// Returns:
	//   - error: ErrIndexOutOfRange when index is invalid
	RemoveChildByIndex(index int, applyParentTransform bool) error

	// Child returns the child at index.
	//
	// Parameters:
	//   - index: position in the children sequence
	//
	// Returns:
	//   - Transform: the child handle
	//   - error: ErrIndexOutOfRange when index is invalid
	Child(index int) (Transform, error)

	// IndexOfChild returns the position of child among this node's children.
	//
	// Parameters:
	//   - child: the node to look up
	//
	// Returns:
	//   - int: the index, or -1 if child is not a direct child
	IndexOfChild(child Transform) int

	// ChildCount returns the number of direct children.
	//
	// Returns:
	//   - int: child count
	ChildCount() int

	// Children returns the direct children in insertion order.
	//
	// Returns:
	//   - []Transform: child handles
	Children() []Transform

	// ChildIndex returns this node's index within its parent's children, or -1 for a root.
	//
	// Returns:
	//   - int: the index or -1
	ChildIndex() int
}

// handle is the Transform implementation. It is a value type so that
// interface comparison compares graph and ID.
type handle struct {
	g  *graph
	id NodeID
}

var _ Transform = handle{}

func (h handle) n() *node {
	return h.g.mustNode(h.id)
}

func (h handle) ID() NodeID {
	return h.id
}

func (h handle) Graph() Graph {
	return h.g
}

func (h handle) Valid() bool {
	return h.g.Valid(h.id)
}

func (h handle) Name() string {
	return h.n().name
}

func (h handle) SetName(name string) {
	h.n().name = name
}

func (h handle) Position() mgl32.Vec3 {
	return h.n().position
}

func (h handle) EulerRotation() mgl32.Vec3 {
	return h.n().eulerRotation
}

func (h handle) LocalScale() mgl32.Vec3 {
	return h.n().scale
}

func (h handle) SetPosition(x, y, z float32) {
	h.SetPositionV(mgl32.Vec3{x, y, z})
}

func (h handle) SetPositionV(v mgl32.Vec3) {
	h.n().position = v
	h.g.markMatrixDirty(h.id.index)
}

func (h handle) SetEulerRotation(pitch, yaw, roll float32) {
	h.SetEulerRotationV(mgl32.Vec3{pitch, yaw, roll})
}

func (h handle) SetEulerRotationV(v mgl32.Vec3) {
	n := h.n()
	n.eulerRotation = v
	n.directionDirty = true
	h.g.markMatrixDirty(h.id.index)
}

func (h handle) SetScale(x, y, z float32) {
	h.SetScaleV(mgl32.Vec3{x, y, z})
}

func (h handle) SetScaleV(v mgl32.Vec3) {
	h.n().scale = v
	h.g.markMatrixDirty(h.id.index)
}

func (h handle) SetUniformScale(s float32) {
	h.SetScaleV(mgl32.Vec3{s, s, s})
}

func (h handle) MoveAbs(x, y, z float32) {
	h.MoveAbsV(mgl32.Vec3{x, y, z})
}

func (h handle) MoveAbsV(delta mgl32.Vec3) {
	n := h.n()
	n.position = n.position.Add(delta)
	h.g.markMatrixDirty(h.id.index)
}

func (h handle) MoveRelative(x, y, z float32) {
	h.MoveRelativeV(mgl32.Vec3{x, y, z})
}

func (h handle) MoveRelativeV(delta mgl32.Vec3) {
	n := h.n()
	n.position = n.position.Add(common.EulerToQuat(n.eulerRotation).Rotate(delta))
	h.g.markMatrixDirty(h.id.index)
}

func (h handle) RotateEuler(pitch, yaw, roll float32) {
	h.RotateEulerV(mgl32.Vec3{pitch, yaw, roll})
}

func (h handle) RotateEulerV(delta mgl32.Vec3) {
	n := h.n()
	n.eulerRotation = n.eulerRotation.Add(delta)
	n.directionDirty = true
	h.g.markMatrixDirty(h.id.index)
}

func (h handle) Scale(x, y, z float32) {
	h.ScaleV(mgl32.Vec3{x, y, z})
}

func (h handle) ScaleV(delta mgl32.Vec3) {
	n := h.n()
	n.scale = n.scale.Add(delta)
	h.g.markMatrixDirty(h.id.index)
}

func (h handle) ScaleUniform(s float32) {
	h.ScaleV(mgl32.Vec3{s, s, s})
}

func (h handle) LocalMatrix() mgl32.Mat4 {
	h.n()
	h.g.resolveMatrices(h.id.index)
	return h.g.nodes[h.id.index].local
}

func (h handle) WorldMatrix() mgl32.Mat4 {
	h.n()
	return h.g.worldMatrix(h.id.index)
}

func (h handle) WorldInverseTransposeMatrix() mgl32.Mat4 {
	h.n()
	h.g.resolveMatrices(h.id.index)
	return h.g.nodes[h.id.index].worldInvTranspose
}

func (h handle) WorldPosition() mgl32.Vec3 {
	return h.WorldMatrix().Col(3).Vec3()
}

func (h handle) Right() mgl32.Vec3 {
	h.n()
	h.g.resolveDirections(h.id.index)
	return h.g.nodes[h.id.index].right
}

func (h handle) Up() mgl32.Vec3 {
	h.n()
	h.g.resolveDirections(h.id.index)
	return h.g.nodes[h.id.index].up
}

func (h handle) Forward() mgl32.Vec3 {
	h.n()
	h.g.resolveDirections(h.id.index)
	return h.g.nodes[h.id.index].forward
}

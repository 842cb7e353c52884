package camera

import (
	"github.com/Carmen-Shannon/contraption/common"
	"github.com/Carmen-Shannon/contraption/engine/transform"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultNear = 0.01
	defaultFar  = 1000.0
)

type cameraImpl struct {
	transform transform.Transform

	up mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	moveSpeed        float32
	sprintMultiplier float32
	lookSpeed        float32

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4
	projectionDirty      bool

	// pose the view matrix was built from
	viewEye, viewForward, viewUp mgl32.Vec3
	viewValid                    bool

	controller CameraController
}

// Camera defines the interface for a perspective camera.
// The camera owns a transform node whose position and forward vector drive a
// left-handed look-to view matrix. Both matrices are rebuilt lazily: the view
// when the transform's world pose or the up hint changed, the projection when
// fov, aspect or clip planes changed. Like the transform graph it lives in, a Camera
// is not safe for concurrent use.
type Camera interface {
	// Transform returns the node that positions and orients the camera.
	//
	// Returns:
	//   - transform.Transform: the camera's transform
	Transform() transform.Transform

	// Up returns the world up hint used to build the view matrix.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// MoveSpeed returns the fly speed in units per second.
	//
	// Returns:
	//   - float32: movement speed
	MoveSpeed() float32

	// SprintMultiplier returns the factor applied to MoveSpeed while sprinting.
	//
	// Returns:
	//   - float32: sprint multiplier
	SprintMultiplier() float32

	// LookSpeed returns the mouse-look speed in radians per pixel of mouse movement.
	//
	// Returns:
	//   - float32: look speed
	LookSpeed() float32

	// ViewMatrix returns the view matrix for the transform's current world pose.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the perspective projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Frustum returns the view frustum planes for culling.
	//
	// Returns:
	//   - common.Frustum: normalized frustum planes
	Frustum() common.Frustum

	// Uniform returns the per-frame camera uniform for GPU upload.
	//
	// Returns:
	//   - GPUCameraUniform: view, projection and world position
	Uniform() GPUCameraUniform

	// Controller returns the attached CameraController, or nil.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// Update brings the view and projection matrices up to date. The matrix
	// accessors do this on their own; calling it once per frame after input is
	// applied keeps the per-frame cost in one place.
	Update()

	// SetUp sets the world up hint.
	//
	// Parameters:
	//   - x, y, z: up vector components
	SetUp(x, y, z float32)

	// SetFov sets the vertical field of view in radians.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height).
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// Resize updates the aspect ratio from a viewport size. Zero sizes are ignored.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	Resize(width, height int)

	// SetMoveSpeed sets the fly speed in units per second.
	//
	// Parameters:
	//   - speed: movement speed
	SetMoveSpeed(speed float32)

	// SetController attaches a CameraController to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach, or nil to detach
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera whose transform is a new root node in graph.
// Defaults follow the demo cameras: 45 degree fov, near 0.01, far 1000,
// move speed 1, sprint multiplier 10, look speed 0.005 radians per pixel.
//
// Parameters:
//   - graph: the transform graph that owns the camera node
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(graph transform.Graph, options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		transform:        graph.New(transform.WithName("camera")),
		up:               common.AxisUp,
		fov:              math32.Pi / 4,
		aspect:           1.0,
		near:             defaultNear,
		far:              defaultFar,
		moveSpeed:        1.0,
		sprintMultiplier: 10.0,
		lookSpeed:        0.005,
		projectionDirty:  true,
	}
	for _, option := range options {
		option(c)
	}
	c.Update()
	return c
}

func (c *cameraImpl) Transform() transform.Transform {
	return c.transform
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) MoveSpeed() float32 {
	return c.moveSpeed
}

func (c *cameraImpl) SprintMultiplier() float32 {
	return c.sprintMultiplier
}

func (c *cameraImpl) LookSpeed() float32 {
	return c.lookSpeed
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.updateView()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.updateProjection()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.Update()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Frustum() common.Frustum {
	return common.ExtractFrustum(c.ViewProjectionMatrix())
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	return GPUCameraUniform{
		View:           c.ViewMatrix(),
		Projection:     c.ProjectionMatrix(),
		CameraPosition: c.transform.WorldPosition(),
	}
}

func (c *cameraImpl) Controller() CameraController {
	return c.controller
}

func (c *cameraImpl) Update() {
	c.updateProjection()
	c.updateView()
}

func (c *cameraImpl) SetUp(x, y, z float32) {
	c.up = mgl32.Vec3{x, y, z}
}

func (c *cameraImpl) SetFov(fov float32) {
	c.fov = fov
	c.projectionDirty = true
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.aspect = aspect
	c.projectionDirty = true
}

func (c *cameraImpl) SetNear(near float32) {
	c.near = near
	c.projectionDirty = true
}

func (c *cameraImpl) SetFar(far float32) {
	c.far = far
	c.projectionDirty = true
}

func (c *cameraImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.SetAspect(float32(width) / float32(height))
}

func (c *cameraImpl) SetMoveSpeed(speed float32) {
	c.moveSpeed = speed
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.controller = ctrl
}

// updateProjection rebuilds the projection when a lens parameter changed.
func (c *cameraImpl) updateProjection() {
	if !c.projectionDirty {
		return
	}
	c.projectionMatrix = common.PerspectiveFovLH(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	c.projectionDirty = false
}

// updateView rebuilds the view when the eye, forward or up vector moved since
// it was last built.
func (c *cameraImpl) updateView() {
	eye, forward := c.transform.WorldPosition(), c.worldForward()
	if c.viewValid && eye == c.viewEye && forward == c.viewForward && c.up == c.viewUp {
		return
	}
	c.viewMatrix = common.LookToLH(eye, forward, c.up)
	c.viewEye, c.viewForward, c.viewUp = eye, forward, c.up
	c.viewValid = true
	c.updateProjection()
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}

// worldForward is the camera's local forward carried through its parent chain.
func (c *cameraImpl) worldForward() mgl32.Vec3 {
	parent := c.transform.Parent()
	if parent == nil {
		return c.transform.Forward()
	}
	return parent.WorldMatrix().Mul4x1(c.transform.Forward().Vec4(0)).Vec3()
}

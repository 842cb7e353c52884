package camera

import (
	"github.com/Carmen-Shannon/contraption/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// flyController is a free-flight controller: WASD moves along the camera's own
// axes, Space and X move along the parent's vertical axis, shift sprints, and
// dragging with the look button turns the camera.
type flyController struct {
	maxPitch   float32
	lookButton int
	alwaysLook bool
}

// Compile-time interface compliance check
var _ CameraController = &flyController{}

// NewFlyController creates a fly-style CameraController.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewFlyController(options ...CameraControllerOption) CameraController {
	fc := &flyController{
		maxPitch:   math32.Pi/2 - 0.01,
		lookButton: common.MouseButtonLeft,
	}
	for _, option := range options {
		option(fc)
	}
	return fc
}

func (fc *flyController) Update(cam Camera, input Input, dt float32) {
	if cam == nil || input == nil {
		return
	}
	t := cam.Transform()

	speed := cam.MoveSpeed() * dt
	if input.KeyDown(common.KeyLeftShift) || input.KeyDown(common.KeyRightShift) {
		speed *= cam.SprintMultiplier()
	}

	var local mgl32.Vec3
	if input.KeyDown(common.KeyW) {
		local[2] += speed
	}
	if input.KeyDown(common.KeyS) {
		local[2] -= speed
	}
	if input.KeyDown(common.KeyD) {
		local[0] += speed
	}
	if input.KeyDown(common.KeyA) {
		local[0] -= speed
	}
	if local != (mgl32.Vec3{}) {
		t.MoveRelativeV(local)
	}

	var vertical float32
	if input.KeyDown(common.KeySpace) {
		vertical += speed
	}
	if input.KeyDown(common.KeyX) {
		vertical -= speed
	}
	if vertical != 0 {
		t.MoveAbs(0, vertical, 0)
	}

	if !fc.alwaysLook && !input.MouseButtonDown(fc.lookButton) {
		return
	}
	dx, dy := input.MouseDelta()
	if dx == 0 && dy == 0 {
		return
	}
	look := cam.LookSpeed()
	rot := t.EulerRotation()
	rot[0] = mgl32.Clamp(rot[0]+dy*look, -fc.maxPitch, fc.maxPitch)
	rot[1] += dx * look
	t.SetEulerRotationV(rot)
}

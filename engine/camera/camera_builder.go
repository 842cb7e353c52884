package camera

import "github.com/go-gl/mathgl/mgl32"

type CameraBuilderOption func(*cameraImpl)

// WithName names the camera's transform node.
//
// Parameters:
//   - name: node name shown in the inspector
//
// Returns:
//   - CameraBuilderOption: a function that names the camera node
func WithName(name string) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.transform.SetName(name)
	}
}

// WithPosition sets the camera's initial position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - CameraBuilderOption: a function that positions the camera
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.transform.SetPosition(x, y, z)
	}
}

// WithRotation sets the camera's initial euler rotation.
//
// Parameters:
//   - pitch, yaw, roll: angles in radians
//
// Returns:
//   - CameraBuilderOption: a function that orients the camera
func WithRotation(pitch, yaw, roll float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.transform.SetEulerRotation(pitch, yaw, roll)
	}
}

// WithUp sets the camera's world up hint.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = mgl32.Vec3{x, y, z}
	}
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetFov(fov)
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetAspect(aspect)
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetNear(near)
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetFar(far)
	}
}

// WithMoveSpeed sets the fly speed in units per second.
//
// Parameters:
//   - speed: movement speed
//
// Returns:
//   - CameraBuilderOption: functional option to set the move speed
func WithMoveSpeed(speed float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.moveSpeed = speed
	}
}

// WithSprintMultiplier sets the factor applied to the move speed while sprinting.
//
// Parameters:
//   - multiplier: sprint factor
//
// Returns:
//   - CameraBuilderOption: functional option to set the sprint multiplier
func WithSprintMultiplier(multiplier float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.sprintMultiplier = multiplier
	}
}

// WithLookSpeed sets the mouse-look speed.
//
// Parameters:
//   - speed: radians per unit of mouse movement
//
// Returns:
//   - CameraBuilderOption: functional option to set the look speed
func WithLookSpeed(speed float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lookSpeed = speed
	}
}

// WithController attaches a controller to the camera.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the controller
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}

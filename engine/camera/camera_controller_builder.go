package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*flyController)

// WithMaxPitch limits how far the camera can look up or down.
//
// Parameters:
//   - pitch: maximum absolute pitch in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch limit
func WithMaxPitch(pitch float32) CameraControllerOption {
	return func(fc *flyController) {
		if pitch < 0 {
			pitch = -pitch
		}
		fc.maxPitch = pitch
	}
}

// WithLookButton sets the mouse button that must be held for mouse-look.
//
// Parameters:
//   - button: a mouse button code from the common package
//
// Returns:
//   - CameraControllerOption: functional option to set the look button
func WithLookButton(button int) CameraControllerOption {
	return func(fc *flyController) {
		fc.lookButton = button
	}
}

// WithAlwaysLook makes mouse movement turn the camera without holding a button.
//
// Returns:
//   - CameraControllerOption: functional option to enable free look
func WithAlwaysLook() CameraControllerOption {
	return func(fc *flyController) {
		fc.alwaysLook = true
	}
}

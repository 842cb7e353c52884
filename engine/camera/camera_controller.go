package camera

// Input is a per-frame snapshot of the keyboard and mouse state a controller reads.
// Window and device plumbing live outside the engine; anything that can answer
// these queries can drive a camera.
type Input interface {
	// KeyDown reports whether a key is held.
	//
	// Parameters:
	//   - key: a key code from the common package
	//
	// Returns:
	//   - bool: true while the key is held
	KeyDown(key int) bool

	// MouseButtonDown reports whether a mouse button is held.
	//
	// Parameters:
	//   - button: a mouse button code from the common package
	//
	// Returns:
	//   - bool: true while the button is held
	MouseButtonDown(button int) bool

	// MouseDelta returns the cursor movement since the previous frame.
	//
	// Returns:
	//   - dx, dy: movement in pixels
	MouseDelta() (dx, dy float32)
}

// CameraController moves and turns a camera from input each frame.
type CameraController interface {
	// Update applies one frame of input to the camera's transform.
	//
	// Parameters:
	//   - cam: the camera to drive
	//   - input: the input snapshot for this frame
	//   - dt: frame time in seconds
	Update(cam Camera, input Input, dt float32)
}

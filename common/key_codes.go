package common

// Virtual key codes used by the camera controllers. Values follow GLFW key
// codes, which use ASCII for printable keys, so any window layer that speaks
// GLFW codes can feed an Input snapshot without translation.
const (
	KeyW     = 87 // W key (ASCII)
	KeyA     = 65 // A key (ASCII)
	KeyS     = 83 // S key (ASCII)
	KeyD     = 68 // D key (ASCII)
	KeyQ     = 81 // Q key (ASCII)
	KeyE     = 69 // E key (ASCII)
	KeyX     = 88 // X key (ASCII)
	KeySpace = 32 // Spacebar (ASCII)

	KeyEsc = 256 // Escape key (GLFW)
)

// Additional non-printable keys
const (
	KeyLeftShift  = 340 // Left Shift (GLFW)
	KeyRightShift = 344 // Right Shift (GLFW)
)

// Mouse buttons (GLFW)
const (
	MouseButtonLeft  = 0
	MouseButtonRight = 1
)

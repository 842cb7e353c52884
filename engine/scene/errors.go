package scene

import "errors"

var (
	// ErrUnknownEntity is returned when an entity ID is not registered in the scene.
	ErrUnknownEntity = errors.New("scene: unknown entity")

	// ErrUnknownLight is returned when a light ID is not registered in the scene.
	ErrUnknownLight = errors.New("scene: unknown light")

	// ErrUnknownCamera is returned when a camera index is out of range.
	ErrUnknownCamera = errors.New("scene: unknown camera")
)

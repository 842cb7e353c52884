package loader

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions no loader backend handles.
	ErrUnsupportedFormat = errors.New("loader: unsupported file format")

	// ErrInvalidSceneFile is returned when a scene description fails to decode or validate.
	ErrInvalidSceneFile = errors.New("loader: invalid scene file")

	// ErrInvalidModel is returned when a glTF node hierarchy is malformed.
	ErrInvalidModel = errors.New("loader: invalid model hierarchy")
)

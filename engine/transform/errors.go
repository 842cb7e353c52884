package transform

import "errors"

var (
	// ErrCyclicParent is returned when a node would become its own ancestor.
	ErrCyclicParent = errors.New("transform: node cannot be parented to itself or one of its descendants")

	// ErrIndexOutOfRange is returned by child accessors given an invalid index.
	ErrIndexOutOfRange = errors.New("transform: child index out of range")

	// ErrNotChild is returned when removing a node that is not a direct child.
	ErrNotChild = errors.New("transform: node is not a child of this transform")

	// ErrInvalidNode is returned for nil handles and for IDs whose slot was destroyed.
	ErrInvalidNode = errors.New("transform: invalid or destroyed node")

	// ErrForeignNode is returned when linking nodes that belong to different graphs.
	ErrForeignNode = errors.New("transform: node belongs to a different graph")

	// ErrHasChildren is returned by Destroy while the node still has children attached.
	ErrHasChildren = errors.New("transform: node still has children attached")
)

package entity

import (
	"github.com/Carmen-Shannon/contraption/engine/material"
	"github.com/Carmen-Shannon/contraption/engine/transform"
)

// EntityBuilderOption is a functional option for configuring an Entity during construction.
type EntityBuilderOption func(*entity)

// WithID sets the ID of the Entity.
//
// Parameters:
//   - id: unique identifier for the Entity
//
// Returns:
//   - EntityBuilderOption: functional option to set the ID
func WithID(id uint64) EntityBuilderOption {
	return func(e *entity) {
		e.id = id
	}
}

// WithName sets the display name of the Entity's transform node.
//
// Parameters:
//   - name: the display name
//
// Returns:
//   - EntityBuilderOption: functional option to set the name
func WithName(name string) EntityBuilderOption {
	return func(e *entity) {
		e.name = name
	}
}

// WithEnabled sets whether the Entity is drawn.
//
// Parameters:
//   - enabled: true to draw the entity, false to skip it
//
// Returns:
//   - EntityBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) EntityBuilderOption {
	return func(e *entity) {
		e.enabled = enabled
	}
}

// WithEphemeral marks the Entity as ephemeral. Ephemeral entities are drawn
// but hidden from the inspector and scene serialization.
//
// Parameters:
//   - ephemeral: true to mark as ephemeral
//
// Returns:
//   - EntityBuilderOption: functional option to set the Ephemeral flag
func WithEphemeral(ephemeral bool) EntityBuilderOption {
	return func(e *entity) {
		e.ephemeral = ephemeral
	}
}

// WithMesh sets the name of the mesh drawn for this Entity.
//
// Parameters:
//   - mesh: the mesh name
//
// Returns:
//   - EntityBuilderOption: functional option to set the mesh
func WithMesh(mesh string) EntityBuilderOption {
	return func(e *entity) {
		e.mesh = mesh
	}
}

// WithMaterial sets the Material the Entity is drawn with.
//
// Parameters:
//   - m: the Material to associate
//
// Returns:
//   - EntityBuilderOption: functional option to set the Material
func WithMaterial(m material.Material) EntityBuilderOption {
	return func(e *entity) {
		e.mat = m
	}
}

// WithPose forwards transform options to the Entity's node when it is created.
//
// Parameters:
//   - options: transform options for the initial position, rotation and scale
//
// Returns:
//   - EntityBuilderOption: functional option to set the initial pose
func WithPose(options ...transform.TransformBuilderOption) EntityBuilderOption {
	return func(e *entity) {
		e.poseOptions = append(e.poseOptions, options...)
	}
}

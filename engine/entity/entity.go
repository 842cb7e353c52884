package entity

import (
	"github.com/Carmen-Shannon/contraption/engine/material"
	"github.com/Carmen-Shannon/contraption/engine/transform"
)

type entity struct {
	id        uint64
	name      string
	enabled   bool
	ephemeral bool
	transform transform.Transform
	mesh      string
	mat       material.Material

	// initial pose applied to the transform once it is created
	poseOptions []transform.TransformBuilderOption
}

// Entity defines the interface for a drawable scene object.
//
// An Entity pairs a transform node with the name of the mesh to draw and the
// material to draw it with. The mesh is referenced by name only; geometry is
// owned by the graphics backend.
type Entity interface {
	// ID returns the entity's unique identifier. Zero until a Scene assigns one.
	//
	// Returns:
	//   - uint64: the entity ID
	ID() uint64

	// Name returns the display name of the entity. This is the name of its transform node.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Enabled returns whether this entity is drawn.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Ephemeral returns whether this entity is ephemeral.
	// Ephemeral entities such as light gizmos are drawn but never listed by the
	// inspector or written back to scene files.
	//
	// Returns:
	//   - bool: true if ephemeral
	Ephemeral() bool

	// Transform returns the node that positions this entity.
	//
	// Returns:
	//   - transform.Transform: the entity's transform
	Transform() transform.Transform

	// Mesh returns the name of the mesh drawn for this entity.
	//
	// Returns:
	//   - string: the mesh name
	Mesh() string

	// Material returns the material the entity is drawn with.
	//
	// Returns:
	//   - material.Material: the material, never nil
	Material() material.Material

	// SetID sets the entity's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the entity is drawn.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetMesh sets the name of the mesh drawn for this entity.
	//
	// Parameters:
	//   - mesh: the mesh name
	SetMesh(mesh string)

	// SetMaterial assigns the material the entity is drawn with. A nil material
	// is replaced by a default one.
	//
	// Parameters:
	//   - m: the Material to associate
	SetMaterial(m material.Material)
}

var _ Entity = &entity{}

// NewEntity creates a new Entity whose transform is allocated in graph.
//
// Parameters:
//   - graph: the transform graph that will own the entity's node
//   - options: functional options to configure the entity
//
// Returns:
//   - Entity: the newly created entity
func NewEntity(graph transform.Graph, options ...EntityBuilderOption) Entity {
	if graph == nil {
		panic("entity: nil transform graph")
	}
	e := &entity{
		name:    "entity",
		enabled: true,
	}
	for _, option := range options {
		option(e)
	}
	if e.mat == nil {
		e.mat = material.NewMaterial()
	}
	e.transform = graph.New(append([]transform.TransformBuilderOption{transform.WithName(e.name)}, e.poseOptions...)...)
	e.poseOptions = nil
	return e
}

func (e *entity) ID() uint64 {
	return e.id
}

func (e *entity) Name() string {
	return e.transform.Name()
}

func (e *entity) Enabled() bool {
	return e.enabled
}

func (e *entity) Ephemeral() bool {
	return e.ephemeral
}

func (e *entity) Transform() transform.Transform {
	return e.transform
}

func (e *entity) Mesh() string {
	return e.mesh
}

func (e *entity) Material() material.Material {
	return e.mat
}

func (e *entity) SetID(id uint64) {
	e.id = id
}

func (e *entity) SetEnabled(enabled bool) {
	e.enabled = enabled
}

func (e *entity) SetMesh(mesh string) {
	e.mesh = mesh
}

func (e *entity) SetMaterial(m material.Material) {
	if m == nil {
		m = material.NewMaterial()
	}
	e.mat = m
}

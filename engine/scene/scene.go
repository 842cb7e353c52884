package scene

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/Carmen-Shannon/contraption/engine/camera"
	"github.com/Carmen-Shannon/contraption/engine/entity"
	"github.com/Carmen-Shannon/contraption/engine/light"
	"github.com/Carmen-Shannon/contraption/engine/material"
	"github.com/Carmen-Shannon/contraption/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultGizmoMesh is the mesh drawn at the position of every light.
const DefaultGizmoMesh = "light_gizmo"

// Scene assembles everything drawn in a frame: the transform graph, the
// entities positioned by it, the lights with their gizmo entities, and the
// cameras with one active camera.
//
// Every light added to the scene gets an ephemeral gizmo entity tinted with
// the light colour and placed at the light position. Light edits must go
// through UpdateLight so the gizmo follows.
//
// A Scene shares the threading rules of its transform graph: it is owned by the
// frame loop goroutine and is not safe for concurrent use.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Graph returns the transform graph owning every node in the scene.
	//
	// Returns:
	//   - transform.Graph: the scene graph
	Graph() transform.Graph

	// Count returns the number of persisted entities in the scene's registry.
	// Does not include ephemeral entities such as light gizmos.
	//
	// Returns:
	//   - int: count of non-ephemeral entities
	Count() int

	// CountEphemeral returns the number of ephemeral entities drawn by the scene.
	//
	// Returns:
	//   - int: count of ephemeral entities
	CountEphemeral() int

	// Add registers an entity with the scene. Entities without an ID are
	// assigned the next free one. The entity's transform must live in the
	// scene's graph.
	//
	// Panics if the entity belongs to another graph, or if its ID is already
	// taken by a different registered entity.
	//
	// Parameters:
	//   - e: the entity to add
	//
	// Returns:
	//   - uint64: the assigned entity ID
	Add(e entity.Entity) uint64

	// Get retrieves a non-ephemeral entity by its ID.
	//
	// Parameters:
	//   - id: the entity ID
	//
	// Returns:
	//   - entity.Entity: the entity
	//   - error: ErrUnknownEntity if no such entity is registered
	Get(id uint64) (entity.Entity, error)

	// FindByName returns the first non-ephemeral entity with the given name, in ID order.
	//
	// Parameters:
	//   - name: the entity name
	//
	// Returns:
	//   - entity.Entity: the entity
	//   - bool: false if no entity has that name
	FindByName(name string) (entity.Entity, bool)

	// Entities returns every non-ephemeral entity in ID order.
	//
	// Returns:
	//   - []entity.Entity: the registered entities
	Entities() []entity.Entity

	// EntityAt returns the entity, ephemeral or not, whose transform is the given node.
	//
	// Parameters:
	//   - id: the transform node ID
	//
	// Returns:
	//   - entity.Entity: the entity
	//   - bool: false if the node carries no entity
	EntityAt(id transform.NodeID) (entity.Entity, bool)

	// Remove unregisters an entity and destroys its transform node. The node
	// must have no children; see RemoveTree.
	//
	// Parameters:
	//   - id: the entity ID
	//
	// Returns:
	//   - error: ErrUnknownEntity, or transform.ErrHasChildren
	Remove(id uint64) error

	// RemoveTree unregisters an entity along with every entity below it and
	// destroys the whole transform subtree.
	//
	// Parameters:
	//   - id: the entity ID
	//
	// Returns:
	//   - int: number of transform nodes destroyed
	//   - error: ErrUnknownEntity
	RemoveTree(id uint64) (int, error)

	// AddLight adds a light and creates its gizmo entity.
	//
	// Parameters:
	//   - l: the Light to add
	//
	// Returns:
	//   - entity.Entity: the gizmo entity created for the light
	AddLight(l light.Light) entity.Entity

	// RemoveLight removes a light and destroys its gizmo.
	//
	// Parameters:
	//   - id: the light ID
	//
	// Returns:
	//   - error: ErrUnknownLight
	RemoveLight(id light.ID) error

	// Light retrieves a light by ID.
	//
	// Parameters:
	//   - id: the light ID
	//
	// Returns:
	//   - light.Light: the light
	//   - error: ErrUnknownLight
	Light(id light.ID) (light.Light, error)

	// Lights returns all lights in the order they were added.
	//
	// Returns:
	//   - []light.Light: the scene's light list
	Lights() []light.Light

	// Gizmo returns the gizmo entity drawn for a light.
	//
	// Parameters:
	//   - id: the light ID
	//
	// Returns:
	//   - entity.Entity: the gizmo
	//   - bool: false if the light is unknown
	Gizmo(id light.ID) (entity.Entity, bool)

	// UpdateLight applies edit to a light, then moves and retints its gizmo to match.
	//
	// Parameters:
	//   - id: the light ID
	//   - edit: mutation applied to the light
	//
	// Returns:
	//   - error: ErrUnknownLight
	UpdateLight(id light.ID, edit func(l light.Light)) error

	// AmbientColor returns the scene's ambient light color.
	//
	// Returns:
	//   - mgl32.Vec3: the ambient RGB color
	AmbientColor() mgl32.Vec3

	// SetAmbientColor sets the scene's ambient light color.
	//
	// Parameters:
	//   - color: the ambient RGB color
	SetAmbientColor(color mgl32.Vec3)

	// AddCamera appends a camera. The first camera added becomes active.
	//
	// Parameters:
	//   - cam: the camera to add
	//
	// Returns:
	//   - int: the camera's index
	AddCamera(cam camera.Camera) int

	// Cameras returns every camera in index order.
	//
	// Returns:
	//   - []camera.Camera: the cameras
	Cameras() []camera.Camera

	// ActiveCamera returns the camera used for drawing, or nil if the scene has none.
	//
	// Returns:
	//   - camera.Camera: the active camera
	ActiveCamera() camera.Camera

	// ActiveCameraIndex returns the index of the active camera, or -1 if the scene has none.
	//
	// Returns:
	//   - int: the active index
	ActiveCameraIndex() int

	// SetActiveCamera selects the camera used for drawing.
	//
	// Parameters:
	//   - index: the camera index
	//
	// Returns:
	//   - error: ErrUnknownCamera if index is out of range
	SetActiveCamera(index int) error

	// Resize updates the aspect ratio of every camera.
	// Non-positive dimensions are ignored.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	Resize(width, height int)

	// SetCommonMoveSpeed sets the move speed of every camera.
	//
	// Parameters:
	//   - speed: units per second
	SetCommonMoveSpeed(speed float32)

	// Snapshot copies the current scene state into an immutable value.
	// World matrices are resolved as a side effect.
	//
	// Returns:
	//   - Snapshot: the scene state
	Snapshot() Snapshot

	// Clear removes all entities, lights and cameras and destroys every node of the graph.
	Clear()
}

type scene struct {
	name   string
	graph  transform.Graph
	logger *slog.Logger

	registry map[uint64]entity.Entity // non-ephemeral entities by ID
	byNode   map[transform.NodeID]entity.Entity
	nextID   uint64

	lights       []light.Light
	gizmos       map[light.ID]entity.Entity
	gizmoMesh    string
	ambientColor mgl32.Vec3

	cameras      []camera.Camera
	activeCamera int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene over the given transform graph. The graph is
// required and NewScene panics if it is nil.
//
// Parameters:
//   - graph: the transform graph owning the scene's nodes (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(graph transform.Graph, options ...SceneBuilderOption) Scene {
	if graph == nil {
		panic("scene: NewScene requires a non-nil transform graph")
	}

	s := &scene{
		name:         "scene",
		graph:        graph,
		logger:       slog.New(slog.DiscardHandler),
		registry:     make(map[uint64]entity.Entity),
		byNode:       make(map[transform.NodeID]entity.Entity),
		nextID:       1,
		gizmos:       make(map[light.ID]entity.Entity),
		gizmoMesh:    DefaultGizmoMesh,
		ambientColor: mgl32.Vec3{0.1, 0.1, 0.25},
		activeCamera: -1,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) SetName(name string) {
	s.name = name
}

func (s *scene) Graph() transform.Graph {
	return s.graph
}

func (s *scene) Count() int {
	return len(s.registry)
}

func (s *scene) CountEphemeral() int {
	return len(s.byNode) - len(s.registry)
}

func (s *scene) Add(e entity.Entity) uint64 {
	if e.Transform().Graph() != s.graph {
		panic("scene: cannot Add an entity from another transform graph")
	}

	if e.ID() == 0 {
		e.SetID(s.nextID)
	}
	if prev, ok := s.registry[e.ID()]; ok && prev != e {
		panic(fmt.Sprintf("scene: entity ID %d is already registered to %q", e.ID(), prev.Name()))
	}
	if e.ID() >= s.nextID {
		s.nextID = e.ID() + 1
	}

	if !e.Ephemeral() {
		s.registry[e.ID()] = e
	}
	s.byNode[e.Transform().ID()] = e

	s.logger.Debug("entity added", "id", e.ID(), "name", e.Name(), "ephemeral", e.Ephemeral())
	return e.ID()
}

func (s *scene) Get(id uint64) (entity.Entity, error) {
	e, ok := s.registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	return e, nil
}

func (s *scene) FindByName(name string) (entity.Entity, bool) {
	for _, e := range s.Entities() {
		if e.Name() == name {
			return e, true
		}
	}
	return nil, false
}

func (s *scene) Entities() []entity.Entity {
	out := make([]entity.Entity, 0, len(s.registry))
	for _, e := range s.registry {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b entity.Entity) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return out
}

func (s *scene) EntityAt(id transform.NodeID) (entity.Entity, bool) {
	e, ok := s.byNode[id]
	return e, ok
}

func (s *scene) Remove(id uint64) error {
	e, ok := s.registry[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	if err := s.graph.Destroy(e.Transform().ID()); err != nil {
		return err
	}
	s.forget(e)
	return nil
}

func (s *scene) RemoveTree(id uint64) (int, error) {
	e, ok := s.registry[id]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}

	var doomed []entity.Entity
	s.collect(e.Transform(), &doomed)
	n, err := s.graph.DestroyTree(e.Transform().ID())
	if err != nil {
		return n, err
	}
	for _, d := range doomed {
		s.forget(d)
	}
	return n, nil
}

// collect gathers the entities attached to t and its descendants.
func (s *scene) collect(t transform.Transform, out *[]entity.Entity) {
	if e, ok := s.byNode[t.ID()]; ok {
		*out = append(*out, e)
	}
	for _, c := range t.Children() {
		s.collect(c, out)
	}
}

// forget drops an entity from the lookup tables. Gizmos keep their light
// mapping until the light itself is removed.
func (s *scene) forget(e entity.Entity) {
	delete(s.byNode, e.Transform().ID())
	if !e.Ephemeral() {
		delete(s.registry, e.ID())
	}
	for id, g := range s.gizmos {
		if g == e {
			delete(s.gizmos, id)
		}
	}
	s.logger.Debug("entity removed", "id", e.ID())
}

func (s *scene) AddLight(l light.Light) entity.Entity {
	if g, ok := s.gizmos[l.ID()]; ok {
		return g
	}

	c := l.Color()
	gizmo := entity.NewEntity(s.graph,
		entity.WithName(l.Name()+"_gizmo"),
		entity.WithMesh(s.gizmoMesh),
		entity.WithEphemeral(true),
		entity.WithMaterial(material.NewMaterial(
			material.WithName(l.Name()+"_gizmo"),
			material.WithTint(mgl32.Vec4{c[0], c[1], c[2], 1}),
			material.WithRoughness(1),
		)),
	)
	gizmo.Transform().SetPositionV(l.Position())

	s.lights = append(s.lights, l)
	s.gizmos[l.ID()] = gizmo
	s.Add(gizmo)
	return gizmo
}

func (s *scene) RemoveLight(id light.ID) error {
	i := s.lightIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownLight, id)
	}
	s.lights = slices.Delete(s.lights, i, i+1)

	if g, ok := s.gizmos[id]; ok {
		delete(s.gizmos, id)
		var doomed []entity.Entity
		s.collect(g.Transform(), &doomed)
		if _, err := s.graph.DestroyTree(g.Transform().ID()); err != nil {
			return err
		}
		for _, d := range doomed {
			s.forget(d)
		}
	}
	return nil
}

func (s *scene) Light(id light.ID) (light.Light, error) {
	i := s.lightIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLight, id)
	}
	return s.lights[i], nil
}

func (s *scene) Lights() []light.Light {
	return slices.Clone(s.lights)
}

func (s *scene) Gizmo(id light.ID) (entity.Entity, bool) {
	g, ok := s.gizmos[id]
	return g, ok
}

func (s *scene) UpdateLight(id light.ID, edit func(l light.Light)) error {
	l, err := s.Light(id)
	if err != nil {
		return err
	}
	edit(l)
	s.syncGizmo(l)
	return nil
}

// syncGizmo moves and retints a light's gizmo. Position and tint are only
// written when they changed so untouched gizmos keep their cached matrices.
func (s *scene) syncGizmo(l light.Light) {
	g, ok := s.gizmos[l.ID()]
	if !ok {
		return
	}
	if g.Transform().Position() != l.Position() {
		g.Transform().SetPositionV(l.Position())
	}
	c := l.Color()
	tint := mgl32.Vec4{c[0], c[1], c[2], 1}
	if g.Material().Tint() != tint {
		g.Material().SetTint(tint)
	}
}

func (s *scene) lightIndex(id light.ID) int {
	return slices.IndexFunc(s.lights, func(l light.Light) bool { return l.ID() == id })
}

func (s *scene) AmbientColor() mgl32.Vec3 {
	return s.ambientColor
}

func (s *scene) SetAmbientColor(color mgl32.Vec3) {
	s.ambientColor = color
}

func (s *scene) AddCamera(cam camera.Camera) int {
	s.cameras = append(s.cameras, cam)
	if s.activeCamera < 0 {
		s.activeCamera = 0
	}
	return len(s.cameras) - 1
}

func (s *scene) Cameras() []camera.Camera {
	return slices.Clone(s.cameras)
}

func (s *scene) ActiveCamera() camera.Camera {
	if s.activeCamera < 0 {
		return nil
	}
	return s.cameras[s.activeCamera]
}

func (s *scene) ActiveCameraIndex() int {
	return s.activeCamera
}

func (s *scene) SetActiveCamera(index int) error {
	if index < 0 || index >= len(s.cameras) {
		return fmt.Errorf("%w: %d of %d", ErrUnknownCamera, index, len(s.cameras))
	}
	s.activeCamera = index
	s.logger.Debug("active camera changed", "index", index)
	return nil
}

func (s *scene) Resize(width, height int) {
	for _, cam := range s.cameras {
		cam.Resize(width, height)
	}
}

func (s *scene) SetCommonMoveSpeed(speed float32) {
	for _, cam := range s.cameras {
		cam.SetMoveSpeed(speed)
	}
}

func (s *scene) Clear() {
	for _, root := range s.graph.Roots() {
		if _, err := s.graph.DestroyTree(root.ID()); err != nil {
			s.logger.Warn("failed to destroy subtree", "node", root.ID(), "error", err)
		}
	}
	s.registry = make(map[uint64]entity.Entity)
	s.byNode = make(map[transform.NodeID]entity.Entity)
	s.gizmos = make(map[light.ID]entity.Entity)
	s.lights = nil
	s.cameras = nil
	s.activeCamera = -1
}

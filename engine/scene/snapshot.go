package scene

import (
	"github.com/Carmen-Shannon/contraption/engine/light"
	"github.com/Carmen-Shannon/contraption/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// EntitySnapshot is a copy of one entity's editable state.
type EntitySnapshot struct {
	ID            uint64     `json:"id"`
	Name          string     `json:"name"`
	Parent        uint64     `json:"parent,omitempty"` // 0 when the parent node carries no registered entity
	Mesh          string     `json:"mesh"`
	Enabled       bool       `json:"enabled"`
	Position      mgl32.Vec3 `json:"position"`
	Rotation      mgl32.Vec3 `json:"rotation"`
	Scale         mgl32.Vec3 `json:"scale"`
	WorldPosition mgl32.Vec3 `json:"worldPosition"`
	Tint          mgl32.Vec4 `json:"tint"`
	Roughness     float32    `json:"roughness"`
	UVOffset      mgl32.Vec2 `json:"uvOffset"`
}

// LightSnapshot is a copy of one light's state.
type LightSnapshot struct {
	ID          light.ID   `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Enabled     bool       `json:"enabled"`
	Position    mgl32.Vec3 `json:"position"`
	Direction   mgl32.Vec3 `json:"direction"`
	Color       mgl32.Vec3 `json:"color"`
	Intensity   float32    `json:"intensity"`
	Range       float32    `json:"range"`
	SpotFalloff float32    `json:"spotFalloff"`
}

// CameraSnapshot is a copy of one camera's state.
type CameraSnapshot struct {
	Index     int        `json:"index"`
	Active    bool       `json:"active"`
	Position  mgl32.Vec3 `json:"position"`
	Rotation  mgl32.Vec3 `json:"rotation"`
	Fov       float32    `json:"fov"`
	Aspect    float32    `json:"aspect"`
	Near      float32    `json:"near"`
	Far       float32    `json:"far"`
	MoveSpeed float32    `json:"moveSpeed"`
}

// Snapshot is an immutable copy of a scene, safe to hand to other goroutines.
type Snapshot struct {
	Name         string           `json:"name"`
	Entities     []EntitySnapshot `json:"entities"`
	Lights       []LightSnapshot  `json:"lights"`
	Cameras      []CameraSnapshot `json:"cameras"`
	ActiveCamera int              `json:"activeCamera"`
	Ambient      mgl32.Vec3       `json:"ambient"`
	Nodes        int              `json:"nodes"`
	Stats        transform.Stats  `json:"stats"`
}

func (s *scene) Snapshot() Snapshot {
	snap := Snapshot{
		Name:         s.name,
		Entities:     make([]EntitySnapshot, 0, len(s.registry)),
		Lights:       make([]LightSnapshot, 0, len(s.lights)),
		Cameras:      make([]CameraSnapshot, 0, len(s.cameras)),
		ActiveCamera: s.activeCamera,
		Ambient:      s.ambientColor,
		Nodes:        s.graph.Len(),
	}

	for _, e := range s.Entities() {
		t := e.Transform()
		es := EntitySnapshot{
			ID:            e.ID(),
			Name:          e.Name(),
			Mesh:          e.Mesh(),
			Enabled:       e.Enabled(),
			Position:      t.Position(),
			Rotation:      t.EulerRotation(),
			Scale:         t.LocalScale(),
			WorldPosition: t.WorldPosition(),
			Tint:          e.Material().Tint(),
			Roughness:     e.Material().Roughness(),
			UVOffset:      e.Material().UVOffset(),
		}
		if p := t.Parent(); p != nil {
			if pe, ok := s.byNode[p.ID()]; ok && !pe.Ephemeral() {
				es.Parent = pe.ID()
			}
		}
		snap.Entities = append(snap.Entities, es)
	}

	for _, l := range s.lights {
		snap.Lights = append(snap.Lights, LightSnapshot{
			ID:          l.ID(),
			Name:        l.Name(),
			Type:        l.Type().String(),
			Enabled:     l.Enabled(),
			Position:    l.Position(),
			Direction:   l.Direction(),
			Color:       l.Color(),
			Intensity:   l.Intensity(),
			Range:       l.Range(),
			SpotFalloff: l.SpotFalloff(),
		})
	}

	for i, cam := range s.cameras {
		snap.Cameras = append(snap.Cameras, CameraSnapshot{
			Index:     i,
			Active:    i == s.activeCamera,
			Position:  cam.Transform().Position(),
			Rotation:  cam.Transform().EulerRotation(),
			Fov:       cam.Fov(),
			Aspect:    cam.Aspect(),
			Near:      cam.Near(),
			Far:       cam.Far(),
			MoveSpeed: cam.MoveSpeed(),
		})
	}

	snap.Stats = s.graph.Stats()
	return snap
}

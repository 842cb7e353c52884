package loader

import (
	"fmt"
	"io"
	"slices"

	"github.com/Carmen-Shannon/contraption/engine/animator"
	"github.com/Carmen-Shannon/contraption/engine/light"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SceneFile is the decoded form of a YAML scene description.
// Vectors are written as flow sequences, e.g. position: [0, 1, 0]. Rotations are
// euler angles in radians (pitch, yaw, roll); camera fov is in degrees.
type SceneFile struct {
	Name       string          `yaml:"name"`
	Ambient    *[3]float32     `yaml:"ambient"`
	GizmoMesh  string          `yaml:"gizmo_mesh"`
	Cameras    []CameraDesc    `yaml:"cameras"`
	Entities   []EntityDesc    `yaml:"entities"`
	Lights     []LightDesc     `yaml:"lights"`
	Animations []AnimationDesc `yaml:"animations"`
}

// CameraDesc describes one camera. The first camera becomes the active one.
type CameraDesc struct {
	Name      string     `yaml:"name"`
	Position  [3]float32 `yaml:"position"`
	Rotation  [3]float32 `yaml:"rotation"`
	Fov       float32    `yaml:"fov"`
	Near      float32    `yaml:"near"`
	Far       float32    `yaml:"far"`
	MoveSpeed float32    `yaml:"move_speed"`
}

// EntityDesc describes one entity. Parent names another entity in the same file.
// Model names a glTF file whose node hierarchy is imported beneath the entity;
// relative paths resolve against the scene file's directory.
type EntityDesc struct {
	Name     string        `yaml:"name"`
	Parent   string        `yaml:"parent"`
	Mesh     string        `yaml:"mesh"`
	Model    string        `yaml:"model"`
	Enabled  *bool         `yaml:"enabled"`
	Position [3]float32    `yaml:"position"`
	Rotation [3]float32    `yaml:"rotation"`
	Scale    *[3]float32   `yaml:"scale"`
	Material *MaterialDesc `yaml:"material"`
}

// MaterialDesc describes an entity's material. Unset fields keep material defaults.
type MaterialDesc struct {
	Name         string      `yaml:"name"`
	Tint         *[4]float32 `yaml:"tint"`
	Roughness    *float32    `yaml:"roughness"`
	UVOffset     [2]float32  `yaml:"uv_offset"`
	VertexShader string      `yaml:"vertex_shader"`
	PixelShader  string      `yaml:"pixel_shader"`
	Albedo       string      `yaml:"albedo"`
	Specular     string      `yaml:"specular"`
	Normal       string      `yaml:"normal"`
}

// LightDesc describes one light. Type is "directional", "point" or "spot".
type LightDesc struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"`
	Position    [3]float32  `yaml:"position"`
	Direction   *[3]float32 `yaml:"direction"`
	Color       *[3]float32 `yaml:"color"`
	Intensity   *float32    `yaml:"intensity"`
	Range       *float32    `yaml:"range"`
	SpotFalloff *float32    `yaml:"spot_falloff"`
	Enabled     *bool       `yaml:"enabled"`
}

// AnimationDesc describes a tween or, when Spin is set, a continuous rotation.
type AnimationDesc struct {
	Target   string      `yaml:"target"`
	Spin     *[3]float32 `yaml:"spin"`
	Property string      `yaml:"property"`
	From     [3]float32  `yaml:"from"`
	To       [3]float32  `yaml:"to"`
	Duration float32     `yaml:"duration"`
	Delay    float32     `yaml:"delay"`
	Easing   string      `yaml:"easing"`
	Loop     string      `yaml:"loop"`
}

var loopModes = map[string]animator.LoopMode{
	"":         animator.LoopOnce,
	"once":     animator.LoopOnce,
	"repeat":   animator.LoopRepeat,
	"pingpong": animator.LoopPingPong,
}

// ParseScene decodes and validates a YAML scene description. Unknown keys are rejected.
//
// Parameters:
//   - r: the reader providing YAML
//
// Returns:
//   - *SceneFile: the decoded description
//   - error: ErrInvalidSceneFile wrapped with the cause if decoding or validation fails
func ParseScene(r io.Reader) (*SceneFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sf SceneFile
	if err := dec.Decode(&sf); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(fmt.Errorf("%w: %w", ErrInvalidSceneFile, err), "decode scene")
	}
	if err := sf.Validate(); err != nil {
		return nil, err
	}
	return &sf, nil
}

// Validate checks names, references and enumerations without building anything.
//
// Returns:
//   - error: ErrInvalidSceneFile describing the first problem found
func (sf *SceneFile) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidSceneFile, fmt.Sprintf(format, args...))
	}

	names := make(map[string]int, len(sf.Entities))
	for i, e := range sf.Entities {
		if e.Name == "" {
			return invalid("entity %d has no name", i)
		}
		if _, dup := names[e.Name]; dup {
			return invalid("duplicate entity %q", e.Name)
		}
		names[e.Name] = i
	}
	for _, e := range sf.Entities {
		if e.Parent == "" {
			continue
		}
		if _, ok := names[e.Parent]; !ok {
			return invalid("entity %q has unknown parent %q", e.Name, e.Parent)
		}
	}
	if cycle := parentCycle(sf.Entities, names); cycle != "" {
		return invalid("parent cycle through %q", cycle)
	}

	for i, l := range sf.Lights {
		if _, ok := light.ParseLightType(l.Type); !ok {
			return invalid("light %d has unknown type %q", i, l.Type)
		}
	}

	for i, a := range sf.Animations {
		if _, ok := names[a.Target]; !ok {
			return invalid("animation %d targets unknown entity %q", i, a.Target)
		}
		if a.Spin != nil {
			continue
		}
		if _, ok := animator.ParseProperty(a.Property); !ok {
			return invalid("animation %d has unknown property %q", i, a.Property)
		}
		if a.Easing != "" {
			if _, ok := animator.Easing(a.Easing); !ok {
				return invalid("animation %d has unknown easing %q", i, a.Easing)
			}
		}
		if _, ok := loopModes[a.Loop]; !ok {
			return invalid("animation %d has unknown loop mode %q", i, a.Loop)
		}
		if a.Duration < 0 || a.Delay < 0 {
			return invalid("animation %d has a negative duration or delay", i)
		}
	}
	return nil
}

// parentCycle returns the name of an entity on a parent cycle, or "".
func parentCycle(entities []EntityDesc, names map[string]int) string {
	for _, e := range entities {
		var seen []string
		for cur := e.Name; cur != ""; cur = entities[names[cur]].Parent {
			if slices.Contains(seen, cur) {
				return cur
			}
			seen = append(seen, cur)
		}
	}
	return ""
}

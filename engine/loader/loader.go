package loader

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/contraption/common"
	"github.com/Carmen-Shannon/contraption/engine/animator"
	"github.com/Carmen-Shannon/contraption/engine/camera"
	"github.com/Carmen-Shannon/contraption/engine/entity"
	"github.com/Carmen-Shannon/contraption/engine/light"
	"github.com/Carmen-Shannon/contraption/engine/material"
	"github.com/Carmen-Shannon/contraption/engine/scene"
	"github.com/Carmen-Shannon/contraption/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// FileFormat identifies the backend that handles a file.
type FileFormat int

const (
	// FormatSceneYAML is a YAML scene description (.yaml, .yml).
	FormatSceneYAML FileFormat = iota
	// FormatGLTF is a glTF or GLB model (.gltf, .glb).
	FormatGLTF
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	sceneCache map[string]*SceneFile
	modelCache map[string][]NodeDesc

	importer gltfImporter
	logger   *slog.Logger
}

// Loader reads scene descriptions and glTF node hierarchies and turns them into
// live scenes. Parsed files are cached by path; building always produces fresh
// graph nodes, so a cached description can be built any number of times.
// The caches are safe for concurrent use; building is not, because the result
// belongs to whichever goroutine owns the new scene.
type Loader interface {
	// LoadScene parses (or reuses the cached parse of) a YAML scene file and builds
	// it into a new Scene on a new transform graph.
	//
	// Parameters:
	//   - path: the scene file path
	//   - anim: receives the file's tweens and spins; nil skips them
	//
	// Returns:
	//   - scene.Scene: the built scene
	//   - error: error if reading, parsing or building fails
	LoadScene(path string, anim animator.Animator) (scene.Scene, error)

	// Describe parses a scene file without building it. The result is cached.
	//
	// Parameters:
	//   - path: the scene file path
	//
	// Returns:
	//   - *SceneFile: the parsed description
	//   - error: error if the file cannot be read or is invalid
	Describe(path string) (*SceneFile, error)

	// BuildScene builds a parsed description into a new Scene.
	//
	// Parameters:
	//   - sf: the description
	//   - baseDir: directory used to resolve relative model paths
	//   - anim: receives the file's tweens and spins; nil skips them
	//
	// Returns:
	//   - scene.Scene: the built scene
	//   - error: ErrInvalidSceneFile if sf fails validation, or an error if a
	//     referenced model cannot be imported
	BuildScene(sf *SceneFile, baseDir string, anim animator.Animator) (scene.Scene, error)

	// ReadModel flattens the node hierarchy of a glTF or GLB file. The result is cached.
	//
	// Parameters:
	//   - path: the model file path
	//
	// Returns:
	//   - []NodeDesc: nodes in depth-first order
	//   - error: error if the file cannot be imported
	ReadModel(path string) ([]NodeDesc, error)

	// ImportHierarchy creates one transform per glTF node, preserving the file's
	// parent/child structure. Root nodes are attached to parent when it is not nil.
	//
	// Parameters:
	//   - graph: the graph to create nodes in
	//   - path: the model file path
	//   - parent: optional attachment point for the model's roots
	//
	// Returns:
	//   - []transform.Transform: created nodes in depth-first order
	//   - error: error if the file cannot be imported or parent is foreign
	ImportHierarchy(graph transform.Graph, path string, parent transform.Transform) ([]transform.Transform, error)

	// Invalidate drops a path from both caches so the next load rereads it.
	//
	// Parameters:
	//   - path: the cached path
	Invalidate(path string)

	// Cached reports whether a path is currently cached.
	//
	// Parameters:
	//   - path: the path to check
	//
	// Returns:
	//   - bool: true if either cache holds the path
	Cached(path string) bool
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with empty caches and the given options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		sceneCache: make(map[string]*SceneFile),
		modelCache: make(map[string][]NodeDesc),
		importer:   newGLTFImporter(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

// DetectFormat selects a backend from a file extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - FileFormat: the detected format
//   - error: ErrUnsupportedFormat for unknown extensions
func DetectFormat(path string) (FileFormat, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatSceneYAML, nil
	case ".gltf", ".glb":
		return FormatGLTF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func (l *loader) LoadScene(path string, anim animator.Animator) (scene.Scene, error) {
	sf, err := l.Describe(path)
	if err != nil {
		return nil, err
	}
	s, err := l.BuildScene(sf, filepath.Dir(path), anim)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s", path)
	}
	if sf.Name == "" {
		s.SetName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	l.logger.Info("scene loaded", "path", path, "entities", s.Count(), "lights", len(s.Lights()), "cameras", len(s.Cameras()))
	return s, nil
}

func (l *loader) Describe(path string) (*SceneFile, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format != FormatSceneYAML {
		return nil, fmt.Errorf("%w: %s is not a scene file", ErrUnsupportedFormat, path)
	}

	l.mu.RLock()
	if cached, ok := l.sceneCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open scene")
	}
	defer f.Close()

	sf, err := ParseScene(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	l.mu.Lock()
	l.sceneCache[path] = sf
	l.mu.Unlock()
	return sf, nil
}

func (l *loader) ReadModel(path string) ([]NodeDesc, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format != FormatGLTF {
		return nil, fmt.Errorf("%w: %s is not a model file", ErrUnsupportedFormat, path)
	}

	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	nodes, err := l.importer.Import(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[path] = nodes
	l.mu.Unlock()
	l.logger.Debug("model imported", "path", path, "nodes", len(nodes))
	return nodes, nil
}

func (l *loader) ImportHierarchy(graph transform.Graph, path string, parent transform.Transform) ([]transform.Transform, error) {
	if parent != nil && parent.Graph() != graph {
		return nil, transform.ErrForeignNode
	}
	nodes, err := l.ReadModel(path)
	if err != nil {
		return nil, err
	}
	return instantiate(nodes, parent, func(d NodeDesc) transform.Transform {
		return graph.New(poseOptions(d)...)
	})
}

func (l *loader) Invalidate(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sceneCache, path)
	delete(l.modelCache, path)
}

func (l *loader) Cached(path string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, s := l.sceneCache[path]
	_, m := l.modelCache[path]
	return s || m
}

func (l *loader) BuildScene(sf *SceneFile, baseDir string, anim animator.Animator) (scene.Scene, error) {
	if err := sf.Validate(); err != nil {
		return nil, err
	}
	graph := transform.NewGraph(transform.WithLogger(l.logger))

	opts := []scene.SceneBuilderOption{scene.WithLogger(l.logger)}
	if sf.Name != "" {
		opts = append(opts, scene.WithName(sf.Name))
	}
	if sf.Ambient != nil {
		opts = append(opts, scene.WithAmbientColor(mgl32.Vec3(*sf.Ambient)))
	}
	if sf.GizmoMesh != "" {
		opts = append(opts, scene.WithGizmoMesh(sf.GizmoMesh))
	}
	s := scene.NewScene(graph, opts...)

	for _, c := range sf.Cameras {
		s.AddCamera(camera.NewCamera(graph, cameraOptions(c)...))
	}

	byName := make(map[string]entity.Entity, len(sf.Entities))
	for _, d := range sf.Entities {
		e := entity.NewEntity(graph, entityOptions(d)...)
		s.Add(e)
		byName[d.Name] = e
	}
	for _, d := range sf.Entities {
		if d.Parent == "" {
			continue
		}
		if err := byName[d.Parent].Transform().AddChild(byName[d.Name].Transform(), false); err != nil {
			return nil, errors.Wrapf(err, "attach %q to %q", d.Name, d.Parent)
		}
	}

	for _, d := range sf.Entities {
		if d.Model == "" {
			continue
		}
		path := d.Model
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		nodes, err := l.ReadModel(path)
		if err != nil {
			return nil, errors.Wrapf(err, "model for %q", d.Name)
		}
		_, err = instantiate(nodes, byName[d.Name].Transform(), func(n NodeDesc) transform.Transform {
			e := entity.NewEntity(graph,
				entity.WithName(n.Name),
				entity.WithMesh(n.Mesh),
				entity.WithPose(poseOptions(n)...),
			)
			s.Add(e)
			return e.Transform()
		})
		if err != nil {
			return nil, errors.Wrapf(err, "model for %q", d.Name)
		}
	}

	for _, d := range sf.Lights {
		lt, lopts := lightOptions(d)
		s.AddLight(light.NewLight(lt, lopts...))
	}

	if anim != nil {
		for _, a := range sf.Animations {
			target := byName[a.Target].Transform()
			if a.Spin != nil {
				anim.AddSpin(animator.Spin{Target: target, Speed: mgl32.Vec3(*a.Spin)})
				continue
			}
			prop, _ := animator.ParseProperty(a.Property)
			ease, _ := animator.Easing(a.Easing)
			anim.AddTween(animator.Tween{
				Target:   target,
				Property: prop,
				From:     mgl32.Vec3(a.From),
				To:       mgl32.Vec3(a.To),
				Duration: a.Duration,
				Delay:    a.Delay,
				Easing:   ease,
				Loop:     loopModes[a.Loop],
			})
		}
	}
	return s, nil
}

// instantiate creates nodes in depth-first order and links them to their
// parents. Roots are attached to root when it is not nil.
func instantiate(nodes []NodeDesc, root transform.Transform, create func(NodeDesc) transform.Transform) ([]transform.Transform, error) {
	out := make([]transform.Transform, len(nodes))
	for i, n := range nodes {
		t := create(n)
		out[i] = t

		parent := root
		if n.Parent >= 0 {
			parent = out[n.Parent]
		}
		if parent == nil {
			continue
		}
		if err := parent.AddChild(t, false); err != nil {
			return nil, errors.Wrapf(err, "attach %q", n.Name)
		}
	}
	return out, nil
}

func poseOptions(d NodeDesc) []transform.TransformBuilderOption {
	return []transform.TransformBuilderOption{
		transform.WithName(d.Name),
		transform.WithPosition(d.Position.Elem()),
		transform.WithEulerRotation(d.Rotation.Elem()),
		transform.WithScale(d.Scale.Elem()),
	}
}

func cameraOptions(d CameraDesc) []camera.CameraBuilderOption {
	opts := []camera.CameraBuilderOption{
		camera.WithPosition(d.Position[0], d.Position[1], d.Position[2]),
		camera.WithRotation(d.Rotation[0], d.Rotation[1], d.Rotation[2]),
	}
	if d.Name != "" {
		opts = append(opts, camera.WithName(d.Name))
	}
	if d.Fov > 0 {
		opts = append(opts, camera.WithFov(mgl32.DegToRad(d.Fov)))
	}
	if d.Near > 0 {
		opts = append(opts, camera.WithNear(d.Near))
	}
	if d.Far > 0 {
		opts = append(opts, camera.WithFar(d.Far))
	}
	if d.MoveSpeed > 0 {
		opts = append(opts, camera.WithMoveSpeed(d.MoveSpeed))
	}
	return opts
}

func entityOptions(d EntityDesc) []entity.EntityBuilderOption {
	scale := common.ValueOr(d.Scale, [3]float32{1, 1, 1})
	opts := []entity.EntityBuilderOption{
		entity.WithName(d.Name),
		entity.WithMesh(d.Mesh),
		entity.WithPose(
			transform.WithPosition(d.Position[0], d.Position[1], d.Position[2]),
			transform.WithEulerRotation(d.Rotation[0], d.Rotation[1], d.Rotation[2]),
			transform.WithScale(scale[0], scale[1], scale[2]),
		),
	}
	if d.Enabled != nil {
		opts = append(opts, entity.WithEnabled(*d.Enabled))
	}
	if d.Material != nil {
		opts = append(opts, entity.WithMaterial(buildMaterial(d.Name, *d.Material)))
	}
	return opts
}

func buildMaterial(owner string, d MaterialDesc) material.Material {
	opts := []material.MaterialBuilderOption{
		material.WithName(common.Coalesce(d.Name, owner+"_material")),
		material.WithUVOffset(mgl32.Vec2(d.UVOffset)),
		material.WithShaders(d.VertexShader, d.PixelShader),
		material.WithTextures(material.Textures{Albedo: d.Albedo, Specular: d.Specular, Normal: d.Normal}),
	}
	if d.Tint != nil {
		opts = append(opts, material.WithTint(mgl32.Vec4(*d.Tint)))
	}
	if d.Roughness != nil {
		opts = append(opts, material.WithRoughness(*d.Roughness))
	}
	return material.NewMaterial(opts...)
}

func lightOptions(d LightDesc) (light.LightType, []light.LightBuilderOption) {
	lt, _ := light.ParseLightType(d.Type)
	opts := []light.LightBuilderOption{
		light.WithPosition(d.Position[0], d.Position[1], d.Position[2]),
	}
	if d.Name != "" {
		opts = append(opts, light.WithName(d.Name))
	}
	if d.Direction != nil {
		opts = append(opts, light.WithDirection(d.Direction[0], d.Direction[1], d.Direction[2]))
	}
	if d.Color != nil {
		opts = append(opts, light.WithColor(d.Color[0], d.Color[1], d.Color[2]))
	}
	if d.Intensity != nil {
		opts = append(opts, light.WithIntensity(*d.Intensity))
	}
	if d.Range != nil {
		opts = append(opts, light.WithRange(*d.Range))
	}
	if d.SpotFalloff != nil {
		opts = append(opts, light.WithSpotFalloff(*d.SpotFalloff))
	}
	if d.Enabled != nil {
		opts = append(opts, light.WithEnabled(*d.Enabled))
	}
	return lt, opts
}

// LoadSceneReader parses a scene description from r and builds it. Relative
// model paths resolve against baseDir. Nothing is cached.
//
// Parameters:
//   - l: the loader used to import referenced models
//   - r: the reader providing YAML
//   - baseDir: directory used to resolve relative model paths
//   - anim: receives the file's tweens and spins; nil skips them
//
// Returns:
//   - scene.Scene: the built scene
//   - error: error if parsing or building fails
func LoadSceneReader(l Loader, r io.Reader, baseDir string, anim animator.Animator) (scene.Scene, error) {
	sf, err := ParseScene(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse scene")
	}
	return l.BuildScene(sf, baseDir, anim)
}

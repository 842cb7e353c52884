package loader

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/contraption/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// NodeDesc is one glTF node flattened out of a document, already converted to
// the engine's left-handed convention.
type NodeDesc struct {
	Name     string
	Mesh     string
	Parent   int
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// flipZ mirrors the Z axis, converting between glTF's right-handed space and
// the engine's left-handed space.
var flipZ = mgl32.Scale3D(1, 1, -1)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter flattens the node hierarchy of a glTF document. Mesh data,
// skins and animations are ignored; only names, mesh references and local poses
// are kept.
type gltfImporter interface {
	// Import opens a .gltf or .glb file and flattens its default scene.
	//
	// Parameters:
	//   - path: the file path
	//
	// Returns:
	//   - []NodeDesc: nodes in depth-first order, parents before children
	//   - error: error if the file cannot be read or the hierarchy is malformed
	Import(path string) ([]NodeDesc, error)

	// ImportReader decodes a glTF document from r and flattens its default scene.
	//
	// Parameters:
	//   - source: a label used to name meshes that have no name of their own
	//   - r: the reader providing glTF JSON or GLB data
	//
	// Returns:
	//   - []NodeDesc: nodes in depth-first order, parents before children
	//   - error: error if decoding fails or the hierarchy is malformed
	ImportReader(source string, r io.Reader) ([]NodeDesc, error)

	// ImportDocument flattens the default scene of an already decoded document.
	//
	// Parameters:
	//   - source: a label used to name meshes that have no name of their own
	//   - doc: the decoded document
	//
	// Returns:
	//   - []NodeDesc: nodes in depth-first order, parents before children
	//   - error: ErrInvalidModel if the hierarchy is malformed
	ImportDocument(source string, doc *gltf.Document) ([]NodeDesc, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) ([]NodeDesc, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return imp.ImportDocument(path, doc)
}

func (imp *gltfImporterImpl) ImportReader(source string, r io.Reader) ([]NodeDesc, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, errors.Wrapf(err, "decode %s", source)
	}
	return imp.ImportDocument(source, doc)
}

func (imp *gltfImporterImpl) ImportDocument(source string, doc *gltf.Document) ([]NodeDesc, error) {
	roots, err := sceneRoots(doc)
	if err != nil {
		return nil, err
	}

	out := make([]NodeDesc, 0, len(doc.Nodes))
	visited := make([]bool, len(doc.Nodes))

	var visit func(idx uint32, parent int) error
	visit = func(idx uint32, parent int) error {
		if int(idx) >= len(doc.Nodes) || doc.Nodes[idx] == nil {
			return fmt.Errorf("%w: node %d does not exist", ErrInvalidModel, idx)
		}
		if visited[idx] {
			return fmt.Errorf("%w: node %d is reachable twice", ErrInvalidModel, idx)
		}
		visited[idx] = true

		n := doc.Nodes[idx]
		desc := NodeDesc{
			Name:   n.Name,
			Mesh:   meshName(source, doc, n),
			Parent: parent,
		}
		if desc.Name == "" {
			desc.Name = fmt.Sprintf("node_%d", idx)
		}
		desc.Position, desc.Rotation, desc.Scale = common.DecomposeTRS(flipZ.Mul4(nodeLocalMatrix(n)).Mul4(flipZ))

		self := len(out)
		out = append(out, desc)
		for _, child := range n.Children {
			if err := visit(child, self); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range roots {
		if err := visit(root, -1); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// sceneRoots returns the root nodes of the document's default scene. Documents
// without scenes use every node that is nobody's child.
func sceneRoots(doc *gltf.Document) ([]uint32, error) {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil {
			idx = int(*doc.Scene)
		}
		if idx >= len(doc.Scenes) || doc.Scenes[idx] == nil {
			return nil, fmt.Errorf("%w: default scene %d does not exist", ErrInvalidModel, idx)
		}
		return doc.Scenes[idx].Nodes, nil
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n == nil {
			continue
		}
		for _, c := range n.Children {
			if int(c) < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []uint32
	for i, child := range isChild {
		if !child {
			roots = append(roots, uint32(i))
		}
	}
	return roots, nil
}

func meshName(source string, doc *gltf.Document, n *gltf.Node) string {
	if n.Mesh == nil {
		return ""
	}
	idx := int(*n.Mesh)
	if idx < len(doc.Meshes) && doc.Meshes[idx] != nil && doc.Meshes[idx].Name != "" {
		return doc.Meshes[idx].Name
	}
	return fmt.Sprintf("%s#%d", source, idx)
}

// nodeLocalMatrix returns the node's local matrix. An explicit matrix wins over
// TRS; zero-valued TRS fields fall back to the glTF defaults.
func nodeLocalMatrix(n *gltf.Node) mgl32.Mat4 {
	m := mgl32.Mat4(n.Matrix)
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		return m
	}

	t, r, s := n.Translation, n.Rotation, n.Scale
	if r == ([4]float32{}) {
		r = [4]float32{0, 0, 0, 1}
	}
	if s == ([3]float32{}) {
		s = [3]float32{1, 1, 1}
	}
	q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
	return mgl32.Translate3D(t[0], t[1], t[2]).Mul4(q.Mat4()).Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

package transform

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/contraption/common"
	"github.com/go-gl/mathgl/mgl32"
)

// NodeID is a stable, generation-checked handle to a node slot in a Graph.
// The zero value is Nil. A destroyed slot is recycled with a bumped generation,
// so IDs held across a Destroy become invalid instead of aliasing a new node.
type NodeID struct {
	index      uint32
	generation uint32
}

// Nil is the NodeID of "no node", used for roots' parents.
var Nil = NodeID{}

// IsNil reports whether id is the Nil handle.
func (id NodeID) IsNil() bool {
	return id.generation == 0
}

func (id NodeID) String() string {
	if id.IsNil() {
		return "node(nil)"
	}
	return fmt.Sprintf("node(%d:%d)", id.index, id.generation)
}

// Stats counts cache recomputations since the graph was created or last reset.
type Stats struct {
	// MatrixRecomputes is the number of local/world/inverse-transpose rebuilds.
	MatrixRecomputes uint64
	// DirectionRecomputes is the number of right/up/forward rebuilds.
	DirectionRecomputes uint64
}

type node struct {
	name       string
	alive      bool
	generation uint32

	position      mgl32.Vec3
	eulerRotation mgl32.Vec3
	scale         mgl32.Vec3

	local             mgl32.Mat4
	world             mgl32.Mat4
	worldInvTranspose mgl32.Mat4
	matrixDirty       bool

	right          mgl32.Vec3
	up             mgl32.Vec3
	forward        mgl32.Vec3
	directionDirty bool

	parent     NodeID
	children   []NodeID
	childIndex int
}

// Graph is an arena owning every node of a transform hierarchy.
//
// Nodes are addressed by NodeID and manipulated through Transform handles.
// The graph is not safe for concurrent use: all mutation and cache resolution
// must happen on the goroutine that owns the frame loop.
type Graph interface {
	// New creates a parentless node with identity pose, then applies options.
	//
	// Parameters:
	//   - options: functional options for the initial name and pose
	//
	// Returns:
	//   - Transform: handle to the new node
	New(options ...TransformBuilderOption) Transform

	// Get returns the handle for a live node.
	//
	// Parameters:
	//   - id: the node ID
	//
	// Returns:
	//   - Transform: the node handle
	//   - error: ErrInvalidNode if id is nil or destroyed
	Get(id NodeID) (Transform, error)

	// Valid reports whether id refers to a live node of this graph.
	//
	// Parameters:
	//   - id: the node ID
	//
	// Returns:
	//   - bool: true if the node is alive
	Valid(id NodeID) bool

	// Len returns the number of live nodes.
	//
	// Returns:
	//   - int: live node count
	Len() int

	// Roots returns every parentless node in the order it became a root.
	//
	// Returns:
	//   - []Transform: root handles
	Roots() []Transform

	// Walk visits every live node depth-first, roots in Roots order and
	// children in insertion order. Returning false from fn skips the subtree
	// below the visited node.
	//
	// Parameters:
	//   - fn: visitor receiving the node and its depth (roots are depth 0)
	Walk(fn func(t Transform, depth int) bool)

	// Destroy frees a node. The node is detached from its parent first.
	// Destroying a node that still has children fails with ErrHasChildren;
	// detach or destroy the children first, or use DestroyTree.
	//
	// Parameters:
	//   - id: the node to destroy
	//
	// Returns:
	//   - error: ErrInvalidNode or ErrHasChildren
	Destroy(id NodeID) error

	// DestroyTree frees a node and all of its descendants.
	//
	// Parameters:
	//   - id: the subtree root
	//
	// Returns:
	//   - int: number of nodes destroyed
	//   - error: ErrInvalidNode if id is not live
	DestroyTree(id NodeID) (int, error)

	// Stats returns the cache recompute counters.
	//
	// Returns:
	//   - Stats: current counters
	Stats() Stats

	// ResetStats zeroes the cache recompute counters.
	ResetStats()
}

type graph struct {
	nodes  []node // slot 0 is reserved so that index 0 never names a live node
	free   []uint32
	roots  []NodeID
	live   int
	stats  Stats
	logger *slog.Logger
}

var _ Graph = &graph{}

// NewGraph creates an empty Graph.
//
// Parameters:
//   - options: functional options to configure the graph
//
// Returns:
//   - Graph: the new graph
func NewGraph(options ...GraphBuilderOption) Graph {
	g := &graph{
		nodes:  make([]node, 1),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(g)
	}
	return g
}

func (g *graph) New(options ...TransformBuilderOption) Transform {
	n := node{
		alive:          true,
		scale:          mgl32.Vec3{1, 1, 1},
		local:          mgl32.Ident4(),
		world:          mgl32.Ident4(),
		matrixDirty:    true,
		directionDirty: true,
		childIndex:     -1,
	}
	for _, option := range options {
		option(&n)
	}

	var idx uint32
	if last := len(g.free) - 1; last >= 0 {
		idx = g.free[last]
		g.free = g.free[:last]
		n.generation = g.nodes[idx].generation + 1
		g.nodes[idx] = n
	} else {
		idx = uint32(len(g.nodes))
		n.generation = 1
		g.nodes = append(g.nodes, n)
	}

	id := NodeID{index: idx, generation: n.generation}
	g.roots = append(g.roots, id)
	g.live++
	return handle{g: g, id: id}
}

func (g *graph) Get(id NodeID) (Transform, error) {
	if !g.Valid(id) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNode, id)
	}
	return handle{g: g, id: id}, nil
}

func (g *graph) Valid(id NodeID) bool {
	if id.IsNil() || int(id.index) >= len(g.nodes) {
		return false
	}
	n := &g.nodes[id.index]
	return n.alive && n.generation == id.generation
}

func (g *graph) Len() int {
	return g.live
}

func (g *graph) Roots() []Transform {
	out := make([]Transform, len(g.roots))
	for i, id := range g.roots {
		out[i] = handle{g: g, id: id}
	}
	return out
}

func (g *graph) Walk(fn func(t Transform, depth int) bool) {
	roots := make([]NodeID, len(g.roots))
	copy(roots, g.roots)
	for _, id := range roots {
		g.walk(id, 0, fn)
	}
}

func (g *graph) walk(id NodeID, depth int, fn func(Transform, int) bool) {
	if !g.Valid(id) {
		return
	}
	if !fn(handle{g: g, id: id}, depth) {
		return
	}
	children := make([]NodeID, len(g.nodes[id.index].children))
	copy(children, g.nodes[id.index].children)
	for _, c := range children {
		g.walk(c, depth+1, fn)
	}
}

func (g *graph) Destroy(id NodeID) error {
	if !g.Valid(id) {
		return fmt.Errorf("%w: %v", ErrInvalidNode, id)
	}
	if n := len(g.nodes[id.index].children); n > 0 {
		return fmt.Errorf("%w: %v has %d", ErrHasChildren, id, n)
	}
	g.release(id)
	return nil
}

func (g *graph) DestroyTree(id NodeID) (int, error) {
	if !g.Valid(id) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidNode, id)
	}
	count := 0
	for len(g.nodes[id.index].children) > 0 {
		last := g.nodes[id.index].children[len(g.nodes[id.index].children)-1]
		n, err := g.DestroyTree(last)
		if err != nil {
			return count, err
		}
		count += n
	}
	g.release(id)
	return count + 1, nil
}

func (g *graph) Stats() Stats {
	return g.stats
}

func (g *graph) ResetStats() {
	g.stats = Stats{}
}

// release detaches a childless node and returns its slot to the free list.
func (g *graph) release(id NodeID) {
	g.detach(id)
	g.removeRoot(id)

	n := &g.nodes[id.index]
	g.logger.Debug("node destroyed", "node", id, "name", n.name)
	*n = node{generation: n.generation, childIndex: -1}
	g.free = append(g.free, id.index)
	g.live--
}

// mustNode returns the slot for a live id, panicking on stale handles.
func (g *graph) mustNode(id NodeID) *node {
	if !g.Valid(id) {
		panic(fmt.Sprintf("transform: %v is not a live node", id))
	}
	return &g.nodes[id.index]
}

// markMatrixDirty invalidates the matrix cache of a node and all descendants.
// A dirty node always has dirty descendants, so an already dirty node ends
// the recursion.
func (g *graph) markMatrixDirty(idx uint32) {
	n := &g.nodes[idx]
	if n.matrixDirty {
		return
	}
	n.matrixDirty = true
	for _, c := range n.children {
		g.markMatrixDirty(c.index)
	}
}

// resolveMatrices rebuilds local, world and world-inverse-transpose when dirty.
// Ancestors are resolved first since world depends on the parent's world.
func (g *graph) resolveMatrices(idx uint32) {
	n := &g.nodes[idx]
	if !n.matrixDirty {
		return
	}

	n.local = common.ComposeTRS(n.position, n.eulerRotation, n.scale)
	if n.parent.IsNil() {
		n.world = n.local
	} else {
		g.resolveMatrices(n.parent.index)
		n.world = g.nodes[n.parent.index].world.Mul4(n.local)
	}
	n.worldInvTranspose = common.InverseTranspose(n.world)
	n.matrixDirty = false
	g.stats.MatrixRecomputes++
}

// resolveDirections rebuilds the orientation basis from the local rotation only.
func (g *graph) resolveDirections(idx uint32) {
	n := &g.nodes[idx]
	if !n.directionDirty {
		return
	}

	q := common.EulerToQuat(n.eulerRotation)
	n.right = q.Rotate(common.AxisRight)
	n.up = q.Rotate(common.AxisUp)
	n.forward = q.Rotate(common.AxisForward)
	n.directionDirty = false
	g.stats.DirectionRecomputes++
}

// worldMatrix resolves and returns a node's world matrix.
func (g *graph) worldMatrix(idx uint32) mgl32.Mat4 {
	g.resolveMatrices(idx)
	return g.nodes[idx].world
}

// setLocalFromMatrix replaces the local pose with the decomposition of m.
func (g *graph) setLocalFromMatrix(idx uint32, m mgl32.Mat4) {
	n := &g.nodes[idx]
	n.position, n.eulerRotation, n.scale = common.DecomposeTRS(m)
	n.directionDirty = true
	g.markMatrixDirty(idx)
}

// isSelfOrAncestor reports whether candidate is id itself or one of id's ancestors.
func (g *graph) isSelfOrAncestor(candidate, id NodeID) bool {
	for cur := id; !cur.IsNil(); cur = g.nodes[cur.index].parent {
		if cur == candidate {
			return true
		}
	}
	return false
}

// detach unlinks a node from its parent, fixing sibling indices, and makes it a root.
func (g *graph) detach(id NodeID) {
	n := &g.nodes[id.index]
	if n.parent.IsNil() {
		return
	}

	p := &g.nodes[n.parent.index]
	i := n.childIndex
	p.children = append(p.children[:i], p.children[i+1:]...)
	for j := i; j < len(p.children); j++ {
		g.nodes[p.children[j].index].childIndex = j
	}

	n.parent = Nil
	n.childIndex = -1
	g.roots = append(g.roots, id)
	g.markMatrixDirty(id.index)
}

// attach links a root node under parent. A Nil parent leaves it a root.
func (g *graph) attach(id, parent NodeID) {
	if parent.IsNil() {
		return
	}
	g.removeRoot(id)

	p := &g.nodes[parent.index]
	p.children = append(p.children, id)

	n := &g.nodes[id.index]
	n.parent = parent
	n.childIndex = len(p.children) - 1
	g.markMatrixDirty(id.index)
}

func (g *graph) removeRoot(id NodeID) {
	for i, r := range g.roots {
		if r == id {
			g.roots = append(g.roots[:i], g.roots[i+1:]...)
			return
		}
	}
}

package transform

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// resolve checks that t is a live node of this handle's graph.
func (h handle) resolve(t Transform) (handle, error) {
	o, ok := t.(handle)
	if !ok || o.g != h.g {
		return handle{}, ErrForeignNode
	}
	if !h.g.Valid(o.id) {
		return handle{}, fmt.Errorf("%w: %v", ErrInvalidNode, o.id)
	}
	return o, nil
}

func (h handle) Parent() Transform {
	p := h.n().parent
	if p.IsNil() {
		return nil
	}
	return handle{g: h.g, id: p}
}

func (h handle) SetParent(parent Transform, makeChildRelative bool) error {
	n := h.n()

	pid := Nil
	if parent != nil {
		p, err := h.resolve(parent)
		if err != nil {
			return err
		}
		pid = p.id
	}
	if !pid.IsNil() && h.g.isSelfOrAncestor(h.id, pid) {
		return fmt.Errorf("%w: %v under %v", ErrCyclicParent, h.id, pid)
	}
	if n.parent == pid {
		return nil
	}

	var world mgl32.Mat4
	if makeChildRelative {
		world = h.g.worldMatrix(h.id.index)
	}
	h.g.detach(h.id)
	h.g.attach(h.id, pid)

	if makeChildRelative {
		local := world
		if !pid.IsNil() {
			local = h.g.worldMatrix(pid.index).Inv().Mul4(world)
		}
		h.g.setLocalFromMatrix(h.id.index, local)
	}

	h.g.logger.Debug("node reparented", "node", h.id, "parent", pid, "relative", makeChildRelative)
	return nil
}

func (h handle) AddChild(child Transform, makeChildRelative bool) error {
	h.n()
	c, err := h.resolve(child)
	if err != nil {
		return err
	}
	return c.SetParent(h, makeChildRelative)
}

func (h handle) RemoveChild(child Transform, applyParentTransform bool) error {
	h.n()
	c, err := h.resolve(child)
	if err != nil {
		return err
	}
	if h.g.nodes[c.id.index].parent != h.id {
		return fmt.Errorf("%w: %v of %v", ErrNotChild, c.id, h.id)
	}
	return h.unparent(c, applyParentTransform)
}

func (h handle) RemoveChildByIndex(index int, applyParentTransform bool) error {
	n := h.n()
	if index < 0 || index >= len(n.children) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(n.children))
	}
	return h.unparent(handle{g: h.g, id: n.children[index]}, applyParentTransform)
}

// unparent makes a direct child a root, optionally baking in this node's world matrix.
func (h handle) unparent(c handle, applyParentTransform bool) error {
	var world mgl32.Mat4
	if applyParentTransform {
		world = h.g.worldMatrix(c.id.index)
	}
	h.g.detach(c.id)
	if applyParentTransform {
		h.g.setLocalFromMatrix(c.id.index, world)
	}
	h.g.logger.Debug("node detached", "node", c.id, "parent", h.id, "applied", applyParentTransform)
	return nil
}

func (h handle) Child(index int) (Transform, error) {
	n := h.n()
	if index < 0 || index >= len(n.children) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(n.children))
	}
	return handle{g: h.g, id: n.children[index]}, nil
}

func (h handle) IndexOfChild(child Transform) int {
	h.n()
	c, ok := child.(handle)
	if !ok || c.g != h.g || !h.g.Valid(c.id) {
		return -1
	}
	if h.g.nodes[c.id.index].parent != h.id {
		return -1
	}
	return h.g.nodes[c.id.index].childIndex
}

func (h handle) ChildCount() int {
	return len(h.n().children)
}

func (h handle) Children() []Transform {
	n := h.n()
	out := make([]Transform, len(n.children))
	for i, id := range n.children {
		out[i] = handle{g: h.g, id: id}
	}
	return out
}

func (h handle) ChildIndex() int {
	return h.n().childIndex
}

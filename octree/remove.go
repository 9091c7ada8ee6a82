package octree

import (
	"slices"

	"github.com/HexaEngine/HexaEngine-sub024/spatialmath"
)

// RemoveObject stops tracking obj. It returns false if obj is unknown. When the owning node runs
// out of objects the tree tries to collapse the node's parent.
func (t *Octree[T]) RemoveObject(obj T) bool {
	idx, ok := t.objectToNode[obj]
	if !ok {
		return false
	}
	delete(t.objectToNode, obj)
	t.detachEntry(idx, t.nodes[idx].indexOf(obj))
	return true
}

// UpdateObject moves obj to sphere. Unknown objects are ignored and objects leaving the world bounds
// are removed. The new owner is searched for from the closest ancestor of the current owner that
// contains the sphere, so small moves stay local.
func (t *Octree[T]) UpdateObject(obj T, sphere spatialmath.Sphere) {
	idx, ok := t.objectToNode[obj]
	if !ok {
		return
	}
	if t.world.ContainsSphere(sphere) != spatialmath.Contains {
		t.RemoveObject(obj)
		return
	}

	start := idx
	for start != rootIndex && t.nodes[start].bounds.ContainsSphere(sphere) != spatialmath.Contains {
		start = t.nodes[start].parent
	}

	i := t.nodes[idx].indexOf(obj)
	if start == idx {
		if i >= 0 {
			t.nodes[idx].objects[i].Sphere = sphere
		}
		return
	}

	// Insert before detaching: detaching may collapse nodes, start among them.
	t.insert(start, obj, sphere)
	t.detachEntry(idx, i)
}

// detachEntry drops the i-th object of the node at idx without touching the object map.
func (t *Octree[T]) detachEntry(idx, i int) {
	if i < 0 {
		return
	}
	t.nodes[idx].objects = slices.Delete(t.nodes[idx].objects, i, i+1)
	if len(t.nodes[idx].objects) > 0 {
		return
	}
	t.releaseObjects(idx, false)
	t.tryCompact(t.nodes[idx].parent)
}

// tryCompact collapses the node at idx into a leaf when all of its children are leaves holding at
// most collapseThreshold objects between them, then repeats for its ancestors.
func (t *Octree[T]) tryCompact(idx int) {
	for idx != noNode {
		node := &t.nodes[idx]
		if !node.HasChildren() {
			return
		}

		total := 0
		for _, child := range node.children {
			if t.nodes[child].HasChildren() {
				return
			}
			total += len(t.nodes[child].objects)
		}
		if total > t.collapseThreshold {
			return
		}

		t.compact(idx)
		idx = t.nodes[idx].parent
	}
}

// compact merges the objects of the children of idx into idx and frees the children.
func (t *Octree[T]) compact(idx int) {
	children := t.nodes[idx].children
	t.nodes[idx].children = noChildren

	merged := 0
	for _, child := range children {
		for _, entry := range t.nodes[child].objects {
			t.appendEntry(idx, entry)
			t.objectToNode[entry.Value] = idx
			merged++
		}
	}
	// Reverse order so children at the end of the slot span shrink it.
	for i := len(children) - 1; i >= 0; i-- {
		t.freeNode(children[i])
	}

	t.logger.Debugw("collapsed node", "index", idx, "depth", t.nodes[idx].depth, "merged", merged)
}

// Clear removes every object and node except the root, which again covers the world bounds.
func (t *Octree[T]) Clear() {
	for i := range t.nodes {
		if t.nodes[i].live {
			t.releaseObjects(i, false)
		}
	}
	clear(t.nodes)
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	t.live = 0
	clear(t.objectToNode)

	t.allocateNode(noNode, t.world, 0)
}

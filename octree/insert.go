package octree

import (
	"slices"

	"github.com/HexaEngine/HexaEngine-sub024/spatialmath"
)

// AddObject inserts obj bounded by sphere into the deepest node that fully contains the sphere. It
// returns false, and leaves the tree untouched, when the sphere does not touch the world bounds. A
// sphere that only partially overlaps the world is held by the root. Adding an object that is
// already tracked moves it to its new sphere.
func (t *Octree[T]) AddObject(obj T, sphere spatialmath.Sphere) bool {
	if !t.world.IntersectsSphere(sphere) {
		t.logger.Debugw("rejecting object outside of world bounds", "sphere", sphere.String())
		return false
	}

	if idx, ok := t.objectToNode[obj]; ok {
		// The root survives any compaction, so the old entry can go first.
		t.detachEntry(idx, t.nodes[idx].indexOf(obj))
	}
	t.insert(rootIndex, obj, sphere)
	return true
}

// findBestNode descends from start into the first child, in index order, whose bounds contain the
// sphere. It stops at a leaf or when no child contains the sphere.
func (t *Octree[T]) findBestNode(start int, sphere spatialmath.Sphere) int {
	idx := start
	for {
		node := &t.nodes[idx]
		if !node.HasChildren() {
			return idx
		}

		next := noNode
		for _, child := range node.children {
			if t.nodes[child].bounds.ContainsSphere(sphere) == spatialmath.Contains {
				next = child
				break
			}
		}
		if next == noNode {
			return idx
		}
		idx = next
	}
}

// insert places obj in the best node below start, records its owner and splits the owner when it
// holds too many objects.
func (t *Octree[T]) insert(start int, obj T, sphere spatialmath.Sphere) int {
	idx := t.findBestNode(start, sphere)
	t.appendEntry(idx, Entry[T]{Value: obj, Sphere: sphere})
	t.objectToNode[obj] = idx

	if len(t.nodes[idx].objects) > t.splitThreshold && t.nodes[idx].depth < t.maxDepth {
		t.split(idx)
	}
	return idx
}

func (t *Octree[T]) appendEntry(idx int, entry Entry[T]) {
	if t.nodes[idx].objects == nil {
		t.nodes[idx].objects = t.pool.Rent()
	}
	t.nodes[idx].objects = append(t.nodes[idx].objects, entry)
}

// split allocates all eight children of the node at idx and moves every object that fits entirely in
// a child down into it. Objects straddling the octant planes stay where they are.
func (t *Octree[T]) split(idx int) {
	if t.nodes[idx].HasChildren() {
		return
	}

	bounds := t.nodes[idx].bounds
	depth := t.nodes[idx].depth + 1
	var children [8]int
	for i := range children {
		// Allocation may grow the node slice, so the parent is re-indexed afterwards.
		children[i] = t.allocateNode(idx, bounds.Octant(i), depth)
	}
	t.nodes[idx].children = children

	objs := t.nodes[idx].objects
	moved := 0
	for i := len(objs) - 1; i >= 0; i-- {
		entry := objs[i]
		for _, child := range children {
			if t.nodes[child].bounds.ContainsSphere(entry.Sphere) != spatialmath.Contains {
				continue
			}
			objs = slices.Delete(objs, i, i+1)
			t.insert(child, entry.Value, entry.Sphere)
			moved++
			break
		}
	}

	t.nodes[idx].objects = objs
	if len(objs) == 0 {
		t.releaseObjects(idx, false)
	}

	t.logger.Debugw("split node", "index", idx, "depth", depth-1, "moved", moved, "kept", len(objs))
}

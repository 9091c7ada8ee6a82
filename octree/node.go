package octree

import (
	"github.com/HexaEngine/HexaEngine-sub024/spatialmath"
)

var noChildren = [8]int{noNode, noNode, noNode, noNode, noNode, noNode, noNode, noNode}

// Entry is an object stored in the tree together with its bounding sphere.
type Entry[T comparable] struct {
	Value  T
	Sphere spatialmath.Sphere
}

// Node is a region of the tree. A node either has no children or all eight of them. Its bounds are
// fixed when the node is allocated.
type Node[T comparable] struct {
	parent   int
	children [8]int
	bounds   spatialmath.Box
	depth    int
	objects  []Entry[T]
	live     bool
}

func newNode[T comparable](parent int, bounds spatialmath.Box, depth int) Node[T] {
	return Node[T]{
		parent:   parent,
		children: noChildren,
		bounds:   bounds,
		depth:    depth,
		live:     true,
	}
}

// ParentIndex returns the index of the parent node, or -1 for the root.
func (n Node[T]) ParentIndex() int {
	return n.parent
}

// Child returns the index of the i-th child, or -1 when the node has no children.
func (n Node[T]) Child(i int) int {
	return n.children[i]
}

// HasChildren returns whether the node has been split.
func (n Node[T]) HasChildren() bool {
	return n.children[0] != noNode
}

// Bounds returns the region covered by the node.
func (n Node[T]) Bounds() spatialmath.Box {
	return n.bounds
}

// Depth returns the distance from the root, which has depth 0.
func (n Node[T]) Depth() int {
	return n.depth
}

// ObjectCount returns the number of objects held directly by the node.
func (n Node[T]) ObjectCount() int {
	return len(n.objects)
}

// Objects returns the objects held directly by the node. The slice is owned by the tree and must not
// be modified or retained.
func (n Node[T]) Objects() []Entry[T] {
	return n.objects
}

func (n *Node[T]) indexOf(obj T) int {
	for i := range n.objects {
		if n.objects[i].Value == obj {
			return i
		}
	}
	return -1
}

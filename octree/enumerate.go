package octree

import (
	"iter"
)

// FilterResult tells an enumeration whether to keep or skip a node or object.
type FilterResult uint8

// Filter results.
const (
	Keep = FilterResult(iota)
	Skip
)

// NodeFilter decides whether the subtree below node is visited.
type NodeFilter[T comparable, U any] func(node *Node[T], userdata U) FilterResult

// ObjectFilter decides whether an object is yielded.
type ObjectFilter[T comparable, U any] func(entry *Entry[T], userdata U) FilterResult

// WalkStack is the traversal stack of an enumeration. Reusing one across enumerations avoids
// allocating a new stack each time, but a stack must not be shared by enumerations running at the
// same time.
type WalkStack struct {
	indices []int
}

// NewWalkStack returns an empty stack.
func NewWalkStack() *WalkStack {
	return &WalkStack{indices: make([]int, 0, 64)}
}

func (s *WalkStack) push(idx int) {
	s.indices = append(s.indices, idx)
}

func (s *WalkStack) pop() int {
	n := len(s.indices) - 1
	idx := s.indices[n]
	s.indices = s.indices[:n]
	return idx
}

func (s *WalkStack) reset() {
	s.indices = s.indices[:0]
}

// KeepAllNodes is a NodeFilter that visits every node.
func KeepAllNodes[T comparable, U any](*Node[T], U) FilterResult {
	return Keep
}

// KeepAllObjects is an ObjectFilter that yields every object.
func KeepAllObjects[T comparable, U any](*Entry[T], U) FilterResult {
	return Keep
}

// EnumerateObjects walks the tree depth first from the root and yields the objects accepted by
// objectFilter. The root is always visited; any other node is visited only when nodeFilter keeps it,
// and skipping a node skips its whole subtree. Both filters receive userdata. A nil filter keeps
// everything. The sequence is lazy and must not be consumed while the tree is being modified.
func EnumerateObjects[T comparable, U any](
	tree *Octree[T],
	userdata U,
	stack *WalkStack,
	nodeFilter NodeFilter[T, U],
	objectFilter ObjectFilter[T, U],
) iter.Seq[T] {
	if nodeFilter == nil {
		nodeFilter = KeepAllNodes[T, U]
	}
	if objectFilter == nil {
		objectFilter = KeepAllObjects[T, U]
	}

	return func(yield func(T) bool) {
		if tree.live == 0 {
			return
		}
		walk := stack
		if walk == nil {
			walk = NewWalkStack()
		}

		walk.reset()
		walk.push(rootIndex)
		for len(walk.indices) > 0 {
			idx := walk.pop()
			node := &tree.nodes[idx]

			if node.HasChildren() {
				for _, child := range node.children {
					if nodeFilter(&tree.nodes[child], userdata) == Keep {
						walk.push(child)
					}
				}
			}

			for i := range node.objects {
				if objectFilter(&node.objects[i], userdata) != Keep {
					continue
				}
				if !yield(node.objects[i].Value) {
					return
				}
			}
		}
	}
}

// Objects yields every tracked object.
func (t *Octree[T]) Objects(stack *WalkStack) iter.Seq[T] {
	return EnumerateObjects[T, struct{}](t, struct{}{}, stack, nil, nil)
}

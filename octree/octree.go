// Package octree implements a sparse spatial index over bounding spheres. The tree recursively
// partitions a world box into octants and stores every object in the deepest node whose bounds fully
// contain its sphere. Nodes live in a flat slice and refer to each other by index, so splitting,
// compacting and clearing the tree recycles node slots instead of allocating.
//
// An Octree is not safe for concurrent use.
package octree

import (
	"github.com/pkg/errors"

	"github.com/HexaEngine/HexaEngine-sub024/logging"
	"github.com/HexaEngine/HexaEngine-sub024/spatialmath"
	"github.com/HexaEngine/HexaEngine-sub024/utils"
)

// Default tree parameters.
const (
	DefaultCapacity          = 128
	DefaultSplitThreshold    = 32
	DefaultMaxDepth          = 8
	DefaultCollapseThreshold = 8

	rootIndex = 0
	noNode    = -1
)

// Octree is a spatial index of objects of type T, each bounded by a sphere. Objects are used as map
// keys, so two equal values refer to the same tracked object.
type Octree[T comparable] struct {
	logger logging.Logger

	// nodes holds every occupied slot; cap(nodes) is the tree capacity. Freed slots below the last
	// occupied one are kept on the free stack and reused before the slice grows.
	nodes []Node[T]
	free  []int
	live  int

	world        spatialmath.Box
	objectToNode map[T]int
	pool         *utils.ListPool[Entry[T]]

	splitThreshold    int
	maxDepth          int
	collapseThreshold int
}

// New creates an octree covering worldBounds with room for capacity nodes before it grows.
func New[T comparable](capacity int, worldBounds spatialmath.Box, logger logging.Logger) (*Octree[T], error) {
	if capacity < 1 {
		return nil, errors.Errorf("invalid capacity (%d) for octree, must be at least 1", capacity)
	}
	return newOctree[T](capacity, worldBounds, DefaultSplitThreshold, DefaultMaxDepth, DefaultCollapseThreshold,
		utils.DefaultListPoolSize, logger), nil
}

// NewDefault creates an octree covering worldBounds with the default capacity.
func NewDefault[T comparable](worldBounds spatialmath.Box, logger logging.Logger) *Octree[T] {
	return newOctree[T](DefaultCapacity, worldBounds, DefaultSplitThreshold, DefaultMaxDepth, DefaultCollapseThreshold,
		utils.DefaultListPoolSize, logger)
}

// NewFromConfig creates an octree whose world bounds and thresholds come from cfg.
func NewFromConfig[T comparable](cfg *Config, logger logging.Logger) (*Octree[T], error) {
	if cfg == nil {
		return nil, errors.New("octree config is nil")
	}
	if err := cfg.Validate("octree"); err != nil {
		return nil, err
	}
	world, err := cfg.WorldBounds()
	if err != nil {
		return nil, err
	}
	return newOctree[T](
		withDefault(cfg.Capacity, DefaultCapacity),
		world,
		withDefault(cfg.SplitThreshold, DefaultSplitThreshold),
		withDefault(cfg.MaxDepth, DefaultMaxDepth),
		withDefault(cfg.CollapseThreshold, DefaultCollapseThreshold),
		withDefault(cfg.ListPoolSize, utils.DefaultListPoolSize),
		logger,
	), nil
}

func newOctree[T comparable](
	capacity int,
	world spatialmath.Box,
	splitThreshold, maxDepth, collapseThreshold, poolSize int,
	logger logging.Logger,
) *Octree[T] {
	if logger == nil {
		logger = logging.NewBlankLogger("octree")
	}
	tree := &Octree[T]{
		logger:            logger,
		nodes:             make([]Node[T], 0, capacity),
		world:             world,
		objectToNode:      make(map[T]int),
		pool:              utils.NewListPool[Entry[T]](poolSize),
		splitThreshold:    splitThreshold,
		maxDepth:          maxDepth,
		collapseThreshold: collapseThreshold,
	}
	tree.allocateNode(noNode, world, 0)
	return tree
}

// Capacity returns the number of node slots the tree can hold before it has to grow.
func (t *Octree[T]) Capacity() int {
	return cap(t.nodes)
}

// SetCapacity resizes the node storage. Requests smaller than the live node count, or smaller than
// the span of occupied slots, are ignored.
func (t *Octree[T]) SetCapacity(capacity int) {
	if capacity < t.live || capacity < len(t.nodes) {
		t.logger.Debugw("ignoring capacity change", "requested", capacity, "live", t.live, "slots", len(t.nodes))
		return
	}
	if capacity == cap(t.nodes) {
		return
	}
	nodes := make([]Node[T], len(t.nodes), capacity)
	copy(nodes, t.nodes)
	t.nodes = nodes
}

// NodeCount returns the number of live nodes, the root included.
func (t *Octree[T]) NodeCount() int {
	return t.live
}

// Len returns the number of tracked objects.
func (t *Octree[T]) Len() int {
	return len(t.objectToNode)
}

// Contains returns whether obj is tracked by the tree.
func (t *Octree[T]) Contains(obj T) bool {
	_, ok := t.objectToNode[obj]
	return ok
}

// Lookup returns the sphere obj was last added or updated with.
func (t *Octree[T]) Lookup(obj T) (spatialmath.Sphere, bool) {
	idx, ok := t.objectToNode[obj]
	if !ok {
		return spatialmath.Sphere{}, false
	}
	i := t.nodes[idx].indexOf(obj)
	if i < 0 {
		return spatialmath.Sphere{}, false
	}
	return t.nodes[idx].objects[i].Sphere, true
}

// NodeIndexOf returns the index of the node that owns obj.
func (t *Octree[T]) NodeIndexOf(obj T) (int, bool) {
	idx, ok := t.objectToNode[obj]
	return idx, ok
}

// Node returns a copy of the node stored at index i, if that slot is live. The copy shares its
// object list with the tree and is invalidated by the next mutation.
func (t *Octree[T]) Node(i int) (Node[T], bool) {
	if i < 0 || i >= len(t.nodes) || !t.nodes[i].live {
		return Node[T]{}, false
	}
	return t.nodes[i], true
}

// Root returns the root node.
func (t *Octree[T]) Root() Node[T] {
	return t.nodes[rootIndex]
}

// WorldBounds returns the bounds covered by the root node.
func (t *Octree[T]) WorldBounds() spatialmath.Box {
	return t.world
}

// allocateNode claims a slot for a new node, reusing a freed slot when one exists and doubling the
// storage when full.
func (t *Octree[T]) allocateNode(parent int, bounds spatialmath.Box, depth int) int {
	node := newNode[T](parent, bounds, depth)
	t.live++

	if n := len(t.free); n > 0 {
		idx := t.free[n-1]
		t.free = t.free[:n-1]
		t.nodes[idx] = node
		return idx
	}

	if len(t.nodes) == cap(t.nodes) {
		grown := make([]Node[T], len(t.nodes), max(2*cap(t.nodes), 1))
		copy(grown, t.nodes)
		t.nodes = grown
	}
	t.nodes = append(t.nodes, node)
	return len(t.nodes) - 1
}

// freeNode releases the slot at idx. Freeing the last occupied slot shrinks the slot span instead of
// adding to the free stack.
func (t *Octree[T]) freeNode(idx int) {
	t.releaseObjects(idx, true)
	t.nodes[idx] = Node[T]{parent: noNode, children: noChildren}
	t.live--

	if idx == len(t.nodes)-1 {
		t.nodes = t.nodes[:idx]
		return
	}
	t.free = append(t.free, idx)
}

// releaseObjects hands the object list of the node at idx back to the pool.
func (t *Octree[T]) releaseObjects(idx int, clearList bool) {
	if t.nodes[idx].objects == nil {
		return
	}
	t.pool.Return(t.nodes[idx].objects, clearList)
	t.nodes[idx].objects = nil
}

func withDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

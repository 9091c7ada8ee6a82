package octree

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/HexaEngine/HexaEngine-sub024/spatialmath"
	"github.com/HexaEngine/HexaEngine-sub024/utils"
)

// Stats is a snapshot of the tree's shape.
type Stats struct {
	Nodes     int
	Capacity  int
	Slots     int
	FreeSlots int
	Objects   int
	Leaves    int
	MaxDepth  int
	// InternalObjects counts objects held by nodes that have children, i.e. objects straddling
	// octant planes.
	InternalObjects int
	ListPool        utils.ListPoolStats
}

// Stats walks the live nodes and returns a snapshot of the tree.
func (t *Octree[T]) Stats() Stats {
	stats := Stats{
		Nodes:     t.live,
		Capacity:  cap(t.nodes),
		Slots:     len(t.nodes),
		FreeSlots: len(t.free),
		Objects:   len(t.objectToNode),
		ListPool:  t.pool.Stats(),
	}
	for i := range t.nodes {
		node := &t.nodes[i]
		if !node.live {
			continue
		}
		if node.HasChildren() {
			stats.InternalObjects += len(node.objects)
		} else {
			stats.Leaves++
		}
		stats.MaxDepth = max(stats.MaxDepth, node.depth)
	}
	return stats
}

// Validate checks the structural invariants of the tree and returns every violation found. A nil
// error means the node links, the slot bookkeeping and the object map all agree, and every object
// is contained by the node that owns it.
func (t *Octree[T]) Validate() error {
	var errs error

	if t.live == 0 || !t.nodes[rootIndex].live {
		return errors.New("root node is missing")
	}
	root := &t.nodes[rootIndex]
	if root.parent != noNode || root.depth != 0 || root.bounds != t.world {
		errs = multierr.Append(errs, errors.New("root node does not cover the world bounds"))
	}

	liveSlots := 0
	for i := range t.nodes {
		if t.nodes[i].live {
			liveSlots++
		}
	}
	if liveSlots != t.live {
		errs = multierr.Append(errs, errors.Errorf("live node count %d does not match %d live slots", t.live, liveSlots))
	}
	if liveSlots+len(t.free) != len(t.nodes) {
		errs = multierr.Append(errs, errors.Errorf("%d live and %d free slots do not add up to %d slots",
			liveSlots, len(t.free), len(t.nodes)))
	}
	for _, idx := range t.free {
		if idx < 0 || idx >= len(t.nodes) || t.nodes[idx].live {
			errs = multierr.Append(errs, errors.Errorf("free slot %d is not a dead slot", idx))
		}
	}

	reached := 0
	entries := 0
	stack := []int{rootIndex}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.nodes[idx]
		reached++

		if node.objects != nil && len(node.objects) == 0 {
			errs = multierr.Append(errs, errors.Errorf("node %d keeps an empty object list", idx))
		}
		for _, entry := range node.objects {
			entries++
			if owner, ok := t.objectToNode[entry.Value]; !ok || owner != idx {
				errs = multierr.Append(errs, errors.Errorf("object %v in node %d is mapped to node %d", entry.Value, idx, owner))
			}
			if !t.owns(idx, entry.Sphere) {
				errs = multierr.Append(errs, errors.Errorf("node %d does not contain the sphere of object %v (%v)",
					idx, entry.Value, entry.Sphere))
			}
		}

		if !node.HasChildren() {
			continue
		}
		for i, child := range node.children {
			if child < 0 || child >= len(t.nodes) || !t.nodes[child].live {
				errs = multierr.Append(errs, errors.Errorf("node %d links to dead child %d", idx, child))
				continue
			}
			c := &t.nodes[child]
			if c.parent != idx || c.depth != node.depth+1 || c.bounds != node.bounds.Octant(i) {
				errs = multierr.Append(errs, errors.Errorf("child %d of node %d is not its octant %d", child, idx, i))
				continue
			}
			stack = append(stack, child)
		}
	}

	if reached != t.live {
		errs = multierr.Append(errs, errors.Errorf("%d nodes reachable from the root, %d live", reached, t.live))
	}
	if entries != len(t.objectToNode) {
		errs = multierr.Append(errs, errors.Errorf("%d stored objects, %d mapped", entries, len(t.objectToNode)))
	}
	return errs
}

// owns reports whether the node at idx may hold an object bounded by sphere. The root also holds
// spheres that only partially overlap the world.
func (t *Octree[T]) owns(idx int, sphere spatialmath.Sphere) bool {
	if t.nodes[idx].bounds.ContainsSphere(sphere) == spatialmath.Contains {
		return true
	}
	return idx == rootIndex && t.world.IntersectsSphere(sphere)
}

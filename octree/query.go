package octree

import (
	"iter"

	"github.com/HexaEngine/HexaEngine-sub024/spatialmath"
)

// QueryBox yields the objects whose spheres overlap box.
func (t *Octree[T]) QueryBox(box spatialmath.Box, stack *WalkStack) iter.Seq[T] {
	return EnumerateObjects(t, box, stack,
		func(node *Node[T], box spatialmath.Box) FilterResult {
			return keepIf(node.bounds.IntersectsBox(box))
		},
		func(entry *Entry[T], box spatialmath.Box) FilterResult {
			return keepIf(box.IntersectsSphere(entry.Sphere))
		},
	)
}

// QuerySphere yields the objects whose spheres overlap sphere.
func (t *Octree[T]) QuerySphere(sphere spatialmath.Sphere, stack *WalkStack) iter.Seq[T] {
	return EnumerateObjects(t, sphere, stack,
		func(node *Node[T], sphere spatialmath.Sphere) FilterResult {
			return keepIf(node.bounds.IntersectsSphere(sphere))
		},
		func(entry *Entry[T], sphere spatialmath.Sphere) FilterResult {
			return keepIf(sphere.Intersects(entry.Sphere))
		},
	)
}

// QueryFrustum yields the objects whose spheres are at least partially inside frustum. Both the node
// and the sphere tests are conservative near the frustum corners.
func (t *Octree[T]) QueryFrustum(frustum *spatialmath.Frustum, stack *WalkStack) iter.Seq[T] {
	return EnumerateObjects(t, frustum, stack,
		func(node *Node[T], frustum *spatialmath.Frustum) FilterResult {
			return keepIf(frustum.IntersectsBox(node.bounds))
		},
		func(entry *Entry[T], frustum *spatialmath.Frustum) FilterResult {
			return keepIf(frustum.IntersectsSphere(entry.Sphere))
		},
	)
}

func keepIf(ok bool) FilterResult {
	if ok {
		return Keep
	}
	return Skip
}

// Package spatialmath defines the bounding volumes used by the spatial index: axis aligned boxes,
// spheres and view frustums, along with the containment and intersection predicates between them.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Box is an axis aligned box defined by its minimum and maximum corners.
type Box struct {
	Min r3.Vector
	Max r3.Vector
}

// NewBox instantiates a new Box from its corners. The corners must be ordered on every axis.
func NewBox(minPt, maxPt r3.Vector) (Box, error) {
	if hasNaN(minPt) || hasNaN(maxPt) {
		return Box{}, errors.New("box corners must not contain NaN")
	}
	if minPt.X > maxPt.X || minPt.Y > maxPt.Y || minPt.Z > maxPt.Z {
		return Box{}, newBadBoxCornersError(minPt, maxPt)
	}
	return Box{Min: minPt, Max: maxPt}, nil
}

// NewBoxFromCenter returns the box centered at center which extends halfExtents along each axis.
// Negative extents are treated as their absolute value.
func NewBoxFromCenter(center, halfExtents r3.Vector) Box {
	halfExtents = halfExtents.Abs()
	return Box{Min: center.Sub(halfExtents), Max: center.Add(halfExtents)}
}

// String returns a human readable string that represents the box.
func (b Box) String() string {
	return fmt.Sprintf("Type: Box | Min: X:%.2f, Y:%.2f, Z:%.2f | Max: X:%.2f, Y:%.2f, Z:%.2f",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}

// Center returns the midpoint of the box.
func (b Box) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the edge lengths of the box.
func (b Box) Size() r3.Vector {
	return b.Max.Sub(b.Min)
}

// Extents returns the half edge lengths of the box.
func (b Box) Extents() r3.Vector {
	return b.Size().Mul(0.5)
}

// Octant returns one of the eight boxes obtained by splitting b through its center. Bit 0 of the
// index selects the upper Z half, bit 1 the upper X half and bit 2 the upper Y half:
//
//	0 (-X,-Y,-Z)  1 (-X,-Y,+Z)  2 (+X,-Y,-Z)  3 (+X,-Y,+Z)
//	4 (-X,+Y,-Z)  5 (-X,+Y,+Z)  6 (+X,+Y,-Z)  7 (+X,+Y,+Z)
func (b Box) Octant(i int) Box {
	c := b.Center()
	o := Box{Min: b.Min, Max: c}
	if i&1 != 0 {
		o.Min.Z, o.Max.Z = c.Z, b.Max.Z
	}
	if i&2 != 0 {
		o.Min.X, o.Max.X = c.X, b.Max.X
	}
	if i&4 != 0 {
		o.Min.Y, o.Max.Y = c.Y, b.Max.Y
	}
	return o
}

// ContainsPoint returns whether pt lies inside or on the boundary of the box.
func (b Box) ContainsPoint(pt r3.Vector) bool {
	return b.Min.X <= pt.X && pt.X <= b.Max.X &&
		b.Min.Y <= pt.Y && pt.Y <= b.Max.Y &&
		b.Min.Z <= pt.Z && pt.Z <= b.Max.Z
}

// ClosestPoint returns the point of the box nearest to pt.
func (b Box) ClosestPoint(pt r3.Vector) r3.Vector {
	return r3.Vector{
		X: clamp(pt.X, b.Min.X, b.Max.X),
		Y: clamp(pt.Y, b.Min.Y, b.Max.Y),
		Z: clamp(pt.Z, b.Min.Z, b.Max.Z),
	}
}

// ContainsSphere reports whether s is disjoint from, intersects, or is fully contained by the box.
func (b Box) ContainsSphere(s Sphere) ContainmentType {
	closest := b.ClosestPoint(s.Center)
	if closest.Sub(s.Center).Norm2() > s.Radius*s.Radius {
		return Disjoint
	}

	r := s.Radius
	c := s.Center
	if b.Min.X+r <= c.X && c.X <= b.Max.X-r && b.Max.X-b.Min.X > r &&
		b.Min.Y+r <= c.Y && c.Y <= b.Max.Y-r && b.Max.Y-b.Min.Y > r &&
		b.Min.Z+r <= c.Z && c.Z <= b.Max.Z-r && b.Max.Z-b.Min.Z > r {
		return Contains
	}
	return Intersects
}

// IntersectsSphere returns whether the box and s share any space.
func (b Box) IntersectsSphere(s Sphere) bool {
	return b.ContainsSphere(s) != Disjoint
}

// ContainsBox reports whether other is disjoint from, intersects, or is fully contained by the box.
func (b Box) ContainsBox(other Box) ContainmentType {
	if !b.IntersectsBox(other) {
		return Disjoint
	}
	if b.ContainsPoint(other.Min) && b.ContainsPoint(other.Max) {
		return Contains
	}
	return Intersects
}

// IntersectsBox returns whether the two boxes overlap. Touching faces count as overlap.
func (b Box) IntersectsBox(other Box) bool {
	return b.Min.X <= other.Max.X && other.Min.X <= b.Max.X &&
		b.Min.Y <= other.Max.Y && other.Min.Y <= b.Max.Y &&
		b.Min.Z <= other.Max.Z && other.Min.Z <= b.Max.Z
}

// AlmostEqual compares the box with another and checks if they are equivalent within epsilon.
func (b Box) AlmostEqual(other Box, epsilon float64) bool {
	return R3VectorAlmostEqual(b.Min, other.Min, epsilon) && R3VectorAlmostEqual(b.Max, other.Max, epsilon)
}

func newBadBoxCornersError(minPt, maxPt r3.Vector) error {
	return errors.Errorf("box minimum corner (%.2f, %.2f, %.2f) exceeds maximum corner (%.2f, %.2f, %.2f)",
		minPt.X, minPt.Y, minPt.Z, maxPt.X, maxPt.Y, maxPt.Z)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func hasNaN(v r3.Vector) bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}

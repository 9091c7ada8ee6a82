package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// Plane is the set of points p satisfying Normal·p + D = 0. Points with a positive signed distance
// lie in front of the plane.
type Plane struct {
	Normal r3.Vector
	D      float64
}

// NewPlane returns the plane with the given normal passing through point. The normal is normalized.
func NewPlane(normal, point r3.Vector) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: -n.Dot(point)}
}

// Normalize rescales the plane equation so the normal has unit length.
func (p Plane) Normalize() Plane {
	l := p.Normal.Norm()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Mul(1 / l), D: p.D / l}
}

// SignedDistance returns the signed distance from the plane to pt.
func (p Plane) SignedDistance(pt r3.Vector) float64 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// Frustum is a convex volume bounded by six planes whose normals point inward.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustum builds a frustum from six inward facing planes, normalizing each of them.
func NewFrustum(planes [6]Plane) Frustum {
	var f Frustum
	for i, p := range planes {
		f.Planes[i] = p.Normalize()
	}
	return f
}

// NewFrustumFromMatrix extracts the frustum planes of a row-major view-projection matrix, where
// element (row, col) is m[row*4+col] and clip coordinates are M·v. The clip volume follows the
// Direct3D convention of 0 <= z <= w.
func NewFrustumFromMatrix(m [16]float64) Frustum {
	row := func(i int) (r3.Vector, float64) {
		return r3.Vector{X: m[i*4], Y: m[i*4+1], Z: m[i*4+2]}, m[i*4+3]
	}
	r0, w0 := row(0)
	r1, w1 := row(1)
	r2, w2 := row(2)
	r3v, w3 := row(3)

	return NewFrustum([6]Plane{
		FrustumLeft:   {Normal: r3v.Add(r0), D: w3 + w0},
		FrustumRight:  {Normal: r3v.Sub(r0), D: w3 - w0},
		FrustumBottom: {Normal: r3v.Add(r1), D: w3 + w1},
		FrustumTop:    {Normal: r3v.Sub(r1), D: w3 - w1},
		FrustumNear:   {Normal: r2, D: w2},
		FrustumFar:    {Normal: r3v.Sub(r2), D: w3 - w2},
	})
}

// NewPerspectiveFrustum returns the view frustum of a camera at the origin looking down +Z, with the
// given vertical field of view in radians, width over height aspect ratio and clip distances.
func NewPerspectiveFrustum(fovY, aspect, near, far float64) Frustum {
	yScale := 1 / math.Tan(fovY/2)
	xScale := yScale / aspect
	depth := far / (far - near)
	return NewFrustumFromMatrix([16]float64{
		xScale, 0, 0, 0,
		0, yScale, 0, 0,
		0, 0, depth, -near * depth,
		0, 0, 1, 0,
	})
}

// NewFrustumFromBox returns the frustum whose planes are the faces of b. Orthographic views cull
// against such a volume.
func NewFrustumFromBox(b Box) Frustum {
	return NewFrustum([6]Plane{
		FrustumLeft:   NewPlane(r3.Vector{X: 1}, b.Min),
		FrustumRight:  NewPlane(r3.Vector{X: -1}, b.Max),
		FrustumBottom: NewPlane(r3.Vector{Y: 1}, b.Min),
		FrustumTop:    NewPlane(r3.Vector{Y: -1}, b.Max),
		FrustumNear:   NewPlane(r3.Vector{Z: 1}, b.Min),
		FrustumFar:    NewPlane(r3.Vector{Z: -1}, b.Max),
	})
}

// ContainsSphere reports whether s is outside, straddling, or entirely inside the frustum.
func (f Frustum) ContainsSphere(s Sphere) ContainmentType {
	result := Contains
	for _, p := range f.Planes {
		d := p.SignedDistance(s.Center)
		if d < -s.Radius {
			return Disjoint
		}
		if d < s.Radius {
			result = Intersects
		}
	}
	return result
}

// IntersectsSphere returns whether any part of s is inside the frustum.
func (f Frustum) IntersectsSphere(s Sphere) bool {
	return f.ContainsSphere(s) != Disjoint
}

// IntersectsBox returns whether any part of b may be inside the frustum. The test rejects a box as
// soon as its corner furthest along a plane normal lies behind that plane, so boxes near the frustum
// edges can be reported as intersecting when they are not.
func (f Frustum) IntersectsBox(b Box) bool {
	for _, p := range f.Planes {
		positive := b.Min
		if p.Normal.X >= 0 {
			positive.X = b.Max.X
		}
		if p.Normal.Y >= 0 {
			positive.Y = b.Max.Y
		}
		if p.Normal.Z >= 0 {
			positive.Z = b.Max.Z
		}
		if p.SignedDistance(positive) < 0 {
			return false
		}
	}
	return true
}

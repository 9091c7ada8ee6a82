package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Sphere is a bounding sphere given by its center and radius.
type Sphere struct {
	Center r3.Vector
	Radius float64
}

// NewSphere instantiates a new Sphere. Negative or NaN radii are not allowed; a zero radius is
// allowed for point-like objects.
func NewSphere(center r3.Vector, radius float64) (Sphere, error) {
	if radius < 0 || math.IsNaN(radius) {
		return Sphere{}, errors.Errorf("invalid sphere radius %.2f", radius)
	}
	if hasNaN(center) {
		return Sphere{}, errors.New("sphere center must not contain NaN")
	}
	return Sphere{Center: center, Radius: radius}, nil
}

// String returns a human readable string that represents the sphere.
func (s Sphere) String() string {
	return fmt.Sprintf("Type: Sphere | Center: X:%.2f, Y:%.2f, Z:%.2f | Radius: %.2f",
		s.Center.X, s.Center.Y, s.Center.Z, s.Radius)
}

// Bounds returns the smallest axis aligned box enclosing the sphere.
func (s Sphere) Bounds() Box {
	return NewBoxFromCenter(s.Center, r3.Vector{X: s.Radius, Y: s.Radius, Z: s.Radius})
}

// ContainsPoint returns whether pt lies inside or on the surface of the sphere.
func (s Sphere) ContainsPoint(pt r3.Vector) bool {
	return pt.Sub(s.Center).Norm2() <= s.Radius*s.Radius
}

// Intersects returns whether the two spheres share any space.
func (s Sphere) Intersects(other Sphere) bool {
	r := s.Radius + other.Radius
	return s.Center.Sub(other.Center).Norm2() <= r*r
}

// Translate returns the sphere moved by the given offset.
func (s Sphere) Translate(offset r3.Vector) Sphere {
	return Sphere{Center: s.Center.Add(offset), Radius: s.Radius}
}

// AlmostEqual compares the sphere with another and checks if they are equivalent within epsilon.
func (s Sphere) AlmostEqual(other Sphere, epsilon float64) bool {
	return R3VectorAlmostEqual(s.Center, other.Center, epsilon) && Float64AlmostEqual(s.Radius, other.Radius, epsilon)
}

package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func makeTestBox(t *testing.T, minPt, maxPt r3.Vector) Box {
	t.Helper()
	b, err := NewBox(minPt, maxPt)
	test.That(t, err, test.ShouldBeNil)
	return b
}

func TestNewBox(t *testing.T) {
	t.Run("ordered corners", func(t *testing.T) {
		b, err := NewBox(r3.Vector{X: -1, Y: -2, Z: -3}, r3.Vector{X: 1, Y: 2, Z: 3})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, b.Center(), test.ShouldResemble, r3.Vector{})
		test.That(t, b.Size(), test.ShouldResemble, r3.Vector{X: 2, Y: 4, Z: 6})
		test.That(t, b.Extents(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	})

	t.Run("degenerate box is allowed", func(t *testing.T) {
		_, err := NewBox(r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{X: 1, Y: 1, Z: 1})
		test.That(t, err, test.ShouldBeNil)
	})

	t.Run("swapped corners", func(t *testing.T) {
		_, err := NewBox(r3.Vector{X: 1}, r3.Vector{X: -1})
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "exceeds maximum corner")
	})

	t.Run("NaN corner", func(t *testing.T) {
		_, err := NewBox(r3.Vector{X: math.NaN()}, r3.Vector{X: 1, Y: 1, Z: 1})
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestNewBoxFromCenter(t *testing.T) {
	b := NewBoxFromCenter(r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{X: -1, Y: 2, Z: 3})
	test.That(t, b.Min, test.ShouldResemble, r3.Vector{X: 0, Y: -1, Z: -2})
	test.That(t, b.Max, test.ShouldResemble, r3.Vector{X: 2, Y: 3, Z: 4})
}

func TestBoxOctants(t *testing.T) {
	b := makeTestBox(t, r3.Vector{X: -2, Y: -4, Z: -8}, r3.Vector{X: 2, Y: 4, Z: 8})
	c := b.Center()

	expected := [8]Box{
		{Min: b.Min, Max: c},
		{Min: r3.Vector{X: b.Min.X, Y: b.Min.Y, Z: c.Z}, Max: r3.Vector{X: c.X, Y: c.Y, Z: b.Max.Z}},
		{Min: r3.Vector{X: c.X, Y: b.Min.Y, Z: b.Min.Z}, Max: r3.Vector{X: b.Max.X, Y: c.Y, Z: c.Z}},
		{Min: r3.Vector{X: c.X, Y: b.Min.Y, Z: c.Z}, Max: r3.Vector{X: b.Max.X, Y: c.Y, Z: b.Max.Z}},
		{Min: r3.Vector{X: b.Min.X, Y: c.Y, Z: b.Min.Z}, Max: r3.Vector{X: c.X, Y: b.Max.Y, Z: c.Z}},
		{Min: r3.Vector{X: b.Min.X, Y: c.Y, Z: c.Z}, Max: r3.Vector{X: c.X, Y: b.Max.Y, Z: b.Max.Z}},
		{Min: r3.Vector{X: c.X, Y: c.Y, Z: b.Min.Z}, Max: r3.Vector{X: b.Max.X, Y: b.Max.Y, Z: c.Z}},
		{Min: c, Max: b.Max},
	}

	var volume float64
	for i := 0; i < 8; i++ {
		o := b.Octant(i)
		test.That(t, o, test.ShouldResemble, expected[i])
		test.That(t, b.ContainsBox(o), test.ShouldEqual, Contains)
		s := o.Size()
		volume += s.X * s.Y * s.Z
	}
	s := b.Size()
	test.That(t, volume, test.ShouldAlmostEqual, s.X*s.Y*s.Z)
}

func TestBoxContainsSphere(t *testing.T) {
	b := makeTestBox(t, r3.Vector{X: -10, Y: -10, Z: -10}, r3.Vector{X: 10, Y: 10, Z: 10})

	for _, tc := range []struct {
		name     string
		sphere   Sphere
		expected ContainmentType
	}{
		{"centered", Sphere{Radius: 1}, Contains},
		{"touching inner face", Sphere{Center: r3.Vector{X: 9}, Radius: 1}, Contains},
		{"straddling face", Sphere{Center: r3.Vector{X: 10}, Radius: 1}, Intersects},
		{"near corner outside", Sphere{Center: r3.Vector{X: 11, Y: 11, Z: 11}, Radius: 1}, Disjoint},
		{"grazing corner", Sphere{Center: r3.Vector{X: 11, Y: 11, Z: 11}, Radius: 2}, Intersects},
		{"far away", Sphere{Center: r3.Vector{X: 1000}, Radius: 5}, Disjoint},
		{"bigger than box", Sphere{Radius: 100}, Intersects},
		{"point", Sphere{Center: r3.Vector{X: 3, Y: -3, Z: 3}}, Contains},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, b.ContainsSphere(tc.sphere), test.ShouldEqual, tc.expected)
			test.That(t, b.IntersectsSphere(tc.sphere), test.ShouldEqual, tc.expected != Disjoint)
		})
	}
}

func TestBoxContainsBox(t *testing.T) {
	b := makeTestBox(t, r3.Vector{}, r3.Vector{X: 4, Y: 4, Z: 4})
	test.That(t, b.ContainsBox(makeTestBox(t, r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{X: 2, Y: 2, Z: 2})), test.ShouldEqual, Contains)
	test.That(t, b.ContainsBox(makeTestBox(t, r3.Vector{X: 3, Y: 3, Z: 3}, r3.Vector{X: 5, Y: 5, Z: 5})), test.ShouldEqual, Intersects)
	test.That(t, b.ContainsBox(makeTestBox(t, r3.Vector{X: 5, Y: 5, Z: 5}, r3.Vector{X: 6, Y: 6, Z: 6})), test.ShouldEqual, Disjoint)
	test.That(t, b.IntersectsBox(makeTestBox(t, r3.Vector{X: 4}, r3.Vector{X: 5, Y: 1, Z: 1})), test.ShouldBeTrue)
}

func TestBoxClosestPoint(t *testing.T) {
	b := makeTestBox(t, r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})
	test.That(t, b.ClosestPoint(r3.Vector{X: 5, Y: 0.5, Z: -3}), test.ShouldResemble, r3.Vector{X: 1, Y: 0.5, Z: 0})
	test.That(t, b.ContainsPoint(r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}), test.ShouldBeTrue)
	test.That(t, b.ContainsPoint(r3.Vector{X: 1.5}), test.ShouldBeFalse)
}

func TestContainmentTypeString(t *testing.T) {
	test.That(t, Disjoint.String(), test.ShouldEqual, "disjoint")
	test.That(t, Intersects.String(), test.ShouldEqual, "intersects")
	test.That(t, Contains.String(), test.ShouldEqual, "contains")
	test.That(t, ContainmentType(9).String(), test.ShouldEqual, "unknown")
}

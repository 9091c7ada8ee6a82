package benchmark

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"

	"github.com/HexaEngine/HexaEngine-sub024/spatialmath"
)

// workload generates and moves the benchmark spheres. All values are whole numbers so a seed
// reproduces the same world on every platform.
type workload struct {
	rng         *rand.Rand
	spawnExtent int
	maxRadius   int
	maxVelocity int
}

func newWorkload(cfg Config) *workload {
	return &workload{
		//nolint:gosec
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		spawnExtent: cfg.SpawnExtent,
		maxRadius:   cfg.MaxRadius,
		maxVelocity: cfg.MaxVelocity,
	}
}

// between returns an integer in [lo, hi).
func (w *workload) between(lo, hi int) float64 {
	return float64(lo + w.rng.Intn(hi-lo))
}

func (w *workload) randomSphere() spatialmath.Sphere {
	e := w.spawnExtent
	return spatialmath.Sphere{
		Center: r3.Vector{X: w.between(-e, e), Y: w.between(-e, e), Z: w.between(-e, e)},
		Radius: w.between(1, w.maxRadius),
	}
}

func (w *workload) spheres(n int) []spatialmath.Sphere {
	spheres := make([]spatialmath.Sphere, n)
	for i := range spheres {
		spheres[i] = w.randomSphere()
	}
	return spheres
}

// move shifts every sphere by a random whole-number velocity.
func (w *workload) move(spheres []spatialmath.Sphere) {
	v := w.maxVelocity
	for i := range spheres {
		spheres[i] = spheres[i].Translate(r3.Vector{X: w.between(-v, v), Y: w.between(-v, v), Z: w.between(-v, v)})
	}
}

// viewFrustum is a camera at the origin looking down +Z with a 90 degree vertical field of view,
// reaching as far as objects spawn.
func viewFrustum(cfg Config) spatialmath.Frustum {
	return spatialmath.NewPerspectiveFrustum(math.Pi/2, 16.0/9.0, 0.1, float64(cfg.SpawnExtent))
}

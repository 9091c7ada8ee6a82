package metrics

import (
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.viam.com/test"

	"github.com/HexaEngine/HexaEngine-sub024/logging"
	"github.com/HexaEngine/HexaEngine-sub024/octree"
	"github.com/HexaEngine/HexaEngine-sub024/spatialmath"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	test.That(t, err, test.ShouldBeNil)
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	return byName
}

func TestOctreeCollector(t *testing.T) {
	world, err := spatialmath.NewBox(r3.Vector{X: -64, Y: -64, Z: -64}, r3.Vector{X: 64, Y: 64, Z: 64})
	test.That(t, err, test.ShouldBeNil)
	tree := octree.NewDefault[int](world, logging.NewTestLogger(t))
	for k := range 40 {
		c := world.Octant(k % 8).Center()
		tree.AddObject(k, spatialmath.Sphere{Center: c.Add(r3.Vector{Z: float64(k / 8)}), Radius: 0.5})
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(NewOctreeCollector("bench", tree))

	families := gather(t, reg)
	test.That(t, families, test.ShouldHaveLength, 10)

	gauge := func(name string) float64 {
		mf, ok := families[name]
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, mf.GetType(), test.ShouldEqual, dto.MetricType_GAUGE)
		return mf.GetMetric()[0].GetGauge().GetValue()
	}
	test.That(t, gauge("bench_octree_nodes"), test.ShouldEqual, 9.0)
	test.That(t, gauge("bench_octree_objects"), test.ShouldEqual, 40.0)
	test.That(t, gauge("bench_octree_leaves"), test.ShouldEqual, 8.0)
	test.That(t, gauge("bench_octree_max_depth"), test.ShouldEqual, 1.0)
	test.That(t, gauge("bench_octree_capacity"), test.ShouldEqual, float64(octree.DefaultCapacity))

	misses := families["bench_octree_list_pool_misses_total"]
	test.That(t, misses.GetType(), test.ShouldEqual, dto.MetricType_COUNTER)
	test.That(t, misses.GetMetric()[0].GetCounter().GetValue(), test.ShouldBeGreaterThan, 0.0)

	// Every scrape reads the current state.
	tree.Clear()
	families = gather(t, reg)
	test.That(t, gauge("bench_octree_nodes"), test.ShouldEqual, 1.0)
	test.That(t, gauge("bench_octree_objects"), test.ShouldEqual, 0.0)
}

func TestPhaseMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPhaseMetrics("bench", reg)
	test.That(t, err, test.ShouldBeNil)

	m.ObservePhase("insert", 2*time.Millisecond)
	m.ObservePhase("insert", 4*time.Millisecond)
	m.ObservePhase("update", time.Millisecond)

	families := gather(t, reg)
	iterations := families["bench_phase_iterations_total"]
	test.That(t, iterations, test.ShouldNotBeNil)
	test.That(t, iterations.GetMetric(), test.ShouldHaveLength, 2)

	counts := map[string]float64{}
	for _, metric := range iterations.GetMetric() {
		counts[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
	}
	test.That(t, counts, test.ShouldResemble, map[string]float64{"insert": 2, "update": 1})

	duration := families["bench_phase_duration_seconds"]
	test.That(t, duration.GetType(), test.ShouldEqual, dto.MetricType_HISTOGRAM)
	for _, metric := range duration.GetMetric() {
		if metric.GetLabel()[0].GetValue() == "insert" {
			test.That(t, metric.GetHistogram().GetSampleCount(), test.ShouldEqual, uint64(2))
			test.That(t, metric.GetHistogram().GetSampleSum(), test.ShouldAlmostEqual, 0.006)
		}
	}

	// Registering twice with the same registry fails.
	_, err = NewPhaseMetrics("bench", reg)
	test.That(t, err, test.ShouldNotBeNil)
}

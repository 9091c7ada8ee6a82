package benchmark

import (
	"testing"
	"time"

	"go.viam.com/test"
)

func TestNewPhaseResult(t *testing.T) {
	samples := []time.Duration{4 * time.Millisecond, time.Millisecond, 3 * time.Millisecond, 2 * time.Millisecond}
	result, err := newPhaseResult(PhaseInsert, samples, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Samples, test.ShouldEqual, 4)

	const tolerance = 10 // ns
	test.That(t, float64(result.Total), test.ShouldAlmostEqual, float64(10*time.Millisecond), tolerance)
	test.That(t, float64(result.Mean), test.ShouldAlmostEqual, float64(2500*time.Microsecond), tolerance)
	test.That(t, float64(result.Median), test.ShouldAlmostEqual, float64(2500*time.Microsecond), tolerance)
	test.That(t, float64(result.Min), test.ShouldAlmostEqual, float64(time.Millisecond), tolerance)
	test.That(t, float64(result.Max), test.ShouldAlmostEqual, float64(4*time.Millisecond), tolerance)
	test.That(t, float64(result.P99), test.ShouldAlmostEqual, float64(4*time.Millisecond), tolerance)
	test.That(t, float64(result.PerObject), test.ShouldAlmostEqual, float64(1250*time.Microsecond), tolerance)
	// sqrt(5/3) ms
	test.That(t, float64(result.StdDev), test.ShouldAlmostEqual, 1290994.4, 10)

	single, err := newPhaseResult(PhaseCull, []time.Duration{time.Millisecond}, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, single.StdDev, test.ShouldEqual, time.Duration(0))
	test.That(t, float64(single.P99), test.ShouldAlmostEqual, float64(time.Millisecond), tolerance)

	_, err = newPhaseResult(PhaseCull, nil, 1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFormatDuration(t *testing.T) {
	for _, tc := range []struct {
		d        time.Duration
		expected string
	}{
		{0, "0s"},
		{1500 * time.Millisecond, "1.500s"},
		{2500 * time.Microsecond, "2.500ms"},
		{1500 * time.Nanosecond, "1.500µs"},
		{12 * time.Nanosecond, "12ns"},
	} {
		test.That(t, FormatDuration(tc.d), test.ShouldEqual, tc.expected)
	}
}

func TestReportTable(t *testing.T) {
	report := &Report{
		Objects:    10,
		Iterations: 2,
		Phases: []PhaseResult{
			{Phase: PhaseInsert, Total: 3 * time.Millisecond, Mean: 1500 * time.Microsecond},
			{Phase: PhaseCull, Visible: 7},
		},
	}
	table := report.Table()
	test.That(t, table, test.ShouldContainSubstring, "10 objects, 2 iterations")
	test.That(t, table, test.ShouldContainSubstring, "insert")
	test.That(t, table, test.ShouldContainSubstring, "1.500ms")
	test.That(t, table, test.ShouldContainSubstring, "7")

	_, ok := report.Phase(PhaseUpdate)
	test.That(t, ok, test.ShouldBeFalse)
}

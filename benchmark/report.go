package benchmark

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/samber/lo"
)

// PhaseResult summarises the iterations of one phase.
type PhaseResult struct {
	Phase   Phase
	Samples int

	Total     time.Duration
	Mean      time.Duration
	StdDev    time.Duration
	Median    time.Duration
	P99       time.Duration
	Min       time.Duration
	Max       time.Duration
	PerObject time.Duration

	// Visible is the number of objects found inside the view frustum by the last iteration of a
	// visibility phase.
	Visible int
}

func newPhaseResult(phase Phase, samples []time.Duration, objects int) (PhaseResult, error) {
	data := stats.Float64Data(lo.Map(samples, func(d time.Duration, _ int) float64 {
		return d.Seconds()
	}))

	total, err := data.Sum()
	if err != nil {
		return PhaseResult{}, err
	}
	mean, err := data.Mean()
	if err != nil {
		return PhaseResult{}, err
	}
	median, err := data.Median()
	if err != nil {
		return PhaseResult{}, err
	}
	p99, err := data.PercentileNearestRank(99)
	if err != nil {
		return PhaseResult{}, err
	}
	minSample, err := data.Min()
	if err != nil {
		return PhaseResult{}, err
	}
	maxSample, err := data.Max()
	if err != nil {
		return PhaseResult{}, err
	}
	// The sample deviation needs at least two samples.
	var stdDev float64
	if len(data) > 1 {
		if stdDev, err = data.StandardDeviationSample(); err != nil {
			return PhaseResult{}, err
		}
	}

	return PhaseResult{
		Phase:     phase,
		Samples:   len(samples),
		Total:     seconds(total),
		Mean:      seconds(mean),
		StdDev:    seconds(stdDev),
		Median:    seconds(median),
		P99:       seconds(p99),
		Min:       seconds(minSample),
		Max:       seconds(maxSample),
		PerObject: seconds(mean / float64(objects)),
	}, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Report is the outcome of a benchmark run.
type Report struct {
	Objects    int
	Iterations int
	Phases     []PhaseResult
}

// Phase returns the result of the named phase, if it ran.
func (r *Report) Phase(phase Phase) (PhaseResult, bool) {
	return lo.Find(r.Phases, func(result PhaseResult) bool {
		return result.Phase == phase
	})
}

// Table renders the report as a text table.
func (r *Report) Table() string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%d objects, %d iterations", r.Objects, r.Iterations))
	t.AppendHeader(table.Row{"Phase", "Total", "Mean", "StdDev", "Median", "P99", "Per object", "Visible"})
	for _, result := range r.Phases {
		visible := ""
		if result.Phase.counts() {
			visible = fmt.Sprintf("%d", result.Visible)
		}
		t.AppendRow(table.Row{
			string(result.Phase),
			FormatDuration(result.Total),
			FormatDuration(result.Mean),
			FormatDuration(result.StdDev),
			FormatDuration(result.Median),
			FormatDuration(result.P99),
			FormatDuration(result.PerObject),
			visible,
		})
	}
	return t.Render()
}

// FormatDuration prints d with three decimals in the largest of s, ms or µs that keeps the value at
// least one. Shorter durations print in whole nanoseconds.
func FormatDuration(d time.Duration) string {
	switch {
	case d == 0:
		return "0s"
	case d >= time.Second:
		return fmt.Sprintf("%.3fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
	case d >= time.Microsecond:
		return fmt.Sprintf("%.3fµs", float64(d)/float64(time.Microsecond))
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}

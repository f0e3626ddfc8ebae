// Package stats summarises benchmark timings.
package stats

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the aggregate statistics of a set of samples. When there were
// no samples every statistic is NaN, which Format renders as N/A.
type Summary struct {
	Count  int
	Mean   float64
	Min    float64
	Max    float64
	StdDev float64
}

// Summarize computes the mean, minimum, maximum and population standard
// deviation of samples.
func Summarize(samples []float64) Summary {

	if len(samples) == 0 {
		nan := math.NaN()

		return Summary{Mean: nan, Min: nan, Max: nan, StdDev: nan}
	}

	mean, variance := stat.PopMeanVariance(samples, nil)
	lo := floats.Min(samples)
	hi := floats.Max(samples)

	// summation rounding can push the mean just past the extremes
	mean = math.Max(lo, math.Min(hi, mean))

	return Summary{
		Count:  len(samples),
		Mean:   mean,
		Min:    lo,
		Max:    hi,
		StdDev: math.Sqrt(math.Max(variance, 0)),
	}
}

// Milliseconds converts durations to fractional milliseconds
func Milliseconds(durations []time.Duration) []float64 {

	ms := make([]float64, len(durations))

	for i, d := range durations {
		ms[i] = float64(d) / float64(time.Millisecond)
	}

	return ms
}

// SummarizeDurations summarises durations in milliseconds
func SummarizeDurations(durations []time.Duration) Summary {
	return Summarize(Milliseconds(durations))
}

// Available reports whether the summary was computed from any samples
func (s Summary) Available() bool {
	return s.Count > 0
}

// Format renders the summary with two decimal places and the given unit
// suffix, eg: "avg: 1.25ms, min 1.00ms, max 1.50ms, sd 0.25ms"
func (s Summary) Format(unit string) string {

	if !s.Available() {
		return "avg: N/A , min N/A, max N/A, sd N/A"
	}

	return fmt.Sprintf("avg: %.2f%s, min %.2f%s, max %.2f%s, sd %.2f%s",
		s.Mean, unit, s.Min, unit, s.Max, unit, s.StdDev, unit)
}

// String formats the summary in milliseconds
func (s Summary) String() string {
	return s.Format("ms")
}

package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SMA computes the rolling simple moving average of values over period.
// Rows before the window is filled are NaN.
func SMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		out[i] = stat.Mean(values[i-period+1:i+1], nil)
	}
	return out
}

// EMA computes the exponential moving average of values over period.
// It starts at the first defined value, is seeded with the simple mean of the
// first period values and then smoothed with k = 2/(period+1).
func EMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	start := firstDefined(values)
	if period <= 0 || start < 0 || len(values)-start < period {
		return out
	}
	seed := start + period - 1
	out[seed] = stat.Mean(values[start:seed+1], nil)

	k := 2.0 / float64(period+1)
	for i := seed + 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*k + out[i-1]
	}
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func firstDefined(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

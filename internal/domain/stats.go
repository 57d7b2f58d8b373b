package domain

import "math"

// Statistical building blocks over ordered series of positive samples.
// Callers pre-filter zero/missing samples; every function degrades to 0 on
// empty or degenerate input instead of returning an error.

// MovingAverage returns the mean of the last window samples. A window larger
// than the series averages the whole series; an empty series or non-positive
// window yields 0.
func MovingAverage(values []float64, window int) float64 {
	if len(values) == 0 || window <= 0 {
		return 0
	}
	if window > len(values) {
		window = len(values)
	}
	sum := 0.0
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window)
}

// Trend returns the ordinary-least-squares slope of value against sample
// index, with the index centered at (n-1)/2. A strictly arithmetic series
// returns its common difference. Fewer than two samples yield 0.
func Trend(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	meanIdx := float64(n-1) / 2
	meanVal := 0.0
	for _, v := range values {
		meanVal += v
	}
	meanVal /= float64(n)

	var sumXY, sumXX float64
	for i, v := range values {
		dx := float64(i) - meanIdx
		sumXY += dx * (v - meanVal)
		sumXX += dx * dx
	}
	if sumXX == 0 {
		return 0
	}
	return sumXY / sumXX
}

// StdDev returns the population standard deviation (divide by n, not n-1).
// An empty series yields 0.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// lastN returns the trailing n samples of a series, or the whole series when
// it is shorter.
func lastN(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

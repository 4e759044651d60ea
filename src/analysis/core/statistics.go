package core

import "math"

// -----------------------------------------------------------------------------

// CalculateMean returns the arithmetic mean of data. It is NaN when data is
// empty or holds a NaN.
func CalculateMean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// -----------------------------------------------------------------------------

// CalculateRollingMean returns the trailing mean over window for every
// position. ok[i] is false until window values are available, and for any
// window that contains a NaN.
func CalculateRollingMean(data []float64, window int) (means []float64, ok []bool) {
	means = make([]float64, len(data))
	ok = make([]bool, len(data))
	if window <= 0 {
		return means, ok
	}

	for i := window - 1; i < len(data); i++ {
		m := CalculateMean(data[i-window+1 : i+1])
		if math.IsNaN(m) {
			continue
		}
		means[i] = m
		ok[i] = true
	}
	return means, ok
}

package core

import "math"

// Clamp limits value to the inclusive range [lo, hi]. Swapped bounds are
// reordered. NaN maps to lo.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	if math.IsNaN(value) {
		return lo
	}

	return min(max(value, lo), hi)
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	switch {
	case linear < 0:
		return math.NaN()
	case linear == 0:
		return math.Inf(-1)
	default:
		return 20 * math.Log10(linear)
	}
}

// Peak returns the largest absolute sample value.
func Peak(buf []float64) float64 {
	var peak float64
	for _, x := range buf {
		peak = max(peak, math.Abs(x))
	}

	return peak
}

// RMS returns the root mean square of buf, or 0 for an empty slice.
func RMS(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}

	var sum float64
	for _, x := range buf {
		sum += x * x
	}

	return math.Sqrt(sum / float64(len(buf)))
}

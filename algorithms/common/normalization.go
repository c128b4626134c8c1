package common

import (
	"gonum.org/v1/gonum/floats"
)

// MinMax records the original value range of a matrix before unit scaling,
// needed to invert the scaling later.
type MinMax struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Range returns the minimum and maximum over all rows of m.
func Range(m [][]float64) MinMax {
	r := MinMax{}
	first := true
	for _, row := range m {
		if len(row) == 0 {
			continue
		}
		lo, hi := floats.Min(row), floats.Max(row)
		if first {
			r.Min, r.Max = lo, hi
			first = false
			continue
		}
		if lo < r.Min {
			r.Min = lo
		}
		if hi > r.Max {
			r.Max = hi
		}
	}
	return r
}

// ScaleToUnit rescales m in place to the [0, 1] range using its own minimum
// and maximum, and returns the original range. A constant-valued matrix
// divides by zero and propagates non-finite values.
func ScaleToUnit(m [][]float64) MinMax {
	r := Range(m)
	span := r.Max - r.Min
	for _, row := range m {
		for j, v := range row {
			row[j] = (v - r.Min) / span
		}
	}
	return r
}

// ScaleFromUnit undoes ScaleToUnit in place given the recorded range.
func ScaleFromUnit(m [][]float64, r MinMax) {
	span := r.Max - r.Min
	for _, row := range m {
		for j, v := range row {
			row[j] = v*span + r.Min
		}
	}
}

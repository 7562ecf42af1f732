package service

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Standardize rescales x to zero mean and unit population standard deviation.
// A constant column maps to all zeros.
func Standardize(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}

	mean, std := stat.PopMeanStdDev(x, nil)
	if std == 0 || math.IsNaN(std) {
		return out
	}

	for i, v := range x {
		out[i] = (v - mean) / std
	}
	return out
}

// StandardizeColumns standardizes each column independently and returns the
// result as row vectors, one per observation.
func StandardizeColumns(columns ...[]float64) [][]float64 {
	if len(columns) == 0 {
		return nil
	}

	scaled := make([][]float64, len(columns))
	for j, col := range columns {
		scaled[j] = Standardize(col)
	}

	n := len(columns[0])
	points := make([][]float64, n)
	for i := range points {
		p := make([]float64, len(columns))
		for j := range columns {
			p[j] = scaled[j][i]
		}
		points[i] = p
	}
	return points
}

// Package stats holds the descriptive statistics used by the correlation
// report: moments, Pearson correlation, rolling windows and significance.
package stats

import (
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Round rounds half away from zero to places decimals. Non-finite input is
// returned unchanged.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	v, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return v
}

func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// Variance is the sample variance (n-1 divisor); 0 for fewer than two values.
func Variance(xs []float64) float64 {
	if len(xs) <= 1 {
		return 0
	}
	return stat.Variance(xs, nil)
}

// PearsonCorrelation returns 0 for mismatched lengths, fewer than two points
// or a constant series. The result is clamped to [-1, 1].
func PearsonCorrelation(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	if isConstant(xs) || isConstant(ys) {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

func isConstant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

// Point is one observation of a paired series, labelled by date.
type Point struct {
	Date string
	X    float64
	Y    float64
}

type RollingValue struct {
	Date  string
	Value float64
}

const DefaultRollingWindow = 30

// RollingCorrelation correlates the trailing window (at most window points)
// ending at each index. Indices with fewer than two trailing points are
// skipped rather than reported as zero.
func RollingCorrelation(points []Point, window int) []RollingValue {
	if window <= 0 {
		window = DefaultRollingWindow
	}
	out := make([]RollingValue, 0, len(points))
	for i := range points {
		start := max(0, i-window+1)
		slice := points[start : i+1]
		if len(slice) < 2 {
			continue
		}
		xs := make([]float64, len(slice))
		ys := make([]float64, len(slice))
		for j, p := range slice {
			xs[j] = p.X
			ys[j] = p.Y
		}
		out = append(out, RollingValue{Date: points[i].Date, Value: PearsonCorrelation(xs, ys)})
	}
	return out
}

// RollingCompoundReturn returns prod(1+r)-1 over the trailing window returns
// ending at each index.
func RollingCompoundReturn(returns []float64, window int) []float64 {
	if window <= 0 {
		window = 5
	}
	out := make([]float64, len(returns))
	for i := range returns {
		growth := 1.0
		for j := max(0, i-window+1); j <= i; j++ {
			growth *= 1 + returns[j]
		}
		out[i] = growth - 1
	}
	return out
}

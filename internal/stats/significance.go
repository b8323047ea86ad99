package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const SignificanceLevel = 0.05

// PValueMethod selects how the two-sided p-value of a correlation is derived.
type PValueMethod string

const (
	// NormalApprox treats t as a standard normal deviate (Zelen-Severo CDF).
	NormalApprox PValueMethod = "normal-approx"
	// StudentT uses the exact Student's t distribution with n-2 degrees of freedom.
	StudentT PValueMethod = "student-t"
)

type Significance struct {
	T           float64
	P           float64
	Significant bool
	Method      PValueMethod
}

// TestCorrelation computes t = r*sqrt((n-2)/(1-r^2)) and its two-sided p-value.
// n < 3 or |r| >= 1 yields {t: 0, p: 1, significant: false}.
func TestCorrelation(r float64, n int, method PValueMethod) Significance {
	if method == "" {
		method = NormalApprox
	}
	if n < 3 || math.Abs(r) >= 1 || math.IsNaN(r) {
		return Significance{T: 0, P: 1, Method: method}
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))

	var p float64
	switch method {
	case StudentT:
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
		p = 2 * (1 - dist.CDF(math.Abs(t)))
	default:
		p = 2 * (1 - NormalCDF(math.Abs(t)))
	}
	p = math.Max(0, math.Min(1, p))

	return Significance{
		T:           Round(t, 4),
		P:           Round(p, 4),
		Significant: p < SignificanceLevel,
		Method:      method,
	}
}

// NormalCDF is the Zelen-Severo polynomial approximation of the standard
// normal CDF (absolute error below 7.5e-8).
func NormalCDF(x float64) float64 {
	t := 1 / (1 + 0.2316419*math.Abs(x))
	d := 0.3989423 * math.Exp(-x*x/2)
	prob := d * t * (0.3193815 + t*(-0.3565638+t*(1.781478+t*(-1.821256+t*1.330274))))
	if x > 0 {
		return 1 - prob
	}
	return prob
}

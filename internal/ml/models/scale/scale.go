// Package scale provides the z-score standardization shared by the linear models.
package scale

import "math"

// Scaler holds per-column means and population standard deviations.
// A zero deviation is floored to 1 so constant columns pass through centered.
type Scaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

func Fit(samples [][]float64) Scaler {
	if len(samples) == 0 {
		return Scaler{}
	}
	d := len(samples[0])
	s := Scaler{Means: make([]float64, d), Stds: make([]float64, d)}
	n := float64(len(samples))
	for j := 0; j < d; j++ {
		for i := range samples {
			s.Means[j] += samples[i][j]
		}
		s.Means[j] /= n
		for i := range samples {
			diff := samples[i][j] - s.Means[j]
			s.Stds[j] += diff * diff
		}
		s.Stds[j] = math.Sqrt(s.Stds[j] / n)
		if s.Stds[j] == 0 || math.IsNaN(s.Stds[j]) {
			s.Stds[j] = 1
		}
	}
	return s
}

// FitColumn fits a single series, e.g. a regression target.
func FitColumn(values []float64) (mean, std float64) {
	samples := make([][]float64, len(values))
	for i, v := range values {
		samples[i] = []float64{v}
	}
	s := Fit(samples)
	if len(s.Means) == 0 {
		return 0, 1
	}
	return s.Means[0], s.Stds[0]
}

func (s Scaler) Transform(in []float64) []float64 {
	out := make([]float64, len(in))
	for i := range in {
		if i >= len(s.Means) {
			out[i] = in[i]
			continue
		}
		out[i] = (in[i] - s.Means[i]) / s.Stds[i]
	}
	return out
}

func (s Scaler) TransformAll(samples [][]float64) [][]float64 {
	out := make([][]float64, len(samples))
	for i := range samples {
		out[i] = s.Transform(samples[i])
	}
	return out
}

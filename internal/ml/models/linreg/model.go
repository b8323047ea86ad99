// Package linreg fits a ridge-penalized linear regression by batch gradient
// descent on z-scored features and a z-scored target.
package linreg

import (
	"errors"

	"stocksentix/internal/ml/models/scale"
)

type TrainOptions struct {
	LearningRate float64
	Epochs       int
	L2           float64
	Decay        float64
}

func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		LearningRate: 0.03,
		Epochs:       2500,
		L2:           0.0005,
		Decay:        0.999,
	}
}

type Model struct {
	scaler  scale.Scaler
	weights []float64
	bias    float64
	yMean   float64
	yStd    float64
}

func Train(samples [][]float64, targets []float64, opts TrainOptions) (*Model, error) {
	if len(samples) == 0 || len(samples) != len(targets) {
		return nil, errors.New("invalid training dataset")
	}
	if len(samples[0]) == 0 {
		return nil, errors.New("empty feature vectors")
	}
	def := DefaultTrainOptions()
	if opts.LearningRate <= 0 {
		opts.LearningRate = def.LearningRate
	}
	if opts.Epochs <= 0 {
		opts.Epochs = def.Epochs
	}
	if opts.L2 < 0 {
		opts.L2 = def.L2
	}
	if opts.Decay <= 0 {
		opts.Decay = 1
	}

	d := len(samples[0])
	m := &Model{scaler: scale.Fit(samples), weights: make([]float64, d)}
	m.yMean, m.yStd = scale.FitColumn(targets)

	x := m.scaler.TransformAll(samples)
	y := make([]float64, len(targets))
	for i, t := range targets {
		y[i] = (t - m.yMean) / m.yStd
	}

	lr := opts.LearningRate
	invN := 1 / float64(len(x))
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		gradW := make([]float64, d)
		gradB := 0.0
		for i := range x {
			err := m.predictNormalized(x[i]) - y[i]
			for j := range gradW {
				gradW[j] += err * x[i][j]
			}
			gradB += err
		}
		for j := range m.weights {
			m.weights[j] -= lr * (gradW[j]*invN + opts.L2*m.weights[j])
		}
		m.bias -= lr * gradB * invN
		lr *= opts.Decay
	}
	return m, nil
}

func (m *Model) predictNormalized(x []float64) float64 {
	p := m.bias
	for j, w := range m.weights {
		p += w * x[j]
	}
	return p
}

// Predict returns the target on its original scale.
func (m *Model) Predict(sample []float64) float64 {
	if m == nil || len(sample) != len(m.weights) {
		return 0
	}
	return m.predictNormalized(m.scaler.Transform(sample))*m.yStd + m.yMean
}

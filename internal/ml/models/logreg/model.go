package logreg

import (
	"errors"
	"math"
	"strconv"

	"stocksentix/internal/ml/models/scale"
)

type TrainOptions struct {
	LearningRate float64
	Epochs       int
	L2           float64
	// Decay multiplies the learning rate after every epoch; 0 means no decay.
	Decay float64
	// ClassWeighting scales positive-class errors by negatives/positives.
	ClassWeighting bool
}

// Parameters is everything needed to score a row. It lives only as long as
// the model that produced it.
type Parameters struct {
	FeatureNames   []string
	Weights        []float64
	Bias           float64
	Means          []float64
	Stds           []float64
	PositiveWeight float64
}

type Model struct {
	params Parameters
	scaler scale.Scaler
}

func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		LearningRate:   0.03,
		Epochs:         18,
		L2:             0.0008,
		Decay:          0.93,
		ClassWeighting: true,
	}
}

// Train fits a logistic regression by full-batch gradient descent on
// z-scored features. L2 applies to the weights only, never the bias.
func Train(samples [][]float64, labels []float64, featureNames []string, opts TrainOptions) (*Model, error) {
	if len(samples) == 0 || len(samples) != len(labels) {
		return nil, errors.New("invalid training dataset")
	}
	if len(samples[0]) == 0 {
		return nil, errors.New("empty feature vectors")
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = DefaultTrainOptions().LearningRate
	}
	if opts.Epochs <= 0 {
		opts.Epochs = DefaultTrainOptions().Epochs
	}
	if opts.L2 < 0 {
		opts.L2 = DefaultTrainOptions().L2
	}
	if opts.Decay <= 0 {
		opts.Decay = 1
	}

	featCount := len(samples[0])
	scaler := scale.Fit(samples)
	x := scaler.TransformAll(samples)

	posWeight := 1.0
	if opts.ClassWeighting {
		pos := 0.0
		for _, y := range labels {
			pos += y
		}
		posWeight = (float64(len(labels)) - pos) / math.Max(pos, 1)
	}

	weights := make([]float64, featCount)
	bias := 0.0
	lr := opts.LearningRate
	n := float64(len(samples))

	for epoch := 0; epoch < opts.Epochs; epoch++ {
		grads := make([]float64, featCount)
		gradBias := 0.0
		for i := range x {
			p := sigmoid(dot(weights, x[i]) + bias)
			err := p - labels[i]
			if labels[i] == 1 {
				err *= posWeight
			}
			for j := range grads {
				grads[j] += err * x[i][j]
			}
			gradBias += err
		}
		for j := range weights {
			grads[j] = grads[j]/n + opts.L2*weights[j]
			weights[j] -= lr * grads[j]
		}
		bias -= lr * (gradBias / n)
		lr *= opts.Decay
	}

	if len(featureNames) != featCount {
		featureNames = defaultFeatureNames(featCount)
	}

	return &Model{
		scaler: scaler,
		params: Parameters{
			FeatureNames:   featureNames,
			Weights:        weights,
			Bias:           bias,
			Means:          scaler.Means,
			Stds:           scaler.Stds,
			PositiveWeight: posWeight,
		},
	}, nil
}

func (m *Model) PredictProb(sample []float64) float64 {
	if m == nil || len(sample) != len(m.params.Weights) {
		return 0.5
	}
	x := m.scaler.Transform(sample)
	return sigmoid(dot(m.params.Weights, x) + m.params.Bias)
}

func (m *Model) PredictBatch(samples [][]float64) []float64 {
	probs := make([]float64, len(samples))
	for i := range samples {
		probs[i] = m.PredictProb(samples[i])
	}
	return probs
}

// Parameters returns a copy of the fitted parameters.
func (m *Model) Parameters() Parameters {
	if m == nil {
		return Parameters{}
	}
	p := m.params
	p.FeatureNames = append([]string(nil), p.FeatureNames...)
	p.Weights = append([]float64(nil), p.Weights...)
	p.Means = append([]float64(nil), p.Means...)
	p.Stds = append([]float64(nil), p.Stds...)
	return p
}

func (m *Model) FeatureNames() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.params.FeatureNames))
	copy(out, m.params.FeatureNames)
	return out
}

// Sigmoid is clamped: inputs beyond +-35 saturate to exactly 1 or 0.
func Sigmoid(x float64) float64 { return sigmoid(x) }

func sigmoid(x float64) float64 {
	if x > 35 {
		return 1
	}
	if x < -35 {
		return 0
	}
	return 1 / (1 + math.Exp(-x))
}

func dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func defaultFeatureNames(n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = "f" + strconv.Itoa(i)
	}
	return out
}

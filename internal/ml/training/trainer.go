package training

import (
	"context"
	"fmt"

	"stocksentix/internal/domain"
	"stocksentix/internal/ml/metrics"
	"stocksentix/internal/ml/models/logreg"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Scorer maps a raw feature vector to P(label = 1).
type Scorer interface {
	PredictProb(sample []float64) float64
}

type Result struct {
	Model      Scorer
	Parameters logreg.Parameters
	Threshold  float64
	Validation metrics.Classification
}

// LogisticTrainer fits a fresh class-weighted logistic regression on every
// call and tunes its decision threshold on the validation rows.
type LogisticTrainer struct {
	tracer       trace.Tracer
	featureNames []string
	opts         logreg.TrainOptions
}

func NewLogisticTrainer(tracer trace.Tracer, featureNames []string, opts logreg.TrainOptions) *LogisticTrainer {
	return &LogisticTrainer{tracer: tracer, featureNames: featureNames, opts: opts}
}

func (t *LogisticTrainer) Train(ctx context.Context, train, validation []domain.FeatureRow) (*Result, error) {
	_, span := t.tracer.Start(ctx, "logistic-trainer.train")
	defer span.End()
	span.SetAttributes(
		attribute.Int("train_rows", len(train)),
		attribute.Int("validation_rows", len(validation)),
	)

	trainX, trainY := Dataset(train)
	model, err := logreg.Train(trainX, trainY, t.featureNames, t.opts)
	if err != nil {
		return nil, fmt.Errorf("train logreg: %w", err)
	}

	valX, valY := Dataset(validation)
	threshold, valMetrics := metrics.SweepThreshold(valY, model.PredictBatch(valX))

	return &Result{
		Model:      model,
		Parameters: model.Parameters(),
		Threshold:  threshold,
		Validation: valMetrics,
	}, nil
}

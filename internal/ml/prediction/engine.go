// Package prediction answers "will this ticker close up next?" from the
// tabular indicator dataset, retraining a logistic model on every call.
package prediction

import (
	"context"
	"fmt"
	"strings"

	"stocksentix/internal/domain"
	"stocksentix/internal/ml/features"
	"stocksentix/internal/ml/metrics"
	"stocksentix/internal/ml/training"
	"stocksentix/internal/stats"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	MinRequestRows = 200
	MinBatchRows   = 100

	labelUp   = "UP"
	labelDown = "DOWN"
)

type FeatureSource interface {
	Load(ctx context.Context, path string) ([]domain.FeatureRow, error)
}

// Trainer fits a model on the training rows and picks its decision
// threshold on the validation rows. Implementations may cache, but the
// default retrains from scratch.
type Trainer interface {
	Train(ctx context.Context, train, validation []domain.FeatureRow) (*training.Result, error)
}

type Engine struct {
	tracer      trace.Tracer
	features    FeatureSource
	trainer     Trainer
	datasetPath string
}

func NewEngine(tracer trace.Tracer, features FeatureSource, trainer Trainer, datasetPath string) *Engine {
	return &Engine{
		tracer:      tracer,
		features:    features,
		trainer:     trainer,
		datasetPath: datasetPath,
	}
}

// fitted is a trained model plus its held-out evaluation.
type fitted struct {
	partition training.Partition
	result    *training.Result
	test      metrics.Classification
	testAUC   float64
}

func (e *Engine) fit(ctx context.Context, rows []domain.FeatureRow) (*fitted, error) {
	partition, err := training.ChronologicalSplit(rows)
	if err != nil {
		return nil, err
	}
	result, err := e.trainer.Train(ctx, partition.Train, partition.Validation)
	if err != nil {
		return nil, err
	}
	testX, testY := training.Dataset(partition.Test)
	probs := make([]float64, len(testX))
	for i, x := range testX {
		probs[i] = result.Model.PredictProb(x)
	}
	return &fitted{
		partition: partition,
		result:    result,
		test:      metrics.Evaluate(testY, probs, result.Threshold),
		testAUC:   metrics.AUC(testY, probs),
	}, nil
}

// Predict trains on the rows dated within [from, to] and scores the latest
// row for ticker.
func (e *Engine) Predict(ctx context.Context, ticker, from, to string) (*domain.PredictionReport, error) {
	ctx, span := e.tracer.Start(ctx, "prediction-engine.predict")
	defer span.End()

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	span.SetAttributes(attribute.String("ticker", ticker))
	if ticker == "" {
		return nil, domain.InvalidRequestError("Ticker is required for CSV prediction mode.")
	}
	from, err := domain.CanonicalDate(from)
	if err != nil {
		return nil, domain.InvalidRequestError("dateFrom must be a YYYY-MM-DD date")
	}
	to, err = domain.CanonicalDate(to)
	if err != nil {
		return nil, domain.InvalidRequestError("dateTo must be a YYYY-MM-DD date")
	}
	if from > to {
		return nil, domain.InvalidRangeError()
	}

	all, err := e.features.Load(ctx, e.datasetPath)
	if err != nil {
		return nil, err
	}
	rows := features.FilterRange(all, from, to)
	span.SetAttributes(attribute.Int("rows", len(rows)))
	if len(rows) < MinRequestRows {
		return nil, domain.InsufficientDataError("CSV range has too few rows. Expand date range for better prediction quality.")
	}

	fit, err := e.fit(ctx, rows)
	if err != nil {
		return nil, err
	}

	latest, ok := latestForTicker(rows, ticker)
	if !ok {
		return nil, domain.TickerNotFoundError(ticker)
	}
	prob := fit.result.Model.PredictProb(latest.Features)
	label := labelDown
	if prob >= fit.result.Threshold {
		label = labelUp
	}

	val := fit.result.Validation
	return &domain.PredictionReport{
		Ticker:                ticker,
		Model:                 domain.ModelCSVML,
		DateFrom:              from,
		DateTo:                to,
		ResultType:            domain.ResultTypeCSVPrediction,
		SampleSize:            len(rows),
		TrainRows:             len(fit.partition.Train),
		ValidationRows:        len(fit.partition.Validation),
		TestRows:              len(fit.partition.Test),
		Correlation:           stats.Round(prob, 4),
		PredictionProbability: stats.Round(prob, 4),
		PredictionLabel:       label,
		PredictedFrom:         latest.Date,
		Threshold:             stats.Round(fit.result.Threshold, 2),
		Explanation: fmt.Sprintf("Predicted %s for %s on %s. Validation F1 %.2f, Test Accuracy %.2f.",
			label, ticker, latest.Date, val.F1, fit.test.Accuracy),
		Performance: domain.PredictionPerformance{
			Validation: scores(val),
			Test:       scores(fit.test),
			TestAUC:    stats.Round(fit.testAUC, 4),
			Confusion: domain.ConfusionMatrix{
				TP: fit.test.TP, TN: fit.test.TN, FP: fit.test.FP, FN: fit.test.FN,
			},
		},
		ScatterData:        []domain.ScatterPoint{},
		RollingCorrelation: []domain.RollingCorrelationPoint{},
	}, nil
}

func latestForTicker(rows []domain.FeatureRow, ticker string) (domain.FeatureRow, bool) {
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Ticker == ticker {
			return rows[i], true
		}
	}
	return domain.FeatureRow{}, false
}

func scores(m metrics.Classification) domain.ClassificationScores {
	return domain.ClassificationScores{
		Accuracy:  stats.Round(m.Accuracy, 4),
		Precision: stats.Round(m.Precision, 4),
		Recall:    stats.Round(m.Recall, 4),
		F1:        stats.Round(m.F1, 4),
	}
}

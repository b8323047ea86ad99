package prediction

import (
	"context"
	"fmt"
	"sort"

	"stocksentix/internal/domain"
	"stocksentix/internal/ml/metrics"
	"stocksentix/internal/stats"
)

const topLatestPredictions = 15

type BatchScores struct {
	Accuracy         float64 `json:"accuracy"`
	Precision        float64 `json:"precision"`
	Recall           float64 `json:"recall"`
	F1               float64 `json:"f1"`
	Specificity      float64 `json:"specificity"`
	BalancedAccuracy float64 `json:"balancedAccuracy"`
}

type BatchTestScores struct {
	BatchScores
	Confusion domain.ConfusionMatrix `json:"confusion"`
}

type TickerPrediction struct {
	Ticker        string  `json:"ticker"`
	Date          string  `json:"date"`
	ProbabilityUp float64 `json:"probability_up"`
	Prediction    int     `json:"prediction"`
}

// BatchReport summarizes an offline run over a whole dataset file.
type BatchReport struct {
	FilePath             string             `json:"filePath"`
	TotalRows            int                `json:"totalRows"`
	TrainRows            int                `json:"trainRows"`
	ValRows              int                `json:"valRows"`
	TestRows             int                `json:"testRows"`
	SelectedFeatures     []string           `json:"selectedFeatures"`
	Threshold            float64            `json:"threshold"`
	Validation           BatchScores        `json:"validation"`
	Test                 BatchTestScores    `json:"test"`
	TopLatestPredictions []TickerPrediction `json:"topLatestPredictions"`
}

// RunBatch trains on every row and scores the most recent row of each
// ticker, keeping the fifteen most bullish.
func (e *Engine) RunBatch(ctx context.Context, rows []domain.FeatureRow, featureNames []string) (*BatchReport, error) {
	ctx, span := e.tracer.Start(ctx, "prediction-engine.run-batch")
	defer span.End()

	if len(rows) < MinBatchRows {
		return nil, domain.InsufficientDataError(fmt.Sprintf("Not enough labeled rows. Need at least %d.", MinBatchRows))
	}
	fit, err := e.fit(ctx, rows)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]domain.FeatureRow)
	for _, r := range rows {
		if prev, ok := latest[r.Ticker]; !ok || r.Date > prev.Date {
			latest[r.Ticker] = r
		}
	}
	preds := make([]TickerPrediction, 0, len(latest))
	for ticker, r := range latest {
		p := fit.result.Model.PredictProb(r.Features)
		pred := 0
		if p >= fit.result.Threshold {
			pred = 1
		}
		preds = append(preds, TickerPrediction{
			Ticker:        ticker,
			Date:          r.Date,
			ProbabilityUp: stats.Round(p, 4),
			Prediction:    pred,
		})
	}
	sort.Slice(preds, func(i, j int) bool {
		if preds[i].ProbabilityUp != preds[j].ProbabilityUp {
			return preds[i].ProbabilityUp > preds[j].ProbabilityUp
		}
		return preds[i].Ticker < preds[j].Ticker
	})
	if len(preds) > topLatestPredictions {
		preds = preds[:topLatestPredictions]
	}

	return &BatchReport{
		TotalRows:        len(rows),
		TrainRows:        len(fit.partition.Train),
		ValRows:          len(fit.partition.Validation),
		TestRows:         len(fit.partition.Test),
		SelectedFeatures: append([]string(nil), featureNames...),
		Threshold:        stats.Round(fit.result.Threshold, 2),
		Validation:       batchScores(fit.result.Validation),
		Test: BatchTestScores{
			BatchScores: batchScores(fit.test),
			Confusion: domain.ConfusionMatrix{
				TP: fit.test.TP, TN: fit.test.TN, FP: fit.test.FP, FN: fit.test.FN,
			},
		},
		TopLatestPredictions: preds,
	}, nil
}

func batchScores(m metrics.Classification) BatchScores {
	return BatchScores{
		Accuracy:         stats.Round(m.Accuracy, 4),
		Precision:        stats.Round(m.Precision, 4),
		Recall:           stats.Round(m.Recall, 4),
		F1:               stats.Round(m.F1, 4),
		Specificity:      stats.Round(m.Specificity, 4),
		BalancedAccuracy: stats.Round(m.BalancedAccuracy, 4),
	}
}

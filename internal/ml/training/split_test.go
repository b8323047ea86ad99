package training

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"stocksentix/internal/domain"
	"stocksentix/internal/ml/models/logreg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func datedRows(n int) []domain.FeatureRow {
	rows := make([]domain.FeatureRow, n)
	for i := range rows {
		label := 0
		if i%3 == 0 {
			label = 1
		}
		x := float64(i%7) - 3
		if label == 1 {
			x += 4
		}
		rows[i] = domain.FeatureRow{
			Date:     fmt.Sprintf("2024-%02d-%02d", 1+i/28, 1+i%28),
			Ticker:   "AAPL",
			Label:    label,
			Features: []float64{x, float64(i % 5)},
		}
	}
	return rows
}

func TestChronologicalSplitPartitions(t *testing.T) {
	for _, n := range []int{10, 99, 200, 333} {
		rows := datedRows(n)
		p, err := ChronologicalSplit(rows)
		require.NoError(t, err, "n=%d", n)

		assert.Equal(t, n, len(p.Train)+len(p.Validation)+len(p.Test))
		assert.Equal(t, int(float64(n)*0.7), len(p.Train))
		assert.LessOrEqual(t, p.Train[len(p.Train)-1].Date, p.Validation[0].Date)
		assert.LessOrEqual(t, p.Validation[len(p.Validation)-1].Date, p.Test[0].Date)
	}
}

func TestChronologicalSplitRejectsEmptyPartition(t *testing.T) {
	for _, n := range []int{0, 1, 5, 9} {
		_, err := ChronologicalSplit(datedRows(n))
		assert.True(t, errors.Is(err, domain.ErrInsufficientData), "n=%d", n)
	}
}

func TestLogisticTrainerTunesThreshold(t *testing.T) {
	rows := datedRows(300)
	p, err := ChronologicalSplit(rows)
	require.NoError(t, err)

	trainer := NewLogisticTrainer(trace.NewNoopTracerProvider().Tracer("test"), []string{"a", "b"}, logreg.DefaultTrainOptions())
	res, err := trainer.Train(context.Background(), p.Train, p.Validation)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.Threshold, 0.15)
	assert.LessOrEqual(t, res.Threshold, 0.85)
	assert.Equal(t, len(p.Validation), res.Validation.TP+res.Validation.TN+res.Validation.FP+res.Validation.FN)
	assert.Equal(t, []string{"a", "b"}, res.Parameters.FeatureNames)
	assert.Greater(t, res.Validation.F1, 0.5)
}

package training

import (
	"stocksentix/internal/domain"
)

const (
	trainFraction      = 0.7
	validationFraction = 0.1
)

type Partition struct {
	Train      []domain.FeatureRow
	Validation []domain.FeatureRow
	Test       []domain.FeatureRow
}

// ChronologicalSplit cuts date-ordered rows 70/10/20 by index, never
// shuffling, so no later row lands in an earlier partition.
func ChronologicalSplit(rows []domain.FeatureRow) (Partition, error) {
	n := len(rows)
	trainEnd := int(float64(n) * trainFraction)
	valEnd := trainEnd + int(float64(n)*validationFraction)
	p := Partition{
		Train:      rows[:trainEnd],
		Validation: rows[trainEnd:valEnd],
		Test:       rows[valEnd:],
	}
	if len(p.Train) == 0 || len(p.Validation) == 0 || len(p.Test) == 0 {
		return Partition{}, domain.InsufficientDataError("CSV dataset split failed. Use a wider date range.")
	}
	return p, nil
}

// Dataset splits rows into the feature matrix and 0/1 label vector the models consume.
func Dataset(rows []domain.FeatureRow) ([][]float64, []float64) {
	x := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, r := range rows {
		x[i] = r.Features
		y[i] = float64(r.Label)
	}
	return x, y
}

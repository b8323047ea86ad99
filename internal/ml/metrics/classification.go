// Package metrics scores classifier and regressor output.
package metrics

import (
	"math"
	"sort"
)

type Classification struct {
	TP, TN, FP, FN   int
	Accuracy         float64
	Precision        float64
	Recall           float64
	F1               float64
	Specificity      float64
	BalancedAccuracy float64
}

// Evaluate labels each probability positive when it is >= threshold.
func Evaluate(labels, probs []float64, threshold float64) Classification {
	var m Classification
	for i := range labels {
		if i >= len(probs) {
			break
		}
		pred := probs[i] >= threshold
		actual := labels[i] >= 0.5
		switch {
		case pred && actual:
			m.TP++
		case !pred && !actual:
			m.TN++
		case pred && !actual:
			m.FP++
		default:
			m.FN++
		}
	}
	return m.finish()
}

func (m Classification) finish() Classification {
	n := m.TP + m.TN + m.FP + m.FN
	m.Accuracy = ratio(m.TP+m.TN, n)
	m.Precision = ratio(m.TP, m.TP+m.FP)
	m.Recall = ratio(m.TP, m.TP+m.FN)
	m.Specificity = ratio(m.TN, m.TN+m.FP)
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	m.BalancedAccuracy = (m.Recall + m.Specificity) / 2
	return m
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// FromCounts builds metrics from a confusion matrix.
func FromCounts(tp, tn, fp, fn int) Classification {
	return Classification{TP: tp, TN: tn, FP: fp, FN: fn}.finish()
}

// SweepThreshold tries thresholds 0.15..0.85 in 0.01 steps and returns the
// one with the highest F1. Ties keep the lowest threshold.
func SweepThreshold(labels, probs []float64) (float64, Classification) {
	bestThreshold := 0.15
	best := Evaluate(labels, probs, bestThreshold)
	for i := 16; i <= 85; i++ {
		threshold := float64(i) / 100
		m := Evaluate(labels, probs, threshold)
		if m.F1 > best.F1 {
			best = m
			bestThreshold = threshold
		}
	}
	return bestThreshold, best
}

// AUC is the rank-based area under the ROC curve; 0.5 when one class is absent.
func AUC(labels []float64, probs []float64) float64 {
	type pair struct {
		p float64
		y float64
	}
	pairs := make([]pair, len(labels))
	pos := 0.0
	neg := 0.0
	for i := range labels {
		pairs[i] = pair{p: clamp01(probs[i]), y: labels[i]}
		if labels[i] >= 0.5 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0.5
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].p < pairs[j].p })

	sumRankPos := 0.0
	rank := 1.0
	for i := 0; i < len(pairs); {
		j := i + 1
		for j < len(pairs) && math.Abs(pairs[j].p-pairs[i].p) < 1e-12 {
			j++
		}
		avgRank := (rank + float64(j)) / 2
		for k := i; k < j; k++ {
			if pairs[k].y >= 0.5 {
				sumRankPos += avgRank
			}
		}
		rank = float64(j + 1)
		i = j
	}
	auc := (sumRankPos - (pos*(pos+1))/2) / (pos * neg)
	if math.IsNaN(auc) || math.IsInf(auc, 0) {
		return 0.5
	}
	return auc
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0.5
	}
	return math.Max(0, math.Min(1, v))
}

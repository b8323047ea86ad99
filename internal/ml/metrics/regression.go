package metrics

import "math"

type Regression struct {
	MAE  float64
	RMSE float64
	// MAPE is a percentage; a zero actual value divides by 1 instead.
	MAPE float64
}

func EvaluateRegression(actual, predicted []float64) Regression {
	n := min(len(actual), len(predicted))
	if n == 0 {
		return Regression{}
	}
	var absSum, sqSum, pctSum float64
	for i := 0; i < n; i++ {
		e := math.Abs(predicted[i] - actual[i])
		absSum += e
		sqSum += e * e
		denom := math.Abs(actual[i])
		if denom == 0 {
			denom = 1
		}
		pctSum += e / denom
	}
	return Regression{
		MAE:  absSum / float64(n),
		RMSE: math.Sqrt(sqSum / float64(n)),
		MAPE: pctSum / float64(n) * 100,
	}
}

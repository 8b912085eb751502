package forecast

import (
	"math"

	"github.com/epiwatch/epiwatch-api/schema"
)

// Accuracy scores predictions against actuals pairwise. MAPE skips
// zero-valued actuals rather than dividing by them; a series of all
// zeros reports MAPE 0.
func Accuracy(model string, predicted, actual []float64) schema.ModelAccuracy {
	n := len(predicted)
	if len(actual) < n {
		n = len(actual)
	}

	acc := schema.ModelAccuracy{Model: model, Points: n}
	if n == 0 {
		return acc
	}

	var absSum, sqSum, pctSum float64
	pctCount := 0
	for i := 0; i < n; i++ {
		diff := predicted[i] - actual[i]
		absSum += math.Abs(diff)
		sqSum += diff * diff
		if actual[i] != 0 {
			pctSum += math.Abs(diff) / math.Abs(actual[i])
			pctCount++
		}
	}

	acc.MAE = absSum / float64(n)
	acc.RMSE = math.Sqrt(sqSum / float64(n))
	if pctCount > 0 {
		acc.MAPE = 100 * pctSum / float64(pctCount)
	}
	return acc
}

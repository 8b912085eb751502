package forecast

import (
	"math"
	"time"

	"github.com/epiwatch/epiwatch-api/schema"
)

// naiveWindow is how many trailing observations the baseline averages.
const naiveWindow = 7

// naiveModel is the trailing-mean baseline: every horizon step predicts
// the mean of the last naiveWindow observations. The dispersion used for
// intervals is the sample standard deviation of that window, floored at
// 10% of the mean so a briefly flat series still yields a non-degenerate
// interval.
func naiveModel(series []float64) (predict func(h int) float64, sigma float64) {
	window := series
	if len(window) > naiveWindow {
		window = window[len(window)-naiveWindow:]
	}
	m := mean(window)
	sigma = math.Sqrt(variance(window))
	if floor := 0.1 * m; sigma < floor {
		sigma = floor
	}
	predict = func(int) float64 { return m }
	return predict, sigma
}

func parseDate(date string) (time.Time, error) {
	return time.Parse(schema.DateLayout, date)
}

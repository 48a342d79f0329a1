package services

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/creditorural/forecaster/internal/features"
	"github.com/creditorural/forecaster/internal/models"
	"github.com/creditorural/forecaster/internal/utils"
)

// mapeEpsilon guards the MAPE denominator against zero actuals, following
// scikit-learn semantics, so metrics stay finite for the dashboard.
const mapeEpsilon = 1e-10

// minTrainRows is the smallest training block a tree ensemble can fit.
const minTrainRows = 2

// Evaluation is a temporal train/test split of a featurized frame. The
// test block is always the trailing contiguous slice in original order;
// shuffling would leak future values into training.
type Evaluation struct {
	TrainX [][]float64
	TrainY []float64
	TestX  [][]float64
	TestY  []float64
}

// splitTrailing holds out min(testSize, len/4) rows from the end of the
// frame. An empty test block or a training block too small to fit reports
// insufficient data rather than degenerate metrics.
func splitTrailing(frame *features.Frame, testSize int) (*Evaluation, error) {
	n := frame.Len()
	block := testSize
	if quarter := n / 4; quarter < block {
		block = quarter
	}
	if block < 1 {
		return nil, utils.NewInsufficientDataError(features.MsgInsufficientData)
	}

	cut := n - block
	if cut < minTrainRows {
		return nil, utils.NewInsufficientDataError(features.MsgInsufficientData)
	}

	return &Evaluation{
		TrainX: frame.Rows[:cut],
		TrainY: frame.Targets[:cut],
		TestX:  frame.Rows[cut:],
		TestY:  frame.Targets[cut:],
	}, nil
}

// computeMetrics scores predictions against the held-out actuals: mean
// absolute percentage error (x100), root-mean-square error, and the
// coefficient of determination.
func computeMetrics(actual, predicted []float64) models.ForecastMetrics {
	n := float64(len(actual))

	var pctSum, sqSum float64
	for i, a := range actual {
		diff := a - predicted[i]
		denom := math.Abs(a)
		if denom < mapeEpsilon {
			denom = mapeEpsilon
		}
		pctSum += math.Abs(diff) / denom
		sqSum += diff * diff
	}

	return models.ForecastMetrics{
		MAPE: pctSum / n * 100,
		RMSE: math.Sqrt(sqSum / n),
		R2:   stat.RSquaredFrom(predicted, actual, nil),
	}
}

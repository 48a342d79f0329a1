package features

import (
	"fmt"
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"gonum.org/v1/gonum/stat"

	"github.com/creditorural/forecaster/internal/config"
	"github.com/creditorural/forecaster/internal/models"
	"github.com/creditorural/forecaster/internal/utils"
)

// Marker strings recorded in the forecast artifact when a series cannot be
// featurized. The dashboard matches on these exact values.
const (
	MsgInsufficientData     = "Insufficient data"
	MsgInsufficientFeatures = "Insufficient data after feature creation"
)

const monthsPerYear = 12

// Frame is a featurized series: one row per retained observation, columns
// in a deterministic order shared with the recursive forecaster, plus the
// aligned targets and periods. Rows dropped for missing history keep their
// absolute trend position through the trend column.
type Frame struct {
	Columns []string
	Rows    [][]float64
	Targets []float64
	Periods []models.Period
}

// Len returns the number of retained rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// LastPeriod returns the final retained period.
func (f *Frame) LastPeriod() models.Period {
	return f.Periods[len(f.Periods)-1]
}

// Engine derives the fixed feature set for a series: lagged values,
// trailing rolling statistics, cyclical month encoding, a linear trend
// index, and calendar fields. It holds no state across series.
type Engine struct {
	lags    []int
	windows []int
	minRaw  int
	minRows int
}

// NewEngine creates a feature engine from the pipeline configuration.
func NewEngine(cfg config.PipelineConfig) *Engine {
	return &Engine{
		lags:    cfg.LagOffsets,
		windows: cfg.RollingWindows,
		minRaw:  cfg.MinRawObservations,
		minRows: cfg.MinFeatureRows,
	}
}

// ColumnOrder returns the canonical feature column order for the given lag
// offsets and rolling windows. The recursive forecaster builds future rows
// in this same order so matrices stay aligned.
func ColumnOrder(lags, windows []int) []string {
	columns := []string{"year", "month", "month_sin", "month_cos", "trend"}
	for _, lag := range lags {
		columns = append(columns, fmt.Sprintf("lag_%d", lag))
	}
	for _, window := range windows {
		columns = append(columns, fmt.Sprintf("rolling_mean_%d", window))
		columns = append(columns, fmt.Sprintf("rolling_std_%d", window))
	}
	return columns
}

// MonthCycle returns the cyclical encoding of a calendar month.
func MonthCycle(mes int) (sin, cos float64) {
	angle := 2 * math.Pi * float64(mes) / monthsPerYear
	return math.Sin(angle), math.Cos(angle)
}

// Featurize derives feature vectors for a time-ordered observation
// sequence. Rows whose lag or rolling features reach before the sequence
// start are dropped, never imputed. The trend index is assigned over the
// original sequence before dropping, preserving absolute position.
func (e *Engine) Featurize(observations []models.Observation) (*Frame, error) {
	n := len(observations)
	if n < e.minRaw {
		return nil, utils.NewInsufficientDataError(MsgInsufficientData)
	}

	values := make([]float64, n)
	for i, obs := range observations {
		values[i] = obs.Valor
	}

	rollingMeans := make(map[int][]float64, len(e.windows))
	for _, window := range e.windows {
		rollingMeans[window] = e.rollingMean(values, window)
	}

	columns := ColumnOrder(e.lags, e.windows)
	frame := &Frame{Columns: columns}

	for i, obs := range observations {
		row := make([]float64, 0, len(columns))

		monthSin, monthCos := MonthCycle(obs.Mes)
		row = append(row, float64(obs.Ano), float64(obs.Mes), monthSin, monthCos, float64(i))

		for _, lag := range e.lags {
			if i-lag >= 0 {
				row = append(row, values[i-lag])
			} else {
				row = append(row, math.NaN())
			}
		}

		for _, window := range e.windows {
			row = append(row, rollingMeans[window][i])
			if i >= window-1 {
				row = append(row, stat.PopStdDev(values[i-window+1:i+1], nil))
			} else {
				row = append(row, math.NaN())
			}
		}

		if hasNaN(row) {
			continue
		}

		frame.Rows = append(frame.Rows, row)
		frame.Targets = append(frame.Targets, obs.Valor)
		frame.Periods = append(frame.Periods, models.Period{Ano: obs.Ano, Mes: obs.Mes})
	}

	if frame.Len() < e.minRows {
		return nil, utils.NewInsufficientDataError(MsgInsufficientFeatures)
	}

	return frame, nil
}

// rollingMean computes the trailing simple moving average, NaN until the
// window is fully populated. The SMA itself comes from the indicator
// library, which consumes the warm-up values.
func (e *Engine) rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(values) < window {
		return out
	}

	sma := trend.NewSmaWithPeriod[float64](window)
	computed := helper.ChanToSlice(sma.Compute(helper.SliceToChan(values)))
	for i, mean := range computed {
		out[i+window-1] = mean
	}
	return out
}

func hasNaN(row []float64) bool {
	for _, v := range row {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

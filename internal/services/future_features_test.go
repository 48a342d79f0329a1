package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/creditorural/forecaster/internal/features"
	"github.com/creditorural/forecaster/internal/models"
)

var (
	testLags    = []int{1, 2, 3, 6, 12}
	testWindows = []int{3, 6, 12}
)

// seasonalFrame builds a frame whose final period is (endAno, endMes), with
// rows columns matching the engine's order and targets from f(i).
func frameEndingAt(n, endAno, endMes int, f func(i int) float64) *features.Frame {
	frame := &features.Frame{Columns: features.ColumnOrder(testLags, testWindows)}
	for i := 0; i < n; i++ {
		back := n - 1 - i
		mes := endMes - back%12
		ano := endAno - back/12
		if mes < 1 {
			mes += 12
			ano--
		}
		frame.Rows = append(frame.Rows, make([]float64, len(frame.Columns)))
		frame.Targets = append(frame.Targets, f(i))
		frame.Periods = append(frame.Periods, models.Period{Ano: ano, Mes: mes})
	}
	return frame
}

func TestFutureFrameMonthCarry(t *testing.T) {
	frame := frameEndingAt(24, 2023, 11, func(i int) float64 { return 100 })

	rows, periods := futureFrame(frame, testLags, testWindows, 5)
	require.Len(t, rows, 5)
	require.Len(t, periods, 5)

	want := []models.Period{
		{Ano: 2023, Mes: 12},
		{Ano: 2024, Mes: 1},
		{Ano: 2024, Mes: 2},
		{Ano: 2024, Mes: 3},
		{Ano: 2024, Mes: 4},
	}
	assert.Equal(t, want, periods)
}

func TestFutureFrameHorizonLength(t *testing.T) {
	frame := frameEndingAt(30, 2023, 12, func(i int) float64 { return float64(i) })

	for _, horizon := range []int{1, 6, 24, 36} {
		rows, periods := futureFrame(frame, testLags, testWindows, horizon)
		assert.Len(t, rows, horizon)
		assert.Len(t, periods, horizon)
	}
}

func TestFutureFrameRowShape(t *testing.T) {
	frame := frameEndingAt(24, 2023, 6, func(i int) float64 { return float64(i) })

	rows, _ := futureFrame(frame, testLags, testWindows, 3)
	for _, row := range rows {
		assert.Len(t, row, len(frame.Columns))
	}
}

func TestFutureFrameTrendContinues(t *testing.T) {
	frame := frameEndingAt(24, 2023, 12, func(i int) float64 { return float64(i) })

	rows, _ := futureFrame(frame, testLags, testWindows, 4)
	trendIdx := indexOf(t, frame.Columns, "trend")
	for h, row := range rows {
		assert.Equal(t, float64(frame.Len()+h), row[trendIdx], "step %d", h+1)
	}
}

func TestFutureFrameCalendarFeatures(t *testing.T) {
	frame := frameEndingAt(24, 2023, 11, func(i int) float64 { return 100 })

	rows, _ := futureFrame(frame, testLags, testWindows, 2)
	yearIdx := indexOf(t, frame.Columns, "year")
	monthIdx := indexOf(t, frame.Columns, "month")
	sinIdx := indexOf(t, frame.Columns, "month_sin")

	assert.Equal(t, 2023.0, rows[0][yearIdx])
	assert.Equal(t, 12.0, rows[0][monthIdx])
	assert.InDelta(t, math.Sin(2*math.Pi*12/12), rows[0][sinIdx], 1e-12)

	assert.Equal(t, 2024.0, rows[1][yearIdx])
	assert.Equal(t, 1.0, rows[1][monthIdx])
}

func TestFutureFrameBufferAdvancesWithLastActual(t *testing.T) {
	// Distinct trailing values so the carried-forward rule is observable.
	frame := frameEndingAt(24, 2023, 12, func(i int) float64 { return float64(i + 1) })
	lastActual := frame.Targets[frame.Len()-1]

	rows, _ := futureFrame(frame, testLags, testWindows, 6)
	lag1Idx := indexOf(t, frame.Columns, "lag_1")

	// The buffer repeats the last known actual, so lag_1 is constant at
	// every step instead of following model predictions.
	for h, row := range rows {
		assert.Equal(t, lastActual, row[lag1Idx], "step %d", h+1)
	}
}

func TestFutureFrameLagIndexing(t *testing.T) {
	frame := frameEndingAt(24, 2023, 12, func(i int) float64 { return float64(i + 1) })

	rows, _ := futureFrame(frame, testLags, testWindows, 1)
	lag12Idx := indexOf(t, frame.Columns, "lag_12")
	lag3Idx := indexOf(t, frame.Columns, "lag_3")

	// Buffer holds targets 13..24; one step ahead, lag_12 reaches its
	// oldest element and lag_3 reaches 22.
	assert.Equal(t, 13.0, rows[0][lag12Idx])
	assert.Equal(t, 22.0, rows[0][lag3Idx])
}

func TestFutureFrameLagUnderflowFallsBackToMean(t *testing.T) {
	frame := frameEndingAt(24, 2023, 12, func(i int) float64 { return float64(i + 1) })

	rows, _ := futureFrame(frame, []int{15}, []int{3}, 1)
	// Buffer seeds with the trailing 12 values 13..24; lag 15 underflows
	// and falls back to the buffer mean.
	buffer := frame.Targets[frame.Len()-12:]
	assert.InDelta(t, stat.Mean(buffer, nil), rows[0][5], 1e-9)
}

func TestFutureFrameRollingStats(t *testing.T) {
	frame := frameEndingAt(24, 2023, 12, func(i int) float64 { return float64(i + 1) })

	rows, _ := futureFrame(frame, testLags, testWindows, 1)
	meanIdx := indexOf(t, frame.Columns, "rolling_mean_3")
	stdIdx := indexOf(t, frame.Columns, "rolling_std_3")

	// Trailing window {22, 23, 24}.
	assert.InDelta(t, 23.0, rows[0][meanIdx], 1e-9)
	assert.InDelta(t, math.Sqrt(2.0/3.0), rows[0][stdIdx], 1e-9)
}

func indexOf(t *testing.T, columns []string, name string) int {
	t.Helper()
	for i, col := range columns {
		if col == name {
			return i
		}
	}
	t.Fatalf("column %q not found", name)
	return -1
}

package services

import (
	"gonum.org/v1/gonum/stat"

	"github.com/creditorural/forecaster/internal/features"
	"github.com/creditorural/forecaster/internal/models"
)

// bufferSeedLen is how many trailing known values seed the rolling buffer
// for future-feature simulation.
const bufferSeedLen = 12

// futureFrame simulates one feature row per future period, step by step,
// because lag and rolling features at step h depend on values at earlier
// steps. Periods advance from the last retained period with month/year
// carry; the trend continues from the featurized row count.
//
// The buffer advances by repeating the last known actual value instead of
// feeding back each step's own prediction. That keeps the simulation
// decoupled from prediction error compounding, at the cost of feature
// drift not following the model's own trajectory.
func futureFrame(frame *features.Frame, lags, windows []int, horizon int) ([][]float64, []models.Period) {
	last := frame.LastPeriod()

	start := len(frame.Targets) - bufferSeedLen
	if start < 0 {
		start = 0
	}
	buffer := append([]float64(nil), frame.Targets[start:]...)

	rows := make([][]float64, 0, horizon)
	periods := make([]models.Period, 0, horizon)

	for h := 1; h <= horizon; h++ {
		mes := (last.Mes+h-1)%12 + 1
		ano := last.Ano + (last.Mes+h-1)/12

		monthSin, monthCos := features.MonthCycle(mes)
		row := make([]float64, 0, len(frame.Columns))
		row = append(row,
			float64(ano),
			float64(mes),
			monthSin,
			monthCos,
			float64(frame.Len()+h-1),
		)

		for _, lag := range lags {
			if idx := len(buffer) - lag; idx >= 0 {
				row = append(row, buffer[idx])
			} else {
				row = append(row, stat.Mean(buffer, nil))
			}
		}

		for _, window := range windows {
			tail := buffer
			if len(buffer) > window {
				tail = buffer[len(buffer)-window:]
			}
			row = append(row, stat.Mean(tail, nil))
			if len(tail) > 1 {
				row = append(row, stat.PopStdDev(tail, nil))
			} else {
				row = append(row, 0)
			}
		}

		rows = append(rows, row)
		periods = append(periods, models.Period{Ano: ano, Mes: mes})

		buffer = append(buffer, buffer[len(buffer)-1])
	}

	return rows, periods
}

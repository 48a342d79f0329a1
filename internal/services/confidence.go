package services

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Dispersion proxy for the confidence bands: the standard deviation of
// the point forecasts themselves, scaled down, at the standard normal
// quantiles for 80% and 95%. This conveys uncertainty magnitude; it is a
// design simplification, not a calibrated predictive interval.
const (
	dispersionScale = 0.15
	quantile80      = 1.28
	quantile95      = 1.96
)

// Bands are symmetric confidence intervals around each point forecast.
type Bands struct {
	Lower80 []float64
	Upper80 []float64
	Lower95 []float64
	Upper95 []float64
}

func confidenceBands(predictions []float64) Bands {
	sigma := stat.PopStdDev(predictions, nil) * dispersionScale
	return Bands{
		Lower80: shifted(predictions, -quantile80*sigma),
		Upper80: shifted(predictions, quantile80*sigma),
		Lower95: shifted(predictions, -quantile95*sigma),
		Upper95: shifted(predictions, quantile95*sigma),
	}
}

func shifted(values []float64, offset float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	floats.AddConst(offset, out)
	return out
}

package models

import (
	"encoding/json"
	"time"
)

// PredictionPoint is one forecast period with its confidence bands. Field
// names follow the dashboard artifact contract.
type PredictionPoint struct {
	Ano     int     `json:"ano"`
	Mes     int     `json:"mes"`
	Valor   float64 `json:"valor"`
	Lower80 float64 `json:"lower_80"`
	Upper80 float64 `json:"upper_80"`
	Lower95 float64 `json:"lower_95"`
	Upper95 float64 `json:"upper_95"`
}

// ForecastMetrics are the held-out accuracy metrics for one trained model.
type ForecastMetrics struct {
	MAPE float64 `json:"mape"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// SeriesForecast is the outcome of one series x model pair: either a
// populated forecast or a typed error marker. Immutable once produced.
// The top-level metric duplicates mirror the nested block for dashboard
// widgets that read them directly.
type SeriesForecast struct {
	Predictions []PredictionPoint `json:"predictions,omitempty"`
	Metrics     *ForecastMetrics  `json:"metrics,omitempty"`
	MAPE        *float64          `json:"mape,omitempty"`
	RMSE        *float64          `json:"rmse,omitempty"`
	R2          *float64          `json:"r2,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// NewErrorForecast builds an error-marker outcome.
func NewErrorForecast(reason string) *SeriesForecast {
	return &SeriesForecast{Error: reason}
}

// BundleMeta describes one pipeline run.
type BundleMeta struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Horizon     int       `json:"horizon"`
}

// ResultBundle maps series key -> model kind -> forecast outcome. It is
// built fresh on every run and serialized as the terminal artifact.
type ResultBundle struct {
	Meta   BundleMeta
	Series map[string]map[string]*SeriesForecast
}

// NewResultBundle creates an empty bundle for one run.
func NewResultBundle(meta BundleMeta) *ResultBundle {
	return &ResultBundle{
		Meta:   meta,
		Series: make(map[string]map[string]*SeriesForecast),
	}
}

// MarshalJSON flattens the series maps to the top level next to "_meta",
// preserving the artifact shape the dashboard already consumes.
func (b *ResultBundle) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(b.Series)+1)
	out["_meta"] = b.Meta
	for key, byModel := range b.Series {
		out[key] = byModel
	}
	return json.Marshal(out)
}

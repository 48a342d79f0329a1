package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain number", input: `{"valor": 1234.56}`, want: 1234.56},
		{name: "numeric string", input: `{"valor": "789.25"}`, want: 789.25},
		{name: "integer", input: `{"valor": 42}`, want: 42},
		{name: "null coerces to zero", input: `{"valor": null}`, want: 0},
		{name: "garbage coerces to zero", input: `{"valor": "n/a"}`, want: 0},
		{name: "missing stays zero", input: `{}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var record AggregateRecord
			require.NoError(t, json.Unmarshal([]byte(tt.input), &record))
			assert.Equal(t, tt.want, record.Valor.Float64())
		})
	}
}

func TestNumericInt(t *testing.T) {
	var record AggregateRecord
	require.NoError(t, json.Unmarshal([]byte(`{"ano": 2023, "mes": "7"}`), &record))
	assert.Equal(t, 2023, record.Ano.Int())
	assert.Equal(t, 7, record.Mes.Int())
}

func TestAggregatedDataEmpty(t *testing.T) {
	var data AggregatedData
	assert.True(t, data.Empty())

	data.ByAno = []AggregateRecord{{}}
	assert.False(t, data.Empty())
}

func TestResultBundleMarshalShape(t *testing.T) {
	bundle := NewResultBundle(BundleMeta{
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Horizon:     24,
	})
	bundle.Series["total"] = map[string]*SeriesForecast{
		"randomforest": NewErrorForecast("Insufficient data"),
	}

	raw, err := json.Marshal(bundle)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "_meta")
	assert.Contains(t, decoded, "total")

	var byModel map[string]map[string]string
	require.NoError(t, json.Unmarshal(decoded["total"], &byModel))
	assert.Equal(t, "Insufficient data", byModel["randomforest"]["error"])
}

func TestErrorForecastOmitsMetrics(t *testing.T) {
	raw, err := json.Marshal(NewErrorForecast("xgboost not available"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "xgboost not available"}`, string(raw))
}

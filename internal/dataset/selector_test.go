package dataset

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditorural/forecaster/internal/models"
)

func numeric(v float64) models.Numeric {
	return models.Numeric{Decimal: decimal.NewFromFloat(v)}
}

func record(ano, mes int, valor float64) models.AggregateRecord {
	return models.AggregateRecord{
		Ano:   numeric(float64(ano)),
		Mes:   numeric(float64(mes)),
		Valor: numeric(valor),
	}
}

func categoryRecord(ano, mes int, finalidade string, valor float64) models.AggregateRecord {
	r := record(ano, mes, valor)
	r.Finalidade = finalidade
	return r
}

func TestSelectTotalPrefersMonthly(t *testing.T) {
	data := &models.AggregatedData{
		ByMes: []models.AggregateRecord{
			record(2023, 2, 200),
			record(2023, 1, 100),
		},
		ByAno: []models.AggregateRecord{record(2023, 0, 300)},
	}

	obs := Select(data, "total")
	require.Len(t, obs, 2)
	assert.Equal(t, 1, obs[0].Mes)
	assert.Equal(t, 100.0, obs[0].Valor)
	assert.Equal(t, 2, obs[1].Mes)
}

func TestSelectTotalFallsBackToAnnual(t *testing.T) {
	data := &models.AggregatedData{
		ByAno: []models.AggregateRecord{
			record(2014, 0, 250),
			record(2013, 0, 150),
		},
	}

	obs := Select(data, "total")
	require.Len(t, obs, 2)
	// Annual rows take the mid-year placeholder month.
	assert.Equal(t, 2013, obs[0].Ano)
	assert.Equal(t, 6, obs[0].Mes)
	assert.Equal(t, 6, obs[1].Mes)
}

func TestSelectCategoryCaseInsensitive(t *testing.T) {
	data := &models.AggregatedData{
		ByFinalidadeMes: []models.AggregateRecord{
			categoryRecord(2023, 1, "CUSTEIO", 100),
			categoryRecord(2023, 2, "Custeio", 110),
			categoryRecord(2023, 1, "INVESTIMENTO", 900),
		},
	}

	obs := Select(data, "custeio")
	require.Len(t, obs, 2)
	assert.Equal(t, 100.0, obs[0].Valor)
	assert.Equal(t, 110.0, obs[1].Valor)
}

func TestSelectCategoryAnnualFallback(t *testing.T) {
	data := &models.AggregatedData{
		ByFinalidadeMes: []models.AggregateRecord{
			categoryRecord(2023, 1, "custeio", 100),
		},
		ByFinalidade: []models.AggregateRecord{
			categoryRecord(2022, 0, "investimento", 500),
			categoryRecord(2021, 0, "investimento", 450),
		},
	}

	// No monthly rows match investimento, so the annual view is used.
	obs := Select(data, "investimento")
	require.Len(t, obs, 2)
	assert.Equal(t, 2021, obs[0].Ano)
	assert.Equal(t, 6, obs[0].Mes)
	assert.Equal(t, 450.0, obs[0].Valor)
}

func TestSelectMonthlyKeepsMissingMonth(t *testing.T) {
	data := &models.AggregatedData{
		ByMes: []models.AggregateRecord{
			record(2023, 0, 100),
			record(2023, 3, 300),
		},
	}

	// A monthly row with a missing mes keeps the coerced zero; only the
	// annual fallback remaps to the mid-year placeholder.
	obs := Select(data, "total")
	require.Len(t, obs, 2)
	assert.Equal(t, 0, obs[0].Mes)
	assert.Equal(t, 100.0, obs[0].Valor)
	assert.Equal(t, 3, obs[1].Mes)
}

func TestSelectUnknownKey(t *testing.T) {
	data := &models.AggregatedData{
		ByMes: []models.AggregateRecord{record(2023, 1, 100)},
	}
	assert.Empty(t, Select(data, "pronaf"))
}

func TestSelectNoData(t *testing.T) {
	assert.Empty(t, Select(&models.AggregatedData{}, "total"))
	assert.Empty(t, Select(&models.AggregatedData{}, "custeio"))
}

func TestSelectSortsByYearThenMonth(t *testing.T) {
	data := &models.AggregatedData{
		ByMes: []models.AggregateRecord{
			record(2024, 1, 4),
			record(2023, 12, 3),
			record(2023, 2, 2),
			record(2023, 1, 1),
		},
	}

	obs := Select(data, "total")
	require.Len(t, obs, 4)
	values := []float64{obs[0].Valor, obs[1].Valor, obs[2].Valor, obs[3].Valor}
	assert.Equal(t, []float64{1, 2, 3, 4}, values)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"comercializacao", "custeio", "investimento"}, Categories())
}

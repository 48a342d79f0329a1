package dataset

import (
	"sort"
	"strings"

	"github.com/creditorural/forecaster/internal/models"
)

// SeriesTotal selects the state-wide total credit series.
const SeriesTotal = "total"

// midYearMonth is the placeholder month assigned to annual rows so they
// can share the monthly (ano, mes) ordering.
const midYearMonth = 6

// categoryKeys are the credit purposes the aggregate views break out.
var categoryKeys = map[string]struct{}{
	"custeio":         {},
	"investimento":    {},
	"comercializacao": {},
}

// Select assembles one time-ordered observation sequence for a logical
// series key. Monthly views are preferred; annual views fall back with the
// month fixed to mid-year. An unknown key yields an empty sequence, which
// signals "no data" rather than an error.
func Select(data *models.AggregatedData, key string) []models.Observation {
	key = strings.ToLower(key)

	var records []models.AggregateRecord
	annual := false

	switch {
	case key == SeriesTotal:
		switch {
		case len(data.ByMes) > 0:
			records = data.ByMes
		case len(data.ByAno) > 0:
			records = data.ByAno
			annual = true
		default:
			return nil
		}
	case isCategory(key):
		records = filterCategory(data.ByFinalidadeMes, key)
		if len(records) == 0 {
			records = filterCategory(data.ByFinalidade, key)
			annual = true
		}
		if len(records) == 0 {
			return nil
		}
	default:
		return nil
	}

	observations := make([]models.Observation, 0, len(records))
	for _, record := range records {
		obs := models.Observation{
			Ano:       record.Ano.Int(),
			Mes:       record.Mes.Int(),
			Valor:     record.Valor.Float64(),
			Contratos: record.Contratos.Float64(),
			Area:      record.Area.Float64(),
		}
		// Only the annual fallback gets the placeholder month; a monthly
		// record with a missing mes keeps the coerced zero.
		if annual {
			obs.Mes = midYearMonth
		}
		observations = append(observations, obs)
	}

	sort.SliceStable(observations, func(i, j int) bool {
		if observations[i].Ano != observations[j].Ano {
			return observations[i].Ano < observations[j].Ano
		}
		return observations[i].Mes < observations[j].Mes
	})

	return observations
}

// Categories returns the known category series keys in sorted order.
func Categories() []string {
	keys := make([]string, 0, len(categoryKeys))
	for key := range categoryKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func isCategory(key string) bool {
	_, ok := categoryKeys[key]
	return ok
}

func filterCategory(records []models.AggregateRecord, key string) []models.AggregateRecord {
	var filtered []models.AggregateRecord
	for _, record := range records {
		if strings.EqualFold(record.Finalidade, key) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

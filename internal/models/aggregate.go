package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Numeric decodes a numeric JSON value that may arrive as a number, a
// numeric string, or null. Anything unparsable coerces to zero, matching
// the upstream aggregate contract for monetary fields.
type Numeric struct {
	decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		n.Decimal = decimal.Zero
		return nil
	}
	s = strings.Trim(s, `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		n.Decimal = decimal.Zero
		return nil
	}
	n.Decimal = d
	return nil
}

// Float64 returns the value as a float64.
func (n Numeric) Float64() float64 {
	f, _ := n.Decimal.Float64()
	return f
}

// Int returns the value truncated to an int.
func (n Numeric) Int() int {
	return int(n.Decimal.IntPart())
}

// AggregateRecord is one row of a pre-aggregated view produced by the ETL
// layer. Depending on the view it carries a month and/or a credit purpose.
type AggregateRecord struct {
	Ano        Numeric `json:"ano"`
	Mes        Numeric `json:"mes"`
	Finalidade string  `json:"finalidade"`
	Valor      Numeric `json:"valor"`
	Contratos  Numeric `json:"contratos"`
	Area       Numeric `json:"area"`
}

// AggregatedData is the canonical aggregated-series artifact consumed by
// the forecasting pipeline. Views the ETL did not produce are simply nil.
type AggregatedData struct {
	ByMes           []AggregateRecord `json:"byMes"`
	ByAno           []AggregateRecord `json:"byAno"`
	ByFinalidadeMes []AggregateRecord `json:"byFinalidadeMes"`
	ByFinalidade    []AggregateRecord `json:"byFinalidade"`
}

// Empty reports whether no view carries any rows at all.
func (d *AggregatedData) Empty() bool {
	return len(d.ByMes) == 0 && len(d.ByAno) == 0 &&
		len(d.ByFinalidadeMes) == 0 && len(d.ByFinalidade) == 0
}

// Observation is one period of a selected series, ordered by (Ano, Mes).
type Observation struct {
	Ano       int
	Mes       int
	Valor     float64
	Contratos float64
	Area      float64
}

// Period identifies a calendar month.
type Period struct {
	Ano int
	Mes int
}

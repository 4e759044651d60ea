package analysis

import (
	"math"
	"strings"
	"time"

	"golden-cross/src/analysis/core"
	"golden-cross/src/helpers"
	"golden-cross/src/models"

	"github.com/moznion/go-optional"
)

// Moving-average windows, in rows.
const (
	ShortWindow = 50
	LongWindow  = 200
)

// -----------------------------------------------------------------------------

// FlattenColumns returns a flat copy of table keyed by lower-case field
// name. A nested table keeps the columns of the ticker named by its first
// column; other tickers are dropped. The first column wins when a field
// repeats. The input is not modified.
func FlattenColumns(table *models.MPriceTable) (*models.MPriceTable, error) {
	if table == nil {
		return nil, helpers.NewValidationError("price table is nil")
	}

	ticker := ""
	if table.IsNested() && len(table.Columns) > 0 {
		ticker = table.Columns[0].Ticker
	}

	out := &models.MPriceTable{
		Symbol: table.Symbol,
		Dates:  append(make([]time.Time, 0, len(table.Dates)), table.Dates...),
	}

	seen := make(map[string]bool, len(table.Columns))
	for i, col := range table.Columns {
		if col.Ticker != ticker {
			continue
		}
		field := strings.ToLower(strings.TrimSpace(col.Field))
		if field == "" || seen[field] {
			continue
		}
		seen[field] = true

		out.Columns = append(out.Columns, models.MColumnKey{Field: field})
		out.Values = append(out.Values, append([]float64(nil), table.Values[i]...))
	}

	if ticker != "" && out.Symbol == "" {
		out.Symbol = ticker
	}

	if !seen[models.FieldClose] {
		return nil, helpers.NewValidationError("price table for %q has no close column", table.Symbol)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// RollingMean is the trailing mean of values over window. Positions before
// the first full window, and windows holding a NaN, are None.
func RollingMean(values []float64, window int) []optional.Option[float64] {
	means, ok := core.CalculateRollingMean(values, window)

	out := make([]optional.Option[float64], len(values))
	for i := range out {
		if ok[i] {
			out[i] = optional.Some(means[i])
		} else {
			out[i] = optional.None[float64]()
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// ComputeMetrics flattens table and derives the 50- and 200-row simple
// moving averages of close. It performs no I/O and does not modify table.
func ComputeMetrics(table *models.MPriceTable) (*models.MDerivedSeries, error) {
	flat, err := FlattenColumns(table)
	if err != nil {
		return nil, err
	}

	closes, _ := flat.Column(models.FieldClose)

	return &models.MDerivedSeries{
		Symbol: flat.Symbol,
		Table:  flat,
		SMA50:  RollingMean(closes, ShortWindow),
		SMA200: RollingMean(closes, LongWindow),
	}, nil
}

// -----------------------------------------------------------------------------

// valueAt returns opt's value, or NaN for None.
func valueAt(opt optional.Option[float64]) float64 {
	v, err := opt.Take()
	if err != nil {
		return math.NaN()
	}
	return v
}

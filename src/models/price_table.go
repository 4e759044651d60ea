package models

import (
	"strings"
	"time"
)

// Canonical field names of a flattened price table.
const (
	FieldOpen   = "open"
	FieldHigh   = "high"
	FieldLow    = "low"
	FieldClose  = "close"
	FieldVolume = "volume"
)

// -----------------------------------------------------------------------------
// MSeriesKey identifies one fetch request and doubles as the cache key.
// -----------------------------------------------------------------------------

type MSeriesKey struct {
	Ticker string    `json:"ticker"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// String returns the canonical "TICKER|start|end" form used by cache backends.
func (k MSeriesKey) String() string {
	return k.Ticker + "|" + k.Start.Format(time.DateOnly) + "|" + k.End.Format(time.DateOnly)
}

// -----------------------------------------------------------------------------
// MColumnKey names a table column. Ticker is set only for nested tables,
// where the provider grouped the columns as (field, ticker).
// -----------------------------------------------------------------------------

type MColumnKey struct {
	Field  string `json:"field"`
	Ticker string `json:"ticker,omitempty"`
}

// -----------------------------------------------------------------------------
// MPriceTable is a date-ascending table of daily prices, one row per date.
// Values is column-major: Values[c][r] is column c at row r.
// -----------------------------------------------------------------------------

type MPriceTable struct {
	Symbol  string       `json:"symbol"`
	Dates   []time.Time  `json:"dates"`
	Columns []MColumnKey `json:"columns"`
	Values  [][]float64  `json:"values"`
}

// Len returns the number of rows.
func (t *MPriceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Dates)
}

// IsEmpty reports whether the table has no rows.
func (t *MPriceTable) IsEmpty() bool {
	return t.Len() == 0
}

// IsNested reports whether any column carries a second-level ticker label.
func (t *MPriceTable) IsNested() bool {
	for _, c := range t.Columns {
		if c.Ticker != "" {
			return true
		}
	}
	return false
}

// Column returns the values of a flat column by field name.
func (t *MPriceTable) Column(field string) ([]float64, bool) {
	for i, c := range t.Columns {
		if c.Ticker == "" && strings.EqualFold(c.Field, field) {
			return t.Values[i], true
		}
	}
	return nil, false
}

// -----------------------------------------------------------------------------

// NewFlatTable builds a flat OHLCV table from row-ordered bars.
func NewFlatTable(symbol string, bars []MPriceBar) *MPriceTable {
	t := &MPriceTable{
		Symbol: symbol,
		Dates:  make([]time.Time, len(bars)),
		Columns: []MColumnKey{
			{Field: FieldOpen},
			{Field: FieldHigh},
			{Field: FieldLow},
			{Field: FieldClose},
			{Field: FieldVolume},
		},
		Values: make([][]float64, 5),
	}
	for c := range t.Values {
		t.Values[c] = make([]float64, len(bars))
	}
	for r, b := range bars {
		t.Dates[r] = b.Date
		t.Values[0][r] = b.Open
		t.Values[1][r] = b.High
		t.Values[2][r] = b.Low
		t.Values[3][r] = b.Close
		t.Values[4][r] = b.Volume
	}
	return t
}

// -----------------------------------------------------------------------------
// MPriceBar is one daily OHLCV record as delivered by a provider.
// -----------------------------------------------------------------------------

type MPriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

package models

import (
	"time"

	"github.com/moznion/go-optional"
)

// MDerivedSeries is a flattened price table with the two moving-average
// columns appended. SMA50[i] and SMA200[i] align with Table row i.
type MDerivedSeries struct {
	Symbol string                     `json:"symbol"`
	Table  *MPriceTable               `json:"table"`
	SMA50  []optional.Option[float64] `json:"sma50"`
	SMA200 []optional.Option[float64] `json:"sma200"`
}

// Len returns the number of rows.
func (d *MDerivedSeries) Len() int {
	if d == nil {
		return 0
	}
	return d.Table.Len()
}

// Latest returns the index of the most recent row, or -1 when empty.
func (d *MDerivedSeries) Latest() int {
	return d.Len() - 1
}

// -----------------------------------------------------------------------------
// MCrossEvent marks the row where the short average crossed the long one.
// -----------------------------------------------------------------------------

type CrossKind string

const (
	GoldenCross CrossKind = "GOLDEN_CROSS"
	DeathCross  CrossKind = "DEATH_CROSS"
)

type MCrossEvent struct {
	Kind   CrossKind `json:"kind"`
	Index  int       `json:"index"`
	Date   time.Time `json:"date"`
	SMA50  float64   `json:"sma50"`
	SMA200 float64   `json:"sma200"`
	Close  float64   `json:"close"`
}

// Regime describes where the short average sits relative to the long one
// on the most recent row.
type Regime string

const (
	RegimeBullish      Regime = "BULLISH"
	RegimeBearish      Regime = "BEARISH"
	RegimeUndetermined Regime = "UNDETERMINED"
)

// -----------------------------------------------------------------------------
// MAnalysis bundles everything computed from one price table.
// -----------------------------------------------------------------------------

type MAnalysis struct {
	Series  *MDerivedSeries `json:"series"`
	Crosses []MCrossEvent   `json:"crosses"`
	Regime  Regime          `json:"regime"`
}

package analysis

import (
	"math"

	"golden-cross/src/analysis/core"
	"golden-cross/src/models"
)

// -----------------------------------------------------------------------------

// DetectCrosses lists the rows where sma50 moves to the other side of
// sma200. Rows where either average is missing are skipped, and a row where
// the two are equal keeps the previous side, so a touch without a cross
// produces no event.
func DetectCrosses(series *models.MDerivedSeries) []models.MCrossEvent {
	if series.Len() == 0 {
		return nil
	}

	closes, _ := series.Table.Column(models.FieldClose)

	var events []models.MCrossEvent
	prevSide := 0
	for i := 0; i < series.Len(); i++ {
		short, long := valueAt(series.SMA50[i]), valueAt(series.SMA200[i])
		if math.IsNaN(short) || math.IsNaN(long) {
			continue
		}

		side := core.Sign(short - long)
		if side == 0 {
			continue
		}

		if prevSide != 0 && side != prevSide {
			kind := models.GoldenCross
			if side < 0 {
				kind = models.DeathCross
			}
			events = append(events, models.MCrossEvent{
				Kind:   kind,
				Index:  i,
				Date:   series.Table.Dates[i],
				SMA50:  short,
				SMA200: long,
				Close:  closes[i],
			})
		}
		prevSide = side
	}
	return events
}

// -----------------------------------------------------------------------------

// CurrentRegime reports which side of sma200 the latest sma50 is on.
func CurrentRegime(series *models.MDerivedSeries) models.Regime {
	last := series.Latest()
	if last < 0 {
		return models.RegimeUndetermined
	}

	short, long := valueAt(series.SMA50[last]), valueAt(series.SMA200[last])
	if math.IsNaN(short) || math.IsNaN(long) {
		return models.RegimeUndetermined
	}

	switch core.Sign(short - long) {
	case 1:
		return models.RegimeBullish
	case -1:
		return models.RegimeBearish
	default:
		return models.RegimeUndetermined
	}
}

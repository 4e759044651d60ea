package analysis

import (
	"testing"

	"golden-cross/src/logger"
	"golden-cross/src/models"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// derivedFrom builds a series with hand-picked averages; a NaN marks None.
func derivedFrom(short, long []optional.Option[float64]) *models.MDerivedSeries {
	closes := make([]float64, len(short))
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	return &models.MDerivedSeries{
		Symbol: "TEST",
		Table:  flatCloses(closes),
		SMA50:  short,
		SMA200: long,
	}
}

func some(vs ...float64) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(vs))
	for i, v := range vs {
		out[i] = optional.Some(v)
	}
	return out
}

func TestDetectCrosses(t *testing.T) {
	short := append([]optional.Option[float64]{optional.None[float64]()}, some(9, 11, 11, 10, 9, 12)...)
	long := append([]optional.Option[float64]{optional.None[float64]()}, some(10, 10, 10, 10, 10, 10)...)

	events := DetectCrosses(derivedFrom(short, long))
	require.Len(t, events, 3)

	assert.Equal(t, models.GoldenCross, events[0].Kind)
	assert.Equal(t, 2, events[0].Index)
	assert.Equal(t, day0.AddDate(0, 0, 2), events[0].Date)
	assert.Equal(t, 102.0, events[0].Close)

	// the touch at index 4 keeps the bullish side; the cross lands at 5
	assert.Equal(t, models.DeathCross, events[1].Kind)
	assert.Equal(t, 5, events[1].Index)

	assert.Equal(t, models.GoldenCross, events[2].Kind)
	assert.Equal(t, 6, events[2].Index)
}

func TestDetectCrossesNeedsBothAverages(t *testing.T) {
	derived, err := ComputeMetrics(flatCloses(series(150)))
	require.NoError(t, err)
	assert.Empty(t, DetectCrosses(derived))
	assert.Equal(t, models.RegimeUndetermined, CurrentRegime(derived))
}

func TestCurrentRegime(t *testing.T) {
	assert.Equal(t, models.RegimeBullish, CurrentRegime(derivedFrom(some(11), some(10))))
	assert.Equal(t, models.RegimeBearish, CurrentRegime(derivedFrom(some(9), some(10))))
	assert.Equal(t, models.RegimeUndetermined, CurrentRegime(derivedFrom(some(10), some(10))))
	assert.Equal(t, models.RegimeUndetermined, CurrentRegime(derivedFrom(nil, nil)))
}

func TestAnalyzeKeepsRecentCrosses(t *testing.T) {
	// rising then falling then rising closes produce two crosses
	closes := make([]float64, 0, 900)
	for i := 0; i < 300; i++ {
		closes = append(closes, 100+float64(i))
	}
	for i := 0; i < 300; i++ {
		closes = append(closes, 400-float64(i))
	}
	for i := 0; i < 300; i++ {
		closes = append(closes, 100+float64(i))
	}

	cfg := &models.MConfig{Analysis: models.MAnalysisConfig{RecentCrosses: 1}}
	facade := NewAnalysisFacade(cfg, logger.Nop())

	result, err := facade.Analyze(flatCloses(closes))
	require.NoError(t, err)
	require.Len(t, result.Crosses, 1)
	assert.Equal(t, models.GoldenCross, result.Crosses[0].Kind)
	assert.Equal(t, models.RegimeBullish, result.Regime)
	assert.Equal(t, 900, result.Series.Len())

	all := DetectCrosses(result.Series)
	require.Len(t, all, 2)
	assert.Equal(t, models.DeathCross, all[0].Kind)
}

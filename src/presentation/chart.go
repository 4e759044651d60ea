package presentation

import (
	"math"
	"time"

	"golden-cross/src/models"

	"github.com/moznion/go-optional"
)

// ChartBuilder assembles a Plotly figure trace by trace.
type ChartBuilder struct {
	figure *models.MChartFigure
}

// -----------------------------------------------------------------------------

func NewChartBuilder(title string) *ChartBuilder {
	return &ChartBuilder{
		figure: &models.MChartFigure{
			Layout: models.MChartLayout{
				Title: title,
				XAxis: models.MAxisSpec{
					Title:       "Date",
					RangeSlider: &models.MRangeSlider{Visible: false},
				},
				YAxis:  models.MAxisSpec{Title: "Price"},
				Height: 600,
			},
		},
	}
}

// -----------------------------------------------------------------------------

// AddCandlestick adds an OHLC trace. The four series must align with dates;
// NaN cells become gaps.
func (b *ChartBuilder) AddCandlestick(name string, dates []time.Time, open, high, low, close []float64) *ChartBuilder {
	b.figure.Data = append(b.figure.Data, models.MChartTrace{
		Type:  "candlestick",
		Name:  name,
		X:     formatDates(dates),
		Open:  withGaps(open),
		High:  withGaps(high),
		Low:   withGaps(low),
		Close: withGaps(close),
	})
	return b
}

// -----------------------------------------------------------------------------

// AddLine adds a scatter line. None values and NaN become gaps.
func (b *ChartBuilder) AddLine(name string, dates []time.Time, values []optional.Option[float64], color string) *ChartBuilder {
	y := make([]*float64, len(values))
	for i, v := range values {
		if v.IsSome() && !math.IsNaN(v.Unwrap()) {
			value := v.Unwrap()
			y[i] = &value
		}
	}

	b.figure.Data = append(b.figure.Data, models.MChartTrace{
		Type: "scatter",
		Mode: "lines",
		Name: name,
		X:    formatDates(dates),
		Y:    y,
		Line: &models.MLineStyle{Color: color, Width: 2},
	})
	return b
}

// -----------------------------------------------------------------------------

func (b *ChartBuilder) Figure() *models.MChartFigure {
	return b.figure
}

// -----------------------------------------------------------------------------

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(time.DateOnly)
	}
	return out
}

// -----------------------------------------------------------------------------

// withGaps maps NaN to nil. encoding/json rejects NaN.
func withGaps(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			v := v
			out[i] = &v
		}
	}
	return out
}

// -----------------------------------------------------------------------------

func someAll(values []float64) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(values))
	for i, v := range values {
		out[i] = optional.Some(v)
	}
	return out
}

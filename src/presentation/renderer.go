package presentation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golden-cross/src/analysis/core"
	"golden-cross/src/models"

	"github.com/dustin/go-humanize"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

const (
	Title = "📈 Golden Cross Strategy Visualizer"

	// Placeholder for a value that cannot be computed yet
	Missing = "N/A"

	NoDataMessage         = "No data found. Please check the Ticker symbol."
	FetchFailedMessage    = "Error fetching data: %s"
	InvalidRequestMessage = "invalid request: %s"

	ShortColor = "orange"
	LongColor  = "blue"
)

// Description is the explanatory text shown under the title.
var Description = []string{
	"This tool visualizes the Golden Cross (Bullish) and Death Cross (Bearish) technical patterns.",
	"Golden Cross: When the 50-day SMA crosses above the 200-day SMA.",
	"Death Cross: When the 50-day SMA crosses below the 200-day SMA.",
}

// -----------------------------------------------------------------------------

// NewView returns the frame every render shares, before any data is known.
func NewView(ticker string, years int, start, end time.Time) *models.MDashboardView {
	return &models.MDashboardView{
		Title:       Title,
		Description: Description,
		Ticker:      ticker,
		Years:       years,
		Start:       start.Format(time.DateOnly),
		End:         end.Format(time.DateOnly),
	}
}

// -----------------------------------------------------------------------------

// NoDataView turns view into the "no data" message.
func NoDataView(view *models.MDashboardView) *models.MDashboardView {
	view.Status = models.StatusNoData
	view.Message = NoDataMessage
	return view
}

// -----------------------------------------------------------------------------

// ErrorView turns view into the fetch failure message for cause.
func ErrorView(view *models.MDashboardView, cause string) *models.MDashboardView {
	view.Status = models.StatusError
	view.Message = fmt.Sprintf(FetchFailedMessage, cause)
	return view
}

// -----------------------------------------------------------------------------

// InvalidRequestView turns view into the message for a rejected request.
func InvalidRequestView(view *models.MDashboardView, cause string) *models.MDashboardView {
	view.Status = models.StatusError
	view.Message = fmt.Sprintf(InvalidRequestMessage, cause)
	return view
}

// -----------------------------------------------------------------------------

// BuildDashboardView fills view with the chart, the three readouts, the
// trailing table and the cross summary of result. It only formats.
func BuildDashboardView(view *models.MDashboardView, result *models.MAnalysis, tableRows int) *models.MDashboardView {
	series := result.Series
	view.Status = models.StatusOK
	view.Message = ""
	view.Regime = result.Regime

	if series.Len() == 0 {
		return NoDataView(view)
	}

	view.Metrics = buildReadouts(series)
	view.Figure = buildFigure(view.Ticker, series)
	view.Table = buildTable(series, tableRows)

	// Most recent first
	for i := len(result.Crosses) - 1; i >= 0; i-- {
		view.Crosses = append(view.Crosses, crossView(result.Crosses[i]))
	}
	return view
}

// -----------------------------------------------------------------------------

func buildReadouts(series *models.MDerivedSeries) []models.MMetricReadout {
	last := series.Latest()
	closes, _ := series.Table.Column(models.FieldClose)
	price := optional.Some(closes[last])
	if math.IsNaN(closes[last]) {
		price = optional.None[float64]()
	}

	readouts := []models.MMetricReadout{
		readout("Current Price", price),
		readout("50-Day SMA", series.SMA50[last]),
		readout("200-Day SMA", series.SMA200[last]),
	}

	// Distance of the price from each average
	if price.IsSome() {
		for i, avg := range []optional.Option[float64]{series.SMA50[last], series.SMA200[last]} {
			if avg.IsSome() {
				readouts[i+1].Delta = FormatPercent(core.CalculateChangePercent(price.Unwrap(), avg.Unwrap()))
			}
		}
	}
	return readouts
}

// -----------------------------------------------------------------------------

func readout(label string, value optional.Option[float64]) models.MMetricReadout {
	if value.IsNone() {
		return models.MMetricReadout{Label: label, Value: Missing, Missing: true}
	}
	v := value.Unwrap()
	return models.MMetricReadout{Label: label, Value: FormatMoney(v), Raw: &v}
}

// -----------------------------------------------------------------------------

func buildFigure(ticker string, series *models.MDerivedSeries) *models.MChartFigure {
	flat := series.Table
	chart := NewChartBuilder(fmt.Sprintf("%s Price vs Moving Averages", ticker))

	open, okO := flat.Column(models.FieldOpen)
	high, okH := flat.Column(models.FieldHigh)
	low, okL := flat.Column(models.FieldLow)
	closes, _ := flat.Column(models.FieldClose)

	if okO && okH && okL {
		chart.AddCandlestick("Price", flat.Dates, open, high, low, closes)
	} else {
		chart.AddLine("Price", flat.Dates, someAll(closes), "black")
	}

	chart.AddLine("SMA 50", flat.Dates, series.SMA50, ShortColor)
	chart.AddLine("SMA 200", flat.Dates, series.SMA200, LongColor)
	return chart.Figure()
}

// -----------------------------------------------------------------------------

func buildTable(series *models.MDerivedSeries, rows int) *models.MDataTable {
	flat := series.Table
	n := flat.Len()
	from := n - rows
	if from < 0 {
		from = 0
	}

	table := &models.MDataTable{
		Caption: fmt.Sprintf("Raw Data (Last %d Days)", n-from),
		Headers: []string{"Date"},
	}
	for _, col := range flat.Columns {
		table.Headers = append(table.Headers, columnTitle(col.Field))
	}
	table.Headers = append(table.Headers, "SMA50", "SMA200")

	for r := from; r < n; r++ {
		row := []string{flat.Dates[r].Format(time.DateOnly)}
		for c, col := range flat.Columns {
			row = append(row, formatCell(col.Field, flat.Values[c][r]))
		}
		row = append(row, formatOptional(series.SMA50[r]), formatOptional(series.SMA200[r]))
		table.Rows = append(table.Rows, row)
	}
	return table
}

// -----------------------------------------------------------------------------

func crossView(ev models.MCrossEvent) models.MCrossView {
	label := "Golden Cross"
	if ev.Kind == models.DeathCross {
		label = "Death Cross"
	}
	return models.MCrossView{
		Kind:  ev.Kind,
		Label: label,
		Date:  ev.Date.Format(time.DateOnly),
		Close: FormatMoney(ev.Close),
	}
}

// -----------------------------------------------------------------------------

// FormatMoney renders v as "$" with two decimals.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing
	}
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// FormatPercent renders a fraction as a signed percentage.
func FormatPercent(fraction float64) string {
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) {
		return Missing
	}
	pct := decimal.NewFromFloat(fraction).Mul(decimal.NewFromInt(100))
	sign := ""
	if pct.IsPositive() {
		sign = "+"
	}
	return sign + pct.StringFixed(2) + "%"
}

// -----------------------------------------------------------------------------

func formatCell(field string, v float64) string {
	if math.IsNaN(v) {
		return Missing
	}
	if field == models.FieldVolume {
		return humanize.Comma(int64(math.Round(v)))
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func formatOptional(v optional.Option[float64]) string {
	if v.IsNone() {
		return Missing
	}
	return formatCell("", v.Unwrap())
}

func columnTitle(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
